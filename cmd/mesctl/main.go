package main

import "github.com/modelfactory/mes/internal/adapters/cli"

func main() {
	cli.Execute()
}
