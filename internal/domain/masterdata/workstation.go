package masterdata

import "fmt"

// WorkstationRole classifies a workstation
type WorkstationRole string

const (
	RoleWarehouse     WorkstationRole = "WAREHOUSE"
	RoleManufacturing WorkstationRole = "MANUFACTURING"
	RoleAssembly      WorkstationRole = "ASSEMBLY"
)

// ParseWorkstationRole parses a persisted role value
func ParseWorkstationRole(s string) (WorkstationRole, error) {
	switch WorkstationRole(s) {
	case RoleWarehouse, RoleManufacturing, RoleAssembly:
		return WorkstationRole(s), nil
	}
	return "", fmt.Errorf("unknown workstation role: %q", s)
}

// Workstation is one of the nine stations WS-1..WS-9. Immutable after seed.
type Workstation struct {
	ID   int
	Role WorkstationRole
	Name string
}
