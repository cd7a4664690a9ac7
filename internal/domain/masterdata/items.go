package masterdata

import "github.com/modelfactory/mes/internal/domain/shared"

// Product is a sellable finished good, stored at the plant warehouse (WS-7)
type Product struct {
	ID          int
	Name        string
	Description string
}

// Module is an intermediate good produced by one cell and stored at the
// modules supermarket (WS-8). ProductionWorkstationID decides whether it is
// made in a manufacturing cell (WS-1..WS-3, from parts only) or an assembly
// cell (WS-4..WS-6, from parts and already-produced modules).
type Module struct {
	ID                      int
	Name                    string
	ProductionWorkstationID int
	EstimatedTimeMinutes    int
}

// Part is a raw part stocked at the parts supply warehouse (WS-9)
type Part struct {
	ID   int
	Name string
}

// Ref returns the item reference for a product
func (p Product) Ref() shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypeProduct, ID: p.ID}
}

// Ref returns the item reference for a module
func (m Module) Ref() shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypeModule, ID: m.ID}
}

// Ref returns the item reference for a part
func (p Part) Ref() shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypePart, ID: p.ID}
}
