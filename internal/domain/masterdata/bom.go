package masterdata

import (
	"fmt"

	"github.com/modelfactory/mes/internal/domain/shared"
)

// BOMEdge is one directed edge of the bill of materials: a product needs
// quantity modules, or a module needs quantity parts or sub-modules.
type BOMEdge struct {
	Parent    shared.ItemRef
	Component shared.ItemRef
	Quantity  int
}

// NewBOMEdge creates a validated edge. Products decompose into modules;
// modules decompose into parts and sub-modules. Everything else is rejected.
func NewBOMEdge(parent, component shared.ItemRef, quantity int) (BOMEdge, error) {
	if quantity <= 0 {
		return BOMEdge{}, fmt.Errorf("BOM edge quantity must be positive, got %d", quantity)
	}
	if parent == component {
		return BOMEdge{}, fmt.Errorf("BOM edge cannot reference itself: %s", parent)
	}
	switch parent.Type {
	case shared.ItemTypeProduct:
		if component.Type != shared.ItemTypeModule {
			return BOMEdge{}, fmt.Errorf("product %d may only decompose into modules, got %s", parent.ID, component.Type)
		}
	case shared.ItemTypeModule:
		if component.Type != shared.ItemTypePart && component.Type != shared.ItemTypeModule {
			return BOMEdge{}, fmt.Errorf("module %d may only decompose into parts or sub-modules, got %s", parent.ID, component.Type)
		}
	default:
		return BOMEdge{}, fmt.Errorf("parts have no BOM: invalid parent %s", parent)
	}
	return BOMEdge{Parent: parent, Component: component, Quantity: quantity}, nil
}

// ValidateAcyclic rejects any edge set containing a cycle. Called at ingest
// so expansion never has to defend against unbounded recursion. Only module
// edges can form cycles (product edges always step down a level).
func ValidateAcyclic(edges []BOMEdge) error {
	adj := make(map[shared.ItemRef][]shared.ItemRef)
	for _, e := range edges {
		if e.Parent.Type == shared.ItemTypeModule && e.Component.Type == shared.ItemTypeModule {
			adj[e.Parent] = append(adj[e.Parent], e.Component)
		}
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[shared.ItemRef]int)

	var visit func(n shared.ItemRef) error
	visit = func(n shared.ItemRef) error {
		switch state[n] {
		case inStack:
			return fmt.Errorf("BOM cycle detected through %s", n)
		case done:
			return nil
		}
		state[n] = inStack
		for _, next := range adj[n] {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}

	for n := range adj {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}
