package bom

import (
	"context"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// maxDepth guards expansion against edge sets that slipped past ingest
// validation. The deepest legitimate chain is product -> module -> sub-module
// nesting, which stays far below this.
const maxDepth = 32

// ComponentSource supplies direct BOM edges. Satisfied by the master data
// service, which adds caching on top of the repository.
type ComponentSource interface {
	ComponentsOf(ctx context.Context, parent shared.ItemRef) ([]masterdata.BOMEdge, error)
}

// Resolver expands bill-of-materials relationships: a product into the
// modules it is assembled from, and a module into the flat part multiset it
// consumes across all nesting levels.
type Resolver struct {
	source ComponentSource
}

// NewResolver creates a BOM resolver
func NewResolver(source ComponentSource) *Resolver {
	return &Resolver{source: source}
}

// ExpandProduct converts a product quantity into the module quantities needed
// to assemble it. Only the direct product edges are followed; sub-module
// nesting is the manufacturing side's concern, not the warehouse's.
func (r *Resolver) ExpandProduct(ctx context.Context, productID int, quantity int) ([]shared.ItemQuantity, error) {
	parent := shared.ItemRef{Type: shared.ItemTypeProduct, ID: productID}
	edges, err := r.source.ComponentsOf(ctx, parent)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, &order.ErrBOMConversion{Item: parent, Reason: "product has no bill of materials"}
	}

	modules := make([]shared.ItemQuantity, 0, len(edges))
	for _, e := range edges {
		modules = append(modules, shared.ItemQuantity{Item: e.Component, Quantity: e.Quantity * quantity})
	}
	return shared.MergeQuantities(modules), nil
}

// ModuleComponents returns the direct components of a module: the parts it
// consumes and the sub-modules it is built from, one level deep.
func (r *Resolver) ModuleComponents(ctx context.Context, moduleID int) ([]shared.ItemQuantity, error) {
	parent := shared.ItemRef{Type: shared.ItemTypeModule, ID: moduleID}
	edges, err := r.source.ComponentsOf(ctx, parent)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, &order.ErrBOMConversion{Item: parent, Reason: "module has no bill of materials"}
	}

	components := make([]shared.ItemQuantity, 0, len(edges))
	for _, e := range edges {
		components = append(components, shared.ItemQuantity{Item: e.Component, Quantity: e.Quantity})
	}
	return shared.MergeQuantities(components), nil
}

// ExpandModuleParts flattens a module quantity into the raw part multiset it
// consumes, walking through any sub-module nesting. Expanding q1 then q2
// yields the same multiset as expanding q1+q2 at once.
func (r *Resolver) ExpandModuleParts(ctx context.Context, moduleID int, quantity int) ([]shared.ItemQuantity, error) {
	root := shared.ItemRef{Type: shared.ItemTypeModule, ID: moduleID}

	parts := make([]shared.ItemQuantity, 0)
	type frame struct {
		item     shared.ItemRef
		quantity int
		depth    int
	}
	queue := []frame{{item: root, quantity: quantity, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			return nil, &order.ErrBOMConversion{Item: cur.item, Reason: "BOM nesting exceeds maximum depth"}
		}

		edges, err := r.source.ComponentsOf(ctx, cur.item)
		if err != nil {
			return nil, err
		}
		if len(edges) == 0 {
			return nil, &order.ErrBOMConversion{Item: cur.item, Reason: "module has no bill of materials"}
		}

		for _, e := range edges {
			need := e.Quantity * cur.quantity
			switch e.Component.Type {
			case shared.ItemTypePart:
				parts = append(parts, shared.ItemQuantity{Item: e.Component, Quantity: need})
			case shared.ItemTypeModule:
				queue = append(queue, frame{item: e.Component, quantity: need, depth: cur.depth + 1})
			default:
				return nil, &order.ErrBOMConversion{Item: cur.item, Reason: "unexpected component type " + string(e.Component.Type)}
			}
		}
	}

	return shared.MergeQuantities(parts), nil
}
