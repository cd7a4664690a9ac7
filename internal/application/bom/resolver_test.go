package bom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/application/bom"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// edgeSource is an in-memory ComponentSource
type edgeSource struct {
	edges map[shared.ItemRef][]masterdata.BOMEdge
}

func (s *edgeSource) ComponentsOf(_ context.Context, parent shared.ItemRef) ([]masterdata.BOMEdge, error) {
	return s.edges[parent], nil
}

func product(id int) shared.ItemRef { return shared.ItemRef{Type: shared.ItemTypeProduct, ID: id} }
func module(id int) shared.ItemRef  { return shared.ItemRef{Type: shared.ItemTypeModule, ID: id} }
func part(id int) shared.ItemRef    { return shared.ItemRef{Type: shared.ItemTypePart, ID: id} }

func edge(parent, component shared.ItemRef, quantity int) masterdata.BOMEdge {
	return masterdata.BOMEdge{Parent: parent, Component: component, Quantity: quantity}
}

// truckBOM models a product with two modules, one of which nests a sub-module
func truckBOM() *edgeSource {
	return &edgeSource{edges: map[shared.ItemRef][]masterdata.BOMEdge{
		product(1): {
			edge(product(1), module(1), 1),
			edge(product(1), module(2), 2),
		},
		module(1): {
			edge(module(1), part(1), 4),
		},
		module(2): {
			edge(module(2), part(2), 3),
			edge(module(2), module(3), 1),
		},
		module(3): {
			edge(module(3), part(1), 2),
		},
	}}
}

func TestResolver_ExpandProduct(t *testing.T) {
	resolver := bom.NewResolver(truckBOM())

	modules, err := resolver.ExpandProduct(context.Background(), 1, 3)

	require.NoError(t, err)
	require.Len(t, modules, 2)
	got := map[int]int{}
	for _, iq := range modules {
		got[iq.Item.ID] = iq.Quantity
	}
	assert.Equal(t, 3, got[1])
	assert.Equal(t, 6, got[2])
}

func TestResolver_ExpandProduct_MissingBOM(t *testing.T) {
	resolver := bom.NewResolver(&edgeSource{edges: map[shared.ItemRef][]masterdata.BOMEdge{}})

	_, err := resolver.ExpandProduct(context.Background(), 42, 1)

	var conversion *order.ErrBOMConversion
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, 42, conversion.Item.ID)
}

func TestResolver_ExpandModuleParts_FlattensNesting(t *testing.T) {
	resolver := bom.NewResolver(truckBOM())

	// module 2 x2: 2*3 part-2 plus the nested module 3 (x2) contributing 2*2 part-1
	parts, err := resolver.ExpandModuleParts(context.Background(), 2, 2)

	require.NoError(t, err)
	got := map[int]int{}
	for _, iq := range parts {
		require.Equal(t, shared.ItemTypePart, iq.Item.Type)
		got[iq.Item.ID] = iq.Quantity
	}
	assert.Equal(t, 6, got[2])
	assert.Equal(t, 4, got[1])
}

func TestResolver_ExpandModuleParts_Additive(t *testing.T) {
	resolver := bom.NewResolver(truckBOM())
	ctx := context.Background()

	one, err := resolver.ExpandModuleParts(ctx, 2, 1)
	require.NoError(t, err)
	two, err := resolver.ExpandModuleParts(ctx, 2, 2)
	require.NoError(t, err)
	three, err := resolver.ExpandModuleParts(ctx, 2, 3)
	require.NoError(t, err)

	sum := map[shared.ItemRef]int{}
	for _, iq := range one {
		sum[iq.Item] += iq.Quantity
	}
	for _, iq := range two {
		sum[iq.Item] += iq.Quantity
	}
	for _, iq := range three {
		assert.Equal(t, iq.Quantity, sum[iq.Item])
	}
}

func TestResolver_ExpandModuleParts_CycleIsBounded(t *testing.T) {
	cyclic := &edgeSource{edges: map[shared.ItemRef][]masterdata.BOMEdge{
		module(1): {edge(module(1), module(2), 1)},
		module(2): {edge(module(2), module(1), 1)},
	}}
	resolver := bom.NewResolver(cyclic)

	_, err := resolver.ExpandModuleParts(context.Background(), 1, 1)

	var conversion *order.ErrBOMConversion
	require.ErrorAs(t, err, &conversion)
	assert.Contains(t, conversion.Reason, "depth")
}

func TestResolver_ModuleComponents_OneLevelDeep(t *testing.T) {
	resolver := bom.NewResolver(truckBOM())

	components, err := resolver.ModuleComponents(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, components, 2)
	types := map[shared.ItemType]bool{}
	for _, iq := range components {
		types[iq.Item.Type] = true
	}
	assert.True(t, types[shared.ItemTypePart])
	assert.True(t, types[shared.ItemTypeModule])
}
