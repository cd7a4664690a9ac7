package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

func TestMasterDataRepository_ProductRoundTrip(t *testing.T) {
	repo := persistence.NewGormMasterDataRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveProduct(ctx, &masterdata.Product{ID: 1, Name: "Model Truck", Description: "Flatbed"}))

	product, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Model Truck", product.Name)

	// Save is an upsert, not an insert
	require.NoError(t, repo.SaveProduct(ctx, &masterdata.Product{ID: 1, Name: "Model Truck v2"}))
	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Model Truck v2", products[0].Name)
}

func TestMasterDataRepository_UnknownModuleIsNotFound(t *testing.T) {
	repo := persistence.NewGormMasterDataRepository(helpers.NewTestDB(t))

	_, err := repo.GetModule(context.Background(), 77)

	var notFound *masterdata.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 77, notFound.ID)
}

func TestMasterDataRepository_BOMEdges(t *testing.T) {
	repo := persistence.NewGormMasterDataRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	productRef := shared.ItemRef{Type: shared.ItemTypeProduct, ID: 1}
	moduleRef := shared.ItemRef{Type: shared.ItemTypeModule, ID: 2}
	partRef := shared.ItemRef{Type: shared.ItemTypePart, ID: 3}

	edge, err := masterdata.NewBOMEdge(productRef, moduleRef, 2)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBOMEdge(ctx, edge))
	edge, err = masterdata.NewBOMEdge(moduleRef, partRef, 3)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBOMEdge(ctx, edge))

	components, err := repo.ComponentsOf(ctx, productRef)
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, moduleRef, components[0].Component)
	assert.Equal(t, 2, components[0].Quantity)

	// Re-saving an edge updates the quantity in place
	edge, err = masterdata.NewBOMEdge(productRef, moduleRef, 5)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBOMEdge(ctx, edge))
	components, err = repo.ComponentsOf(ctx, productRef)
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, 5, components[0].Quantity)

	all, err := repo.AllBOMEdges(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMasterDataRepository_Workstations(t *testing.T) {
	repo := persistence.NewGormMasterDataRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveWorkstation(ctx, &masterdata.Workstation{
		ID: 6, Role: masterdata.RoleAssembly, Name: "Final Assembly",
	}))

	ws, err := repo.GetWorkstation(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, masterdata.RoleAssembly, ws.Role)

	_, err = repo.GetWorkstation(ctx, 10)
	var notFound *masterdata.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}
