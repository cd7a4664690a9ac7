package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

func productRef(id int) shared.ItemRef {
	return shared.ItemRef{Type: shared.ItemTypeProduct, ID: id}
}

func TestSelectCustomerScenario_DirectFulfillment(t *testing.T) {
	items := []shared.ItemQuantity{{Item: productRef(1), Quantity: 2}}
	stock := map[shared.ItemRef]int{productRef(1): 10}

	scenario := orders.SelectCustomerScenario(2, 3, items, stock)

	assert.Equal(t, order.ScenarioDirectFulfillment, scenario)
}

func TestSelectCustomerScenario_WarehouseOrderOnShortfall(t *testing.T) {
	items := []shared.ItemQuantity{{Item: productRef(1), Quantity: 2}}
	stock := map[shared.ItemRef]int{productRef(1): 1}

	scenario := orders.SelectCustomerScenario(2, 3, items, stock)

	assert.Equal(t, order.ScenarioWarehouseOrderNeeded, scenario)
}

func TestSelectCustomerScenario_ThresholdBeatsStock(t *testing.T) {
	// Plant warehouse could cover the order, but the lot size forces production
	items := []shared.ItemQuantity{{Item: productRef(1), Quantity: 5}}
	stock := map[shared.ItemRef]int{productRef(1): 100}

	scenario := orders.SelectCustomerScenario(5, 3, items, stock)

	assert.Equal(t, order.ScenarioDirectProduction, scenario)
}

func TestSelectCustomerScenario_ThresholdIsInclusive(t *testing.T) {
	items := []shared.ItemQuantity{{Item: productRef(1), Quantity: 3}}
	stock := map[shared.ItemRef]int{productRef(1): 100}

	scenario := orders.SelectCustomerScenario(3, 3, items, stock)

	assert.Equal(t, order.ScenarioDirectProduction, scenario)
}

func TestSelectCustomerScenario_MissingStockEntryCountsAsZero(t *testing.T) {
	items := []shared.ItemQuantity{{Item: productRef(2), Quantity: 1}}

	scenario := orders.SelectCustomerScenario(1, 3, items, map[shared.ItemRef]int{})

	assert.Equal(t, order.ScenarioWarehouseOrderNeeded, scenario)
}

func TestSelectWarehouseScenario(t *testing.T) {
	moduleRef := shared.ItemRef{Type: shared.ItemTypeModule, ID: 1}
	items := []shared.ItemQuantity{{Item: moduleRef, Quantity: 4}}

	assert.Equal(t, order.ScenarioDirectFulfillment,
		orders.SelectWarehouseScenario(items, map[shared.ItemRef]int{moduleRef: 4}))
	assert.Equal(t, order.ScenarioProductionRequired,
		orders.SelectWarehouseScenario(items, map[shared.ItemRef]int{moduleRef: 3}))
}
