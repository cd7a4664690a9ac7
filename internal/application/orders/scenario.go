package orders

import (
	"github.com/modelfactory/mes/internal/domain/order"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// SelectCustomerScenario picks the fulfillment path for a customer order.
// The lot-size threshold is checked before stock: a large order goes to
// production even when the plant warehouse could cover it. Pure function so
// the decision can be tested without any of the surrounding machinery.
func SelectCustomerScenario(totalRequested, lotSizeThreshold int,
	items []shared.ItemQuantity, plantStock map[shared.ItemRef]int) order.TriggerScenario {
	if totalRequested >= lotSizeThreshold {
		return order.ScenarioDirectProduction
	}
	for _, iq := range items {
		if plantStock[iq.Item] < iq.Quantity {
			return order.ScenarioWarehouseOrderNeeded
		}
	}
	return order.ScenarioDirectFulfillment
}

// SelectWarehouseScenario picks the fulfillment path for a warehouse order:
// direct fulfillment when the modules supermarket covers every module,
// production otherwise.
func SelectWarehouseScenario(items []shared.ItemQuantity, supermarketStock map[shared.ItemRef]int) order.TriggerScenario {
	for _, iq := range items {
		if supermarketStock[iq.Item] < iq.Quantity {
			return order.ScenarioProductionRequired
		}
	}
	return order.ScenarioDirectFulfillment
}
