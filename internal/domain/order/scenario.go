package order

import "fmt"

// TriggerScenario records which fulfillment path was selected when an order
// was confirmed. Customer orders carry DIRECT_FULFILLMENT,
// WAREHOUSE_ORDER_NEEDED or DIRECT_PRODUCTION; warehouse orders carry
// DIRECT_FULFILLMENT or PRODUCTION_REQUIRED.
type TriggerScenario string

const (
	ScenarioDirectFulfillment    TriggerScenario = "DIRECT_FULFILLMENT"
	ScenarioWarehouseOrderNeeded TriggerScenario = "WAREHOUSE_ORDER_NEEDED"
	ScenarioDirectProduction     TriggerScenario = "DIRECT_PRODUCTION"
	ScenarioProductionRequired   TriggerScenario = "PRODUCTION_REQUIRED"
)

func (s TriggerScenario) String() string {
	return string(s)
}

// ParseTriggerScenario parses a persisted scenario value
func ParseTriggerScenario(s string) (TriggerScenario, error) {
	switch TriggerScenario(s) {
	case ScenarioDirectFulfillment, ScenarioWarehouseOrderNeeded,
		ScenarioDirectProduction, ScenarioProductionRequired:
		return TriggerScenario(s), nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("unknown trigger scenario: %q", s)
}
