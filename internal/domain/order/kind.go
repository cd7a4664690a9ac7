package order

import "fmt"

// Type discriminates the order hierarchy for numbering, persistence and
// cross-references (ledger refOrderType, idempotency keys).
type Type string

const (
	TypeCustomer      Type = "CUSTOMER"
	TypeWarehouse     Type = "WAREHOUSE"
	TypeProduction    Type = "PRODUCTION"
	TypeControl       Type = "CONTROL"
	TypeWorkstation   Type = "WORKSTATION"
	TypeSupply        Type = "SUPPLY"
	TypeFinalAssembly Type = "FINAL_ASSEMBLY"
)

// ControlKind splits control orders into the manufacturing and assembly sides
type ControlKind string

const (
	ControlKindProduction ControlKind = "PRODUCTION" // PCO, cells WS-1..WS-3
	ControlKindAssembly   ControlKind = "ASSEMBLY"   // ACO, cells WS-4..WS-6
)

// NumberPrefix returns the typed order-number prefix for a control kind
func (k ControlKind) NumberPrefix() string {
	if k == ControlKindAssembly {
		return "ACO"
	}
	return "PCO"
}

// WorkKind is one of the six workstation order kinds, the leaves of the
// order tree.
type WorkKind string

const (
	WorkInjectionMolding   WorkKind = "INJECTION_MOLDING"
	WorkPartsPreProduction WorkKind = "PARTS_PRE_PRODUCTION"
	WorkPartFinishing      WorkKind = "PART_FINISHING"
	WorkGearAssembly       WorkKind = "GEAR_ASSEMBLY"
	WorkMotorAssembly      WorkKind = "MOTOR_ASSEMBLY"
	WorkFinalAssembly      WorkKind = "FINAL_ASSEMBLY"
)

// ParseWorkKind parses a persisted workstation order kind
func ParseWorkKind(s string) (WorkKind, error) {
	switch WorkKind(s) {
	case WorkInjectionMolding, WorkPartsPreProduction, WorkPartFinishing,
		WorkGearAssembly, WorkMotorAssembly, WorkFinalAssembly:
		return WorkKind(s), nil
	}
	return "", fmt.Errorf("unknown workstation order kind: %q", s)
}

// IsAssembly reports whether the kind runs in an assembly cell (WS-4..WS-6)
// and therefore walks the COMPLETED_ASSEMBLY ladder.
func (k WorkKind) IsAssembly() bool {
	switch k {
	case WorkGearAssembly, WorkMotorAssembly, WorkFinalAssembly:
		return true
	}
	return false
}

// NumberPrefix returns the typed order-number prefix for the kind
func (k WorkKind) NumberPrefix() string {
	switch k {
	case WorkInjectionMolding:
		return "IM"
	case WorkPartsPreProduction:
		return "PP"
	case WorkPartFinishing:
		return "PF"
	case WorkGearAssembly:
		return "GA"
	case WorkMotorAssembly:
		return "MA"
	case WorkFinalAssembly:
		return "FAW"
	}
	return "WS"
}

// WorkKindForWorkstation maps a production workstation id to the kind of
// order its cell executes.
func WorkKindForWorkstation(workstationID int) (WorkKind, error) {
	switch workstationID {
	case 1:
		return WorkInjectionMolding, nil
	case 2:
		return WorkPartsPreProduction, nil
	case 3:
		return WorkPartFinishing, nil
	case 4:
		return WorkGearAssembly, nil
	case 5:
		return WorkMotorAssembly, nil
	case 6:
		return WorkFinalAssembly, nil
	}
	return "", fmt.Errorf("workstation %d is not a production cell", workstationID)
}
