package shared

// CodedError is implemented by every domain error that maps onto the standard
// wire envelope. The HTTP adapter matches on this interface exactly once, at
// the boundary; everything below it works with plain error values.
type CodedError interface {
	error

	// ErrorCode returns the stable machine-readable code, e.g. ORDER_NOT_FOUND
	ErrorCode() string

	// HTTPStatus returns the HTTP status the code maps to
	HTTPStatus() int

	// Details returns structured context for the envelope's details field.
	// Must never contain credentials, tokens, or stack traces.
	Details() map[string]interface{}
}

// Workstation identities are fixed at seed time: WS-1..WS-9.
const (
	// WS-1..WS-3 are the manufacturing cells
	WorkstationManufacturingFirst = 1
	WorkstationManufacturingLast  = 3

	// WS-4..WS-6 are the assembly cells; WS-6 runs final assembly
	WorkstationAssemblyFirst = 4
	WorkstationAssemblyLast  = 6
	WorkstationFinalAssembly = 6

	// WS-7 plant warehouse: finished products
	WorkstationPlantWarehouse = 7

	// WS-8 modules supermarket: produced modules
	WorkstationModulesSupermarket = 8

	// WS-9 parts supply: raw parts
	WorkstationPartsSupply = 9

	WorkstationCount = 9
)

// IsManufacturingCell reports whether the workstation id is WS-1..WS-3
func IsManufacturingCell(id int) bool {
	return id >= WorkstationManufacturingFirst && id <= WorkstationManufacturingLast
}

// IsAssemblyCell reports whether the workstation id is WS-4..WS-6
func IsAssemblyCell(id int) bool {
	return id >= WorkstationAssemblyFirst && id <= WorkstationAssemblyLast
}

// IsWarehouse reports whether the workstation id is WS-7..WS-9
func IsWarehouse(id int) bool {
	return id >= WorkstationPlantWarehouse && id <= WorkstationPartsSupply
}
