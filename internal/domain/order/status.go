package order

// Status is the lifecycle state of an order. Each order kind walks its own
// ladder of statuses; transitions are validated by the owning entity so a
// status can never move backwards or onto a foreign ladder.
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusConfirmed         Status = "CONFIRMED"
	StatusProcessing        Status = "PROCESSING"
	StatusScheduled         Status = "SCHEDULED"
	StatusAssigned          Status = "ASSIGNED"
	StatusInProgress        Status = "IN_PROGRESS"
	StatusCompletedAssembly Status = "COMPLETED_ASSEMBLY"
	StatusCompleted         Status = "COMPLETED"
	StatusFulfilled         Status = "FULFILLED"
	StatusCancelled         Status = "CANCELLED"
	StatusRejected          Status = "REJECTED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible from s
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFulfilled, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// transitions maps each order type to its allowed forward edges. A missing
// entry means the status is terminal for that ladder.
type transitions map[Status][]Status

func (t transitions) allows(from, to Status) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	// Customer orders may close straight from CONFIRMED on direct fulfillment;
	// the warehouse and production paths pass through PROCESSING.
	customerOrderTransitions = transitions{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusCompleted, StatusCancelled},
		StatusProcessing: {StatusCompleted},
	}

	// Warehouse orders in the production path stay CONFIRMED until the
	// campaign completes, then move straight to FULFILLED.
	warehouseOrderTransitions = transitions{
		StatusPending:    {StatusConfirmed},
		StatusConfirmed:  {StatusProcessing, StatusFulfilled},
		StatusProcessing: {StatusFulfilled},
	}

	productionOrderTransitions = transitions{
		StatusPending:    {StatusScheduled},
		StatusScheduled:  {StatusInProgress},
		StatusInProgress: {StatusCompleted},
	}

	controlOrderTransitions = transitions{
		StatusPending:    {StatusAssigned},
		StatusAssigned:   {StatusInProgress},
		StatusInProgress: {StatusCompleted},
	}

	// Assembly-side workstation orders pass through COMPLETED_ASSEMBLY;
	// manufacturing cells complete directly from IN_PROGRESS.
	assemblyWorkTransitions = transitions{
		StatusPending:           {StatusConfirmed},
		StatusConfirmed:         {StatusInProgress},
		StatusInProgress:        {StatusCompletedAssembly},
		StatusCompletedAssembly: {StatusCompleted},
	}

	manufacturingWorkTransitions = transitions{
		StatusPending:    {StatusConfirmed},
		StatusConfirmed:  {StatusInProgress},
		StatusInProgress: {StatusCompleted},
	}

	supplyOrderTransitions = transitions{
		StatusPending: {StatusFulfilled, StatusRejected},
	}
)
