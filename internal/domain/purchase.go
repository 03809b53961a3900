package domain

// PurchaseState is a step in the lifecycle of a single purchase attempt.
type PurchaseState string

const (
	PurchaseRequested      PurchaseState = "requested"
	PurchaseValidating     PurchaseState = "validating"
	PurchaseReserving      PurchaseState = "reserving"
	PurchaseReserved       PurchaseState = "reserved"
	PurchaseRecording      PurchaseState = "recording"
	PurchaseCompleted      PurchaseState = "completed"
	PurchasePartialFailure PurchaseState = "partial_failure"
	PurchaseRejected       PurchaseState = "rejected"
)

var purchaseTransitions = map[PurchaseState][]PurchaseState{
	PurchaseRequested:  {PurchaseValidating},
	PurchaseValidating: {PurchaseReserving, PurchaseRejected},
	PurchaseReserving:  {PurchaseReserved, PurchaseRejected},
	PurchaseReserved:   {PurchaseRecording},
	PurchaseRecording:  {PurchaseCompleted, PurchasePartialFailure},
}

// CanTransition reports whether a purchase may move from s to next.
func (s PurchaseState) CanTransition(next PurchaseState) bool {
	for _, allowed := range purchaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
// PartialFailure is terminal for the service but still needs reconciliation.
func (s PurchaseState) IsTerminal() bool {
	return s == PurchaseCompleted || s == PurchasePartialFailure || s == PurchaseRejected
}
