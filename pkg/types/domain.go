package types

// StatusCode is the closed set of normalized solver outcomes.
type StatusCode string

const (
	StatusSuccess    StatusCode = "success"
	StatusOptimal    StatusCode = "optimal"
	StatusInfeasible StatusCode = "infeasible"
	StatusUnbounded  StatusCode = "unbounded"
	StatusTimeout    StatusCode = "timeout"
	StatusError      StatusCode = "error"
)

// HasObjective reports whether an objective value accompanies this status.
// Only successful outcomes carry one.
func (s StatusCode) HasObjective() bool {
	return s == StatusSuccess || s == StatusOptimal
}

// InstanceOutcome is the normalized result of solving one problem instance.
type InstanceOutcome struct {
	// Normalized solver status for this instance.
	Status StatusCode `json:"status"`
	// Objective value; present only when Status is success or optimal.
	ObjectiveValue *float64 `json:"objective_value,omitempty"`
	// Optional solver message (e.g. failure detail).
	Message string `json:"message,omitempty"`
}
