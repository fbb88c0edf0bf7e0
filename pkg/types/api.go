package types

// Default solve parameters applied when a request omits them.
const (
	DefaultTimeLimit = 1.0
	DefaultBatchSize = 1
)

// SolveRequest is the body accepted by POST /solve_mps.
// FileName is resolved against the service's mounted storage root,
// never against the caller's filesystem.
type SolveRequest struct {
	// Name of the MPS model file inside the service's mount.
	// example: afiro.mps
	FileName string `json:"file_name"`
	// Solver compute-time limit in seconds. Defaults to 1.0.
	// example: 90.0
	TimeLimit float64 `json:"time_limit,omitempty"`
	// Number of independent instances of the model to solve as one
	// GPU-resident batch. Defaults to 1.
	// example: 4
	BatchSize int `json:"batch_size,omitempty"`
}

// ApplyDefaults fills zero-valued parameters with their documented defaults.
// It does not validate; out-of-range values are rejected by the engine.
func (r *SolveRequest) ApplyDefaults() {
	if r.TimeLimit == 0 {
		r.TimeLimit = DefaultTimeLimit
	}
	if r.BatchSize == 0 {
		r.BatchSize = DefaultBatchSize
	}
}

// SolveDetails carries the structured part of a solve response.
// Exactly one of Instance and Instances is set: Instance for
// batch_size == 1, Instances (ordered, one per instance) otherwise.
type SolveDetails struct {
	// Unique id assigned to this solve request.
	// example: 7b1e1e8e-0b1a-4e1a-9f4e-2d1c3b4a5d6e
	SolveID string `json:"solve_id"`
	// Model file name as requested.
	FileName string `json:"file_name"`
	// Number of instances solved in this call.
	BatchSize int `json:"batch_size"`
	// Wall-clock time spent inside the solver, in seconds.
	SolveTimeSeconds float64 `json:"solve_time_seconds"`
	// Outcome of the single instance (batch_size == 1).
	Instance *InstanceOutcome `json:"instance,omitempty"`
	// Ordered per-instance outcomes (batch_size > 1).
	Instances []InstanceOutcome `json:"instances,omitempty"`
}

// SolveResponse is the normalized result returned by POST /solve_mps.
type SolveResponse struct {
	// Normalized status of the solve (first instance when batched).
	Status StatusCode `json:"status"`
	// Objective value; present only when Status is success or optimal.
	ObjectiveValue *float64 `json:"objective_value,omitempty"`
	// Structured per-solve details.
	Details SolveDetails `json:"details"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: file not found inside the mount: afiro.mps
	Error string `json:"error"`
	// HTTP status code.
	// example: 404
	Code int `json:"code"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Always "healthy" while the process serves requests.
	Status string `json:"status"`
}
