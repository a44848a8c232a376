package pipeline

// Status is the per-session pipeline state.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusProcessing    Status = "processing"
	StatusCompleted     Status = "completed"
	StatusError         Status = "error"
	StatusSafetyBlocked Status = "safety_blocked"
)
