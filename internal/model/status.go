package model

const (
	StatusPending        = "pending"
	StatusGeneratingPlan = "generating_plan"
	StatusPlanReady      = "plan_ready"
	StatusRecording      = "recording"
	StatusCompleted      = "completed"
	StatusFailed         = "failed"
)

var knownStatuses = map[string]bool{
	StatusPending:        true,
	StatusGeneratingPlan: true,
	StatusPlanReady:      true,
	StatusRecording:      true,
	StatusCompleted:      true,
	StatusFailed:         true,
}

// settledStatuses is the actionable/terminal set: statuses at which automatic
// polling stops because user input or finality is reached.
var settledStatuses = map[string]bool{
	StatusPlanReady: true,
	StatusCompleted: true,
	StatusFailed:    true,
}

func IsKnownStatus(status string) bool {
	return knownStatuses[status]
}

func IsSettled(status string) bool {
	return settledStatuses[status]
}

func StatusLabel(status string) string {
	switch status {
	case StatusPending:
		return "queued"
	case StatusGeneratingPlan:
		return "generating plan"
	case StatusPlanReady:
		return "plan ready"
	case StatusRecording:
		return "recording"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return status
	}
}
