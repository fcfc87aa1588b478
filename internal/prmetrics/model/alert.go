package model

// AlertSeverity is the urgency of a smart alert.
type AlertSeverity string

// Alert severities.
const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// AlertCategory groups smart alerts by the behavior they describe.
type AlertCategory string

// Alert categories.
const (
	CategoryOwnership AlertCategory = "ownership"
	CategoryVelocity  AlertCategory = "velocity"
	CategoryQuality   AlertCategory = "quality"
	CategoryReview    AlertCategory = "review"
)

// SmartAlert is a rule-triggered finding about a risky pattern in PR behavior.
type SmartAlert struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	Category    AlertCategory `json:"category"`
}
