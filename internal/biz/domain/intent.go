package domain

// Intent is the classified meaning of a reply to a preview
type Intent string

const (
	IntentApprove    Intent = "approve"
	IntentReject     Intent = "reject"
	IntentCorrection Intent = "correction"
	IntentQuestion   Intent = "question"
	IntentUnknown    Intent = "unknown"
)

// Confidence thresholds. Approve is honoured at any positive confidence.
const (
	ApproveMinConfidence    = 0.0
	RejectMinConfidence     = 0.4
	CorrectionMinConfidence = 0.3

	// Approvals below this are still honoured but logged
	LowConfidenceApproval = 0.5
)

// IntentResult is the classifier output
type IntentResult struct {
	Intent     Intent
	Confidence float64
}

// ParseIntent maps classifier labels to an Intent. "correct" is accepted as an alias.
func ParseIntent(s string) Intent {
	switch normalizeKeyword(s) {
	case "approve":
		return IntentApprove
	case "reject":
		return IntentReject
	case "correction", "correct":
		return IntentCorrection
	case "question":
		return IntentQuestion
	default:
		return IntentUnknown
	}
}
