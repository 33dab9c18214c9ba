package claim

// StatusKind classifies a claim status for styling. The status field itself
// is an open set; anything unrecognized is StatusOther.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusSubmitted
	StatusApproved
	StatusRejected
	StatusProcessed
	StatusCompleted
)

// KnownStatuses lists the statuses the dashboard styles explicitly.
var KnownStatuses = []string{"Submitted", "Approved", "Rejected", "Processed", "Completed"}

// KindOf returns the styling class for a status string.
func KindOf(status string) StatusKind {
	switch status {
	case "Submitted":
		return StatusSubmitted
	case "Approved":
		return StatusApproved
	case "Rejected":
		return StatusRejected
	case "Processed":
		return StatusProcessed
	case "Completed":
		return StatusCompleted
	default:
		return StatusOther
	}
}

// Kind returns the styling class of the claim's status.
func (c Claim) Kind() StatusKind {
	return KindOf(c.Status)
}
