package enums

import "fmt"

// FeedbackStatus tracks the admin workflow state of customer feedback.
type FeedbackStatus string

const (
	FeedbackStatusOpen      FeedbackStatus = "open"
	FeedbackStatusResponded FeedbackStatus = "responded"
	FeedbackStatusArchived  FeedbackStatus = "archived"
)

var validFeedbackStatuses = []FeedbackStatus{
	FeedbackStatusOpen,
	FeedbackStatusResponded,
	FeedbackStatusArchived,
}

// String implements fmt.Stringer.
func (f FeedbackStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeedbackStatus.
func (f FeedbackStatus) IsValid() bool {
	for _, candidate := range validFeedbackStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeedbackStatus converts raw input into a FeedbackStatus.
func ParseFeedbackStatus(value string) (FeedbackStatus, error) {
	for _, candidate := range validFeedbackStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feedback status %q", value)
}
