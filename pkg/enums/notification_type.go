package enums

// NotificationType labels customer-facing notification records.
type NotificationType string

const (
	NotificationTypePromotion  NotificationType = "promotion"
	NotificationTypePurchase   NotificationType = "purchase"
	NotificationTypeRedemption NotificationType = "redemption"
	NotificationTypeFeedback   NotificationType = "feedback"
)

var validNotificationTypes = []NotificationType{
	NotificationTypePromotion,
	NotificationTypePurchase,
	NotificationTypeRedemption,
	NotificationTypeFeedback,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}
