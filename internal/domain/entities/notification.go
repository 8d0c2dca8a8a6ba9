package entities

// DefaultNotificationTitle is the fixed title for every displayed notification
const DefaultNotificationTitle = "CareConnect"

// DefaultNotificationBody substitutes for a missing or blank push payload
const DefaultNotificationBody = "New notification from CareConnect"

// Notification action identifiers
const (
	// ActionViewDetails opens the application root window
	ActionViewDetails = "explore"

	// ActionClose dismisses the notification with no further routing
	ActionClose = "close"
)

// PushMessage is an inbound push payload, plain text and optional
type PushMessage struct {
	Body string `json:"body,omitempty"`
}

// NotificationAction is one button on a displayed notification
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is a user-visible notification rendered from a push message
type Notification struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon,omitempty"`
	Actions []NotificationAction `json:"actions,omitempty"`
}

// NewNotification renders a push message into a notification, substituting
// the default body when the payload is missing or blank.
func NewNotification(body string) *Notification {
	if body == "" {
		body = DefaultNotificationBody
	}
	return &Notification{
		Title: DefaultNotificationTitle,
		Body:  body,
		Icon:  "/icon-192x192.png",
		Actions: []NotificationAction{
			{Action: ActionViewDetails, Title: "View Details"},
			{Action: ActionClose, Title: "Close"},
		},
	}
}
