package entities

type NotificationEvent string

const (
	NotificationEventFieldChanged NotificationEvent = "field_changed"
	NotificationEventCaseCreated  NotificationEvent = "case_created"
)

// NotificationRule maps an event and its match conditions onto a target
// audience. Rules are managed by configuration tooling and read-only here.
type NotificationRule struct {
	RuleID    string
	Event     NotificationEvent
	Field     string
	FromValue string
	ToValue   string
	Active    bool

	NotifyAllUsers        bool
	NotifyCreator         bool
	NotifyContributors    bool
	NotifyChangeInitiator bool
	NotifyAssignedTo      bool
	NotifySpecificUsers   []string
}

type User struct {
	UserID string
	Name   string
	Role   Role
}
