package notify

// Level classifies a notification for frontend styling.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Notification is one push message delivered to a player's open sockets.
type Notification struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

func New(title, message string, level Level) Notification {
	return Notification{
		Type:    "notification",
		Title:   title,
		Message: message,
		Level:   level,
	}
}
