package cart

// Notification levels understood by the toast layer.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notifier receives fire-and-forget messages after cart mutations.
type Notifier interface {
	Notify(level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level, message string)

func (f NotifierFunc) Notify(level, message string) { f(level, message) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(string, string) {})
