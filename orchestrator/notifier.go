package orchestrator

import (
	"log"
	"time"
)

// NotificationLevel grades a notification.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a short, non-blocking message for the user.
type Notification struct {
	Level   NotificationLevel
	Message string
	Err     error
	At      time.Time
}

// Notifier receives notifications as they are raised.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	switch n.Level {
	case LevelError:
		log.Printf("ERROR: [Orchestrator] %s: %v", n.Message, n.Err)
	case LevelWarning:
		log.Printf("WARN: [Orchestrator] %s", n.Message)
	default:
		log.Printf("INFO: [Orchestrator] %s", n.Message)
	}
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
