package output

import (
	"github.com/gen2brain/beeep"

	"github.com/devbydaniel/whisperclip/pkg/logger"
)

// Notifier is what the session uses to talk to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Desktop shows messages as desktop notifications.
type Desktop struct {
	Title  string
	Logger *logger.Logger

	notify func(title, message string) error
	alert  func(title, message string) error
}

func NewDesktop(title string, log *logger.Logger) *Desktop {
	return &Desktop{
		Title:  title,
		Logger: log.Named("notify"),
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

func (d *Desktop) Info(msg string) {
	if err := d.notify(d.Title, msg); err != nil {
		d.Logger.Debug("desktop notification failed", logger.Error(err))
	}
}

func (d *Desktop) Error(msg string) {
	if err := d.alert(d.Title, msg); err != nil {
		d.Logger.Debug("desktop alert failed", logger.Error(err))
	}
}

// Multi fans messages out to several notifiers.
type Multi []Notifier

func (m Multi) Info(msg string) {
	for _, n := range m {
		n.Info(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
