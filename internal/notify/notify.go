package notify

import (
	"fmt"
	"io"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier is the toast surface of the storefront. Core services emit exactly
// one notification per failure path; rendering is up to the implementation.
type Notifier interface {
	Notify(level Level, message string)
}

// Writer renders notifications as single lines, the terminal stand-in for a
// toast popup.
type Writer struct {
	Out io.Writer
}

func (w Writer) Notify(level Level, message string) {
	prefix := map[Level]string{
		LevelInfo:    "[info]",
		LevelSuccess: "[ok]",
		LevelError:   "[error]",
	}[level]
	fmt.Fprintf(w.Out, "%s %s\n", prefix, message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Entries []Entry
}

type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.Entries = append(r.Entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Messages() []string {
	messages := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		messages[i] = e.Message
	}
	return messages
}
