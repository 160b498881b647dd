package types

import "context"

// NoticeKind classifies a notification intent.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a user-facing notification intent. How and for how long it is
// shown is up to the presentation layer.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier displays notification intents. It is fire-and-forget.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Confirmer asks the user to approve a destructive operation. A false
// result with a nil error means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}
