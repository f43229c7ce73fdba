// Package notify delivers user-facing toasts and reminder e-mails.
package notify

import "context"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is a short message shown to the user by the front end.
type Toast struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier sends a toast to every session of owner.
type Notifier interface {
	Notify(ctx context.Context, owner string, t Toast)
}

// Nop drops every toast.
type Nop struct{}

func (Nop) Notify(context.Context, string, Toast) {}

type quietKey struct{}

// Quiet marks ctx so that stores stop emitting toasts for work done under it.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func IsQuiet(ctx context.Context) bool {
	q, _ := ctx.Value(quietKey{}).(bool)
	return q
}
