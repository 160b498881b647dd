package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Notification messages emitted by the engine.
const (
	MsgDataUpdated     = "Data Updated"
	MsgInvalidPriority = "Invalid Priority Entry"
	MsgInvalidDate     = "Invalid Date"
	MsgDeleting        = "Deleting Todo"
	MsgCreated         = "Todo Created"
)

// Engine applies edits, status transitions and deletes to todo records.
type Engine struct {
	store    types.Store
	notifier types.Notifier
	rules    *Rules
	now      func() time.Time
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules sets the validation rules. The default is NewRules(nil).
func WithRules(r *Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. Without it the engine logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over store. notifier may be nil.
func New(store types.Store, notifier types.Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = NewRules(nil)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Rules returns the validation rules in use.
func (e *Engine) Rules() *Rules { return e.rules }

func (e *Engine) notify(kind types.NoticeKind, msg string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(types.Notice{Kind: kind, Message: msg})
}

func (e *Engine) stamp() string {
	return types.FormatTimestamp(e.now())
}

// refresh re-reads the authoritative list after a write.
func (e *Engine) refresh(ctx context.Context) ([]types.Todo, error) {
	records, err := e.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing todo list: %w", err)
	}
	return records, nil
}
