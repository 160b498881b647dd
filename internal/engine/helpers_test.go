package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mesh-intelligence/todos/pkg/types"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const testStamp = "2024-06-01T12:00:00.000Z"

// memStore is an in-memory types.Store with failure injection.
type memStore struct {
	records    map[string]types.Todo
	order      []string
	snapshot   map[string]types.Todo
	nextID     int
	fetches    int
	saves      int
	saveErr    error
	deleteErrs map[string]error
}

func newMemStore(recs ...types.Todo) *memStore {
	m := &memStore{
		records:    make(map[string]types.Todo),
		snapshot:   make(map[string]types.Todo),
		deleteErrs: make(map[string]error),
	}
	for _, r := range recs {
		m.records[r.ID] = r.Clone()
		m.order = append(m.order, r.ID)
	}
	return m
}

func (m *memStore) FetchAll(ctx context.Context) ([]types.Todo, error) {
	m.fetches++
	m.snapshot = make(map[string]types.Todo, len(m.records))
	out := make([]types.Todo, 0, len(m.records))
	for _, id := range m.order {
		r, ok := m.records[id]
		if !ok {
			continue
		}
		m.snapshot[id] = r.Clone()
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *memStore) Lookup(id string) (types.Todo, bool) {
	r, ok := m.snapshot[id]
	return r.Clone(), ok
}

func (m *memStore) Get(ctx context.Context, id string) (types.Todo, error) {
	r, ok := m.records[id]
	if !ok {
		return types.Todo{}, types.ErrNotFound
	}
	return r.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, td *types.Todo) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saves++
	if td.ID == "" {
		m.nextID++
		td.ID = fmt.Sprintf("new-%d", m.nextID)
	}
	if _, ok := m.records[td.ID]; !ok {
		m.order = append(m.order, td.ID)
	}
	m.records[td.ID] = td.Clone()
	return td.ID, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if err := m.deleteErrs[id]; err != nil {
		return err
	}
	if _, ok := m.records[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memStore) has(id string) bool {
	_, ok := m.records[id]
	return ok
}

// noticeLog records notification intents.
type noticeLog struct {
	notices []types.Notice
}

func (n *noticeLog) Notify(notice types.Notice) {
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) messages() []string {
	var out []string
	for _, x := range n.notices {
		out = append(out, string(x.Kind)+":"+x.Message)
	}
	return out
}

type fixedConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (f *fixedConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	f.asked = append(f.asked, message)
	return f.answer, f.err
}

func newTestEngine(t *testing.T, recs ...types.Todo) (*Engine, *memStore, *noticeLog) {
	t.Helper()
	store := newMemStore(recs...)
	notes := &noticeLog{}
	e := New(store, notes, WithClock(func() time.Time { return testNow }))
	return e, store, notes
}

func todo(id, title string, subs ...types.SubTaskRef) types.Todo {
	return types.Todo{
		ID:          id,
		Title:       title,
		Type:        "work",
		Priority:    "medium",
		Status:      types.StatusIncomplete,
		Created:     "2024-01-01T00:00:00.000Z",
		LastUpdated: "2024-01-01T00:00:00.000Z",
		SubTasks:    subs,
	}
}

func childOf(parent string, td types.Todo) types.Todo {
	td.ParentTask = parent
	return td
}
