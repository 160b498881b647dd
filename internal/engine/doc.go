// Package engine is the todo data engine: validation rules, the filter-sort
// view pipeline, field mutation with status transitions, and cascading
// delete of linked sub-tasks.
//
// The engine holds no records of its own. It reads and writes through a
// types.Store, reports user-facing outcomes through a types.Notifier, and
// re-fetches the authoritative list after every write.
package engine
