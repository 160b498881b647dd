// Package types defines the todo record model, the storage and notification
// collaborator interfaces the engine depends on, configuration, and the
// sentinel errors shared by every layer.
package types
