// Package domain contains the core business entities and validation rules
// of the task manager: tasks, users, and the partial-update semantics
// applied to tasks. It has no dependencies on storage, transport, or any
// other infrastructure concern.
package domain
