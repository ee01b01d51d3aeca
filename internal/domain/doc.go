// Package domain defines the core business entities of the task manager:
// users, tasks and subtasks, their enumerations, validation rules and the
// partial-update merge semantics applied by the API layer.
package domain
