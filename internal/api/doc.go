// Package api contains the HTTP handlers, request/response models and
// routing helpers for the task manager's REST surface.
package api
