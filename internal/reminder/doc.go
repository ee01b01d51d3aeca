// Package reminder implements the due-task reminder job: a daily scan for
// tasks approaching their due date, one email per qualifying task, and a
// transient record of the most recent run's outcomes.
package reminder
