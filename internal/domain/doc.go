// Package domain holds what every entity package shares: the sentinel errors
// the HTTP layer maps to statuses, and field validation errors. The todo
// entity itself lives in domain/todo.
package domain
