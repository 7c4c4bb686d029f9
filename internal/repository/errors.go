package repository

import "errors"

// ErrNotFound is returned when a lookup for a single entity (GetConversation,
// GetUser, ...) finds no rows. Services translate it into the domain-level
// app_errors.ErrNotFound so callers never depend on sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
