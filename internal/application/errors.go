package application

import "errors"

// Workflow error kinds. Every failure path of the update workflow resolves to
// one of these sentinels, wrapped with a human-readable reason; callers branch
// with errors.Is and never see collaborator internals.
var (
	// ErrUnauthorized covers missing, inactive, expired, or
	// insufficiently-scoped tokens. Never retried automatically.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation means the desired username or password fails policy.
	// The wrapped reason names the offending field.
	ErrValidation = errors.New("validation failed")
	// ErrTargetNotFound means the target identifier has no directory record.
	ErrTargetNotFound = errors.New("target user not found")
	// ErrConflict means the desired username is already claimed by a
	// different record.
	ErrConflict = errors.New("username already taken")
	// ErrPersistence means the directory read or write failed, or the write
	// returned no record.
	ErrPersistence = errors.New("update failed to apply")
)
