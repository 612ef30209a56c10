package tasktype

import "errors"

var (
	// ErrTaskTypeNotFound indicates the task type doesn't exist for the owner.
	ErrTaskTypeNotFound = errors.New("task type not found")
	// ErrDuplicateName indicates the owner already has a task type with this name.
	ErrDuplicateName = errors.New("task type name already in use")
	// ErrInvalidInput indicates invalid task type input.
	ErrInvalidInput = errors.New("invalid task type input")
)
