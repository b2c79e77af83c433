package mr

import "errors"

var (
	// ErrConfig: the task was misconfigured; detected before any
	// record is processed.
	ErrConfig = errors.New("invalid task configuration")

	// ErrGrouping: the group comparator considered two keys equal
	// that the sort order did not place adjacently. Surfaced the
	// first time the violation is observable.
	ErrGrouping = errors.New("group comparator not coarser than sort comparator")

	// ErrUserCallable: a map, combine, or reduce function failed.
	// The task aborts and commits no output.
	ErrUserCallable = errors.New("user function failed")
)
