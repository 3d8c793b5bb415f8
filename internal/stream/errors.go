package stream

import "errors"

var (
	// ErrDiscOpen reports that the medium was unreadable or a disc handle
	// could not be obtained.
	ErrDiscOpen = errors.New("disc open failed")
	// ErrDiscStructure reports a missing or empty navigation structure.
	ErrDiscStructure = errors.New("disc structure invalid")
	// ErrNotOpen reports an operation on a session that is not open.
	ErrNotOpen = errors.New("stream source not open")
	// ErrAlreadyOpen reports a second Open on a live session.
	ErrAlreadyOpen = errors.New("stream source already open")
	// ErrSeekUnsupported reports that the source is forward-only.
	ErrSeekUnsupported = errors.New("seek not supported")
)
