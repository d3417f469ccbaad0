package chat

import "errors"

// Error taxonomy for the chat pipeline. Callers match with errors.Is; the
// send path converts these into local error frames instead of closing the
// connection.
var (
	ErrValidation  = errors.New("chat: message failed validation")
	ErrStorage     = errors.New("chat: storage failure")
	ErrRetrieval   = errors.New("chat: retrieval failure")
	ErrNotFound    = errors.New("chat: conversation not found")
	ErrRateLimited = errors.New("chat: rate limit exceeded")
)
