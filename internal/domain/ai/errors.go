package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider rejected the request with a quota/limit error.
var ErrQuotaExceeded = errors.New("ai quota exceeded")
