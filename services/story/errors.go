package story

import (
	"context"
	stderrors "errors"
	"net/http"

	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const (
	unauthorizedHint = "check the API key"
	rateLimitedHint  = "wait a moment and try again"
)

// backendError maps a backend call failure to a GenerationBackendError.
// Context cancellation is returned as is.
func backendError(backend string, unreachableHint string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}

	var statusErr *thirdparty.HTTPStatusError
	if !stderrors.As(err, &statusErr) {
		return &statuserrors.GenerationBackendError{
			Backend: backend,
			Reason:  statuserrors.GenerationUnreachable,
			Hint:    unreachableHint,
			Err:     err,
		}
	}

	result := &statuserrors.GenerationBackendError{
		Backend:    backend,
		Reason:     statuserrors.GenerationFailed,
		StatusCode: statusErr.StatusCode,
		Err:        err,
	}
	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		result.Reason = statuserrors.GenerationUnauthorized
		result.Hint = unauthorizedHint
	case http.StatusTooManyRequests:
		result.Reason = statuserrors.GenerationRateLimited
		result.Hint = rateLimitedHint
	}
	return result
}

func emptyCompletionError(backend string) error {
	return &statuserrors.GenerationBackendError{
		Backend: backend,
		Reason:  statuserrors.GenerationFailed,
		Hint:    "the backend returned an empty story",
	}
}
