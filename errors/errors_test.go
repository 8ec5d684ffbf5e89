package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateErrorResponseFromError(t *testing.T) {
	require.Nil(t, CreateErrorResponseFromError(nil))

	providerErr := &ProviderError{Provider: "alchemy", Chain: "base", StatusCode: 503, Detail: "unavailable"}
	wrapped := fmt.Errorf("fetching page: %w", providerErr)

	resp := CreateErrorResponseFromError(wrapped)
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	require.Equal(t, ErrorCodeProvider, errResp.Code)
	require.Contains(t, errResp.Details, "status 503")

	var decoded ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(errResp.Error()), &decoded))
	require.Equal(t, *errResp, decoded)
}

func TestCreateErrorResponseKeepsExisting(t *testing.T) {
	original := &ErrorResponse{Code: ErrorCodeValidation, Details: "empty prompt"}
	require.Same(t, original, CreateErrorResponseFromError(original))
}

func TestCreateErrorResponseUnknown(t *testing.T) {
	resp := CreateErrorResponseFromError(stderrors.New("boom")).(*ErrorResponse)
	require.Equal(t, ErrorCodeUnknown, resp.Code)
	require.Equal(t, "boom", resp.Details)
}

func TestNetworkErrorUnwraps(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := &NetworkError{Provider: "alchemy", Chain: "ethereum", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Equal(t, "network error calling alchemy for chain ethereum: connection refused", err.Error())
}

func TestGenerationBackendErrorMessage(t *testing.T) {
	err := &GenerationBackendError{
		Backend:    "openai",
		Reason:     GenerationRateLimited,
		StatusCode: 429,
		Hint:       "wait a moment and try again",
	}
	require.Equal(t, "openai generation rate-limited (status 429): wait a moment and try again", err.Error())
	require.Equal(t, ErrorCodeGenerationBackend, err.Code())
}

func TestTypePredicates(t *testing.T) {
	require.True(t, IsConfigurationError(fmt.Errorf("x: %w", NewMissingSettingError("ALCHEMY_API_KEY"))))
	require.False(t, IsConfigurationError(stderrors.New("x")))
	require.True(t, IsValidationError(&ValidationError{Field: "prompt", Reason: "is empty"}))
}
