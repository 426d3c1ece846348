package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorFormatting(t *testing.T) {
	serr := InvalidArgument("Missing title")
	require.Equal(t, "[INVALID_ARGUMENT] Missing title", serr.Error())

	cause := pkgerrors.New("connection refused")
	wrapped := Wrap(cause, ErrCodeSearchFailed, "image search failed")
	require.Equal(t, "[SEARCH_FAILED] image search failed: connection refused", wrapped.Error())
	require.ErrorIs(t, wrapped, cause)
}

func TestIsCode(t *testing.T) {
	require.True(t, IsCode(FeatureDisabled("covers"), ErrCodeFeatureDisabled))
	require.False(t, IsCode(FeatureDisabled("covers"), ErrCodeNotFound))
	require.False(t, IsCode(pkgerrors.New("plain"), ErrCodeInternal))
}

func TestGetCodeFromError(t *testing.T) {
	require.Equal(t, ErrCodeRateLimitExceeded, GetCodeFromError(RateLimitExceeded("slow down"), ErrCodeInternal))
	require.Equal(t, ErrCodeInternal, GetCodeFromError(pkgerrors.New("plain"), ErrCodeInternal))
}
