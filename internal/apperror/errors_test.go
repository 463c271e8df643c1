package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cyphera/gator-permissions/internal/apperror"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{
			name: "nil error has no kind",
			err:  nil,
			want: "",
		},
		{
			name: "plain error has no kind",
			err:  errors.New("boom"),
			want: "",
		},
		{
			name: "direct classification",
			err:  apperror.InvalidInput("missing chain id"),
			want: apperror.KindInvalidInput,
		},
		{
			name: "kind survives fmt wrapping",
			err:  fmt.Errorf("fetch failed: %w", apperror.ResourceUnavailable("timeout")),
			want: apperror.KindResourceUnavailable,
		},
		{
			name: "kind survives pkg/errors wrapping",
			err:  pkgerrors.Wrap(apperror.ChainDisconnected("wrong chain"), "ensure chain"),
			want: apperror.KindChainDisconnected,
		},
		{
			name: "outermost classification wins",
			err:  apperror.Wrap(apperror.KindResourceNotFound, apperror.ResourceUnavailable("inner"), "outer"),
			want: apperror.KindResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.KindOf(tt.err))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperror.Wrap(apperror.KindResourceUnavailable, cause, "eth_call failed")

	assert.ErrorIs(t, err, cause)
	assert.True(t, apperror.Is(err, apperror.KindResourceUnavailable))
	assert.False(t, apperror.Is(err, apperror.KindInternal))
	assert.Contains(t, err.Error(), "eth_call failed")
	assert.Contains(t, err.Error(), "connection reset")
}
