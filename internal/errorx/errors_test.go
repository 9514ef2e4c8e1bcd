package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"session", fmt.Errorf("lookup: %w", session.ErrSessionNotFound), http.StatusNotFound},
		{"snapshot", snapshot.ErrNotFound, http.StatusNotFound},
		{"slot", session.ErrInvalidSlot, http.StatusBadRequest},
		{"closed", session.ErrClosed, http.StatusGone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *CodeError
			require.True(t, errors.As(FromDomain(tt.err), &ce))
			assert.Equal(t, tt.code, ce.Code)
		})
	}

	plain := errors.New("disk full")
	assert.Same(t, plain, FromDomain(plain))
	assert.NoError(t, FromDomain(nil))
}
