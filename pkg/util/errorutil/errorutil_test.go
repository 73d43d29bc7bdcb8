package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	nf := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, nf.Code)
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternalError, internal.Code)
	assert.ErrorContains(t, internal, "boom")

	conflict := NewConflict("taken", map[string]any{"id": "1"})
	wrapped := fmt.Errorf("assign: %w", conflict)
	assert.Same(t, conflict, ToDomainError(wrapped))
}

func TestRetryableAndHasCode(t *testing.T) {
	up := NewUpstreamUnavailable(errors.New("dial tcp"))
	assert.True(t, ToDomainError(up).Retryable())
	assert.True(t, HasCode(up, CodeUpstreamUnavailable))
	assert.False(t, HasCode(errors.New("x"), CodeUpstreamUnavailable))
	assert.False(t, ToDomainError(NewForbidden("no")).Retryable())
	assert.True(t, HasCode(NewOverrideRequired(nil), CodeOverrideRequired))
}
