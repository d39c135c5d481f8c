package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id string) *Session {
	return &Session{ID: id, values: map[string]string{}}
}

func TestEnsureTokenIsStablePerSession(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")
	sess := newTestSession("sess-1")

	first, err := manager.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := manager.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first, sess.Get(CSRFSessionKey))
}

func TestVerifyTokenAcceptsHeaderToken(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")
	sess := newTestSession("sess-1")

	token, err := manager.EnsureToken(context.Background(), sess)
	require.NoError(t, err)

	assert.NoError(t, manager.VerifyToken(context.Background(), sess, token))
}

func TestVerifyTokenRejectsMismatch(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")
	sess := newTestSession("sess-1")

	_, err := manager.EnsureToken(context.Background(), sess)
	require.NoError(t, err)

	err = manager.VerifyToken(context.Background(), sess, "not-the-token")
	assert.ErrorIs(t, err, ErrCSRFTokenMismatch)
}

func TestVerifyTokenRequiresToken(t *testing.T) {
	manager := NewCSRFManager("csrf-secret")

	err := manager.VerifyToken(context.Background(), nil, "anything")
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)

	sess := newTestSession("sess-1")
	err = manager.VerifyToken(context.Background(), sess, "")
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)

	_, err = manager.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	err = manager.VerifyToken(context.Background(), sess, "")
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)
}
