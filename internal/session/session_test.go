package session_test

import (
	"testing"

	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/cvsbridge/cvsbridge/pkg/badgerfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSession_LastComment(t *testing.T) {
	s := session.New()
	assert.Empty(t, s.LastComment())

	s.SetLastComment("fix build")
	assert.Equal(t, "fix build", s.LastComment())
}

func TestAttach(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db, err := badgerfx.Open(badgerfx.Config{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := session.NewRepository(db)

	_, err = repo.LastComment()
	require.ErrorIs(t, err, session.ErrNotFound)

	first := session.New()
	require.NoError(t, session.Attach(first, repo, logger))
	first.SetLastComment("initial import")

	stored, err := repo.LastComment()
	require.NoError(t, err)
	assert.Equal(t, "initial import", stored)

	second := session.New()
	require.NoError(t, session.Attach(second, repo, logger))
	assert.Equal(t, "initial import", second.LastComment())
}
