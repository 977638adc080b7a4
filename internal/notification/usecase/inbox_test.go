package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInbox(t *testing.T) {
	t.Run("defaults and role scope", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.repo.inbox = []entity.InboxItem{{ID: 7, ContextType: entity.ContextTypeSupport}}

		// Act
		items, err := f.uc.ListInbox(asInnovator(context.Background()), ListInboxInput{})

		// Assert
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, entity.InboxFilter{RoleID: "ro1", Status: entity.InboxStatusAll, Limit: 20}, f.repo.lastFilter)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.ListInbox(context.Background(), ListInboxInput{})

		assert.True(t, goerror.HasCode(err, goerror.CodeUnauthorized))
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.ListInbox(asInnovator(context.Background()), ListInboxInput{Status: "archived"})

		assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.repoErr = errBoom

		_, err := f.uc.ListInbox(asInnovator(context.Background()), ListInboxInput{})

		assert.True(t, goerror.HasCode(err, goerror.CodeInternal))
	})
}

func TestInboxCounters(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.repo.counters = []entity.InboxCounter{{ContextType: entity.ContextTypeThread, Unread: 4}}

	// Act
	got, err := f.uc.InboxCounters(asInnovator(context.Background()))

	// Assert
	require.NoError(t, err)
	require.Len(t, got, len(entity.ContextTypes()))
	for _, c := range got {
		want := int64(0)
		if c.ContextType == entity.ContextTypeThread {
			want = 4
		}
		assert.Equal(t, want, c.Unread, c.ContextType)
	}
}

func TestMarkInboxRead(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.markFound = true

		err := f.uc.MarkInboxRead(asInnovator(context.Background()), MarkInboxReadInput{ID: 9})

		require.NoError(t, err)
		assert.Equal(t, now, f.repo.readAt)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.MarkInboxRead(asInnovator(context.Background()), MarkInboxReadInput{ID: 9})

		assert.True(t, goerror.HasCode(err, goerror.CodeNotFound))
	})

	t.Run("accessor may not write", func(t *testing.T) {
		f := newFixture(t)
		f.repo.markFound = true

		err := f.uc.MarkInboxRead(asAccessor(context.Background()), MarkInboxReadInput{ID: 9})

		assert.True(t, goerror.HasCode(err, goerror.CodeForbidden))
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.MarkInboxRead(asInnovator(context.Background()), MarkInboxReadInput{})

		assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))
	})
}

func TestMarkAllInboxRead(t *testing.T) {
	f := newFixture(t)

	n, err := f.uc.MarkAllInboxRead(asInnovator(context.Background()))

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeleteInbox(t *testing.T) {
	f := newFixture(t)

	err := f.uc.DeleteInbox(asInnovator(context.Background()), DeleteInboxInput{ID: 1})
	assert.True(t, goerror.HasCode(err, goerror.CodeNotFound))

	f.repo.markFound = true
	assert.NoError(t, f.uc.DeleteInbox(asInnovator(context.Background()), DeleteInboxInput{ID: 1}))
}
