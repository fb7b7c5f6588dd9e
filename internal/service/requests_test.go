package service

import (
	"context"
	"testing"

	"github.com/lalith-99/deskchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_Validation(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	_, err := s.requests.Create(ctx, alice, "  ", "desc", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.requests.Create(ctx, alice, "title", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.requests.Create(ctx, alice, "tit\x00le", "desc", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.requests.Create(ctx, alice, "title", "de\x00sc", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	all, err := s.requests.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRequest_Defaults(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	_, err := s.requests.Create(ctx, alice, " Printer broken ", " No toner ", "")
	require.NoError(t, err)
	_, err = s.requests.Create(ctx, alice, "VPN", "Cannot connect", "urgent")
	require.NoError(t, err)
	_, err = s.requests.Create(ctx, alice, "Laptop", "Screen cracked", "critical")
	require.NoError(t, err)

	all, err := s.requests.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Newest first.
	assert.Equal(t, "Laptop", all[0].Title)
	assert.Equal(t, models.PriorityCritical, all[0].Priority)
	assert.Equal(t, "VPN", all[1].Title)
	assert.Equal(t, models.PriorityMedium, all[1].Priority)
	assert.Equal(t, "Printer broken", all[2].Title)
	assert.Equal(t, "No toner", all[2].Description)
	assert.Equal(t, models.PriorityMedium, all[2].Priority)

	for _, r := range all {
		assert.Equal(t, models.StatusNew, r.Status)
		assert.Equal(t, "alice", r.AuthorUsername)
		assert.False(t, r.UpdatedAt.Before(r.CreatedAt))
	}
}

func TestDeleteRequest_OnlyOwner(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	bob := registerUser(t, s, "bob")
	ctx := context.Background()

	id, err := s.requests.Create(ctx, alice, "Printer broken", "No toner", "high")
	require.NoError(t, err)

	// Bob sees it in the shared queue.
	all, err := s.requests.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)

	// But cannot delete it, and the answer is the same as for a missing id.
	err = s.requests.Delete(ctx, bob, id)
	assert.ErrorIs(t, err, ErrNotFound)
	err = s.requests.Delete(ctx, bob, id+1000)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err = s.requests.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.requests.Delete(ctx, alice, id))
	all, err = s.requests.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Deleting twice reports not found.
	assert.ErrorIs(t, s.requests.Delete(ctx, alice, id), ErrNotFound)
}

func TestListOwned(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	bob := registerUser(t, s, "bob")
	ctx := context.Background()

	_, err := s.requests.Create(ctx, alice, "a1", "d", "")
	require.NoError(t, err)
	_, err = s.requests.Create(ctx, bob, "b1", "d", "")
	require.NoError(t, err)
	_, err = s.requests.Create(ctx, alice, "a2", "d", "")
	require.NoError(t, err)

	mine, err := s.requests.ListOwned(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a2", mine[0].Title)
	assert.Equal(t, "a1", mine[1].Title)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	id, err := s.requests.Create(ctx, alice, "Printer broken", "No toner", "high")
	require.NoError(t, err)

	before, err := s.requests.ListAll(ctx)
	require.NoError(t, err)

	t.Run("unknown status leaves ticket untouched", func(t *testing.T) {
		err := s.requests.UpdateStatus(ctx, id, "archived")
		assert.ErrorIs(t, err, ErrInvalidInput)

		after, err := s.requests.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.StatusNew, after[0].Status)
		assert.True(t, after[0].UpdatedAt.Equal(before[0].UpdatedAt))
	})

	t.Run("missing ticket", func(t *testing.T) {
		err := s.requests.UpdateStatus(ctx, id+1000, "completed")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("workflow moves in any direction", func(t *testing.T) {
		for _, st := range []models.Status{
			models.StatusInProgress,
			models.StatusRejected,
			models.StatusNew,
			models.StatusCompleted,
		} {
			require.NoError(t, s.requests.UpdateStatus(ctx, id, string(st)))

			after, err := s.requests.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, st, after[0].Status)
			assert.False(t, after[0].UpdatedAt.Before(after[0].CreatedAt))
		}
	})
}
