package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lalith-99/deskchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, s *testServices, name string) *models.User {
	t.Helper()
	ctx := context.Background()

	token, err := s.auth.Register(ctx, name, "secret")
	require.NoError(t, err)
	u, err := s.auth.ResolveToken(ctx, token)
	require.NoError(t, err)
	return u
}

func TestAppend_EmptyBody(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.messages.Append(context.Background(), alice, text)
		assert.ErrorIs(t, err, ErrEmptyBody)
	}

	msgs, err := s.messages.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAppend_TrimsAndAttributes(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")

	id, err := s.messages.Append(context.Background(), alice, "  hello  ")
	require.NoError(t, err)
	assert.Positive(t, id)

	msgs, err := s.messages.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Body)
	assert.Equal(t, "alice", msgs[0].AuthorUsername)
	assert.Equal(t, alice.Token, msgs[0].OwnerToken)
}

func TestListRecent_WindowIsMostRecentAscending(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	bob := registerUser(t, s, "bob")
	ctx := context.Background()

	const total = 150
	for i := 0; i < total; i++ {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		_, err := s.messages.Append(ctx, author, fmt.Sprintf("msg-%03d", i))
		require.NoError(t, err)
	}

	msgs, err := s.messages.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, RecentWindow)

	assert.Equal(t, "msg-050", msgs[0].Body)
	assert.Equal(t, "msg-149", msgs[len(msgs)-1].Body)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt), "messages out of order at %d", i)
		assert.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}

func TestImport_SkipsBlankAndDefaultsTimestamp(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	old := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n, err := s.messages.Import(ctx, alice, []LegacyMessage{
		{Text: "from last year", Timestamp: old},
		{Text: "   "},
		{Text: "no timestamp"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	msgs, err := s.messages.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "from last year", msgs[0].Body)
	assert.True(t, msgs[0].CreatedAt.Equal(old))
	assert.Equal(t, "no timestamp", msgs[1].Body)
	assert.Equal(t, "alice", msgs[1].AuthorUsername)
}

func TestAppend_RejectsNUL(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")

	_, err := s.messages.Append(context.Background(), alice, "hello\x00world")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImport_OutOfRangeTimestampBecomesNow(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	before := time.Now()
	n, err := s.messages.Import(ctx, alice, []LegacyMessage{
		{Text: "year ten thousand", Timestamp: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Text: "before year one", Timestamp: time.Date(-5, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	msgs, err := s.messages.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.False(t, m.CreatedAt.Before(before), "%q kept its out-of-range timestamp", m.Body)
		_, err := m.CreatedAt.MarshalJSON()
		assert.NoError(t, err)
	}
}

func TestImport_RejectsNUL(t *testing.T) {
	s := newTestServices(t)
	alice := registerUser(t, s, "alice")
	ctx := context.Background()

	_, err := s.messages.Import(ctx, alice, []LegacyMessage{{Text: "fine"}, {Text: "bad\x00"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	msgs, err := s.messages.ListRecent(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
