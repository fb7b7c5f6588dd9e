package service

import (
	"testing"

	"github.com/lalith-99/deskchat/internal/auth"
	"github.com/lalith-99/deskchat/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServices struct {
	store    *memory.Store
	auth     *AuthService
	messages *MessageService
	requests *RequestService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.New()
	logger := zap.NewNop()
	return &testServices{
		store:    store,
		auth:     NewAuthService(store, hasher, logger),
		messages: NewMessageService(store.Messages(), logger),
		requests: NewRequestService(store.Requests(), logger),
	}
}
