package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

func TestSessionStoreSave(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(db, time.Hour)

	mock.ExpectSet(DefaultKeyPrefix+"token-1", "user-1", time.Hour).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), "token-1", "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreLookup(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(db, time.Hour)

	mock.ExpectGet(DefaultKeyPrefix + "token-1").SetVal("user-1")
	mock.ExpectGet(DefaultKeyPrefix + "missing").RedisNil()

	userID, err := store.Lookup(context.Background(), "token-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	_, err = store.Lookup(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(db, time.Hour)

	mock.ExpectDel(DefaultKeyPrefix + "token-1").SetVal(1)

	require.NoError(t, store.Delete(context.Background(), "token-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
