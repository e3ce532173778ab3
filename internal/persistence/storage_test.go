package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMiniredisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStorageFromClient(rdb, "mindfeed:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func newSQLiteStorage(t *testing.T) *SQLStorage {
	t.Helper()
	s, err := OpenSQLStorage("sqlite", filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_Contract(t *testing.T) {
	backends := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage() },
		"redis": func(t *testing.T) Storage {
			s, _ := newMiniredisStorage(t)
			return s
		},
		"sqlite": func(t *testing.T) Storage { return newSQLiteStorage(t) },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Load(ctx, SlotNotes)
			assert.ErrorIs(t, err, ErrSlotNotFound)

			require.NoError(t, s.Save(ctx, SlotNotes, []byte(`{"version":1}`)))
			require.NoError(t, s.Save(ctx, SlotNotes, []byte(`{"version":2}`)))

			data, err := s.Load(ctx, SlotNotes)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":2}`, string(data))

			_, err = s.Load(ctx, SlotThoughts)
			assert.ErrorIs(t, err, ErrSlotNotFound)
		})
	}
}

func TestMemoryStorage_CopiesBuffers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	buf := []byte("abc")
	require.NoError(t, s.Save(ctx, SlotUser, buf))
	buf[0] = 'x'

	data, err := s.Load(ctx, SlotUser)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestRedisStorage_UsesPrefix(t *testing.T) {
	s, mr := newMiniredisStorage(t)
	require.NoError(t, s.Save(context.Background(), SlotUser, []byte("{}")))

	got, err := mr.Get("mindfeed:" + SlotUser)
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
}

func TestRedisStorage_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	s := NewRedisStorageFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), "")
	defer func() { _ = s.Close() }()
	mr.Close()

	_, err = s.Load(context.Background(), SlotUser)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSlotNotFound))
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage(context.Background(), "http://localhost:6379", "")
	assert.Error(t, err)
}

func TestOpenSQLStorage_UnknownDriver(t *testing.T) {
	_, err := OpenSQLStorage("mysql", "dsn")
	assert.ErrorContains(t, err, "unsupported")
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestSQLStorage_FailurePaths(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	t.Run("load", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "storage_slots"`).WillReturnError(dbErr)

		_, err := NewSQLStorage(db).Load(ctx, SlotThoughts)
		require.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(`INSERT INTO "storage_slots"`).WillReturnError(dbErr)

		err := NewSQLStorage(db).Save(ctx, SlotThoughts, []byte("{}"))
		require.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "storage_slots"`).
			WillReturnRows(sqlmock.NewRows([]string{"slot", "data", "updated_at"}))

		_, err := NewSQLStorage(db).Load(ctx, SlotThoughts)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}
