package storage

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
)

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, s KVStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing-key")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "b", `{"id":1}`))
	require.NoError(t, s.Set(ctx, "a", "first"))
	require.NoError(t, s.Set(ctx, "a", "second"))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Remove(ctx, "a"))
	require.NoError(t, s.Remove(ctx, "a"), "removing an absent key is not an error")

	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, ErrKeyNotFound)
	assert.NotErrorIs(t, err, ErrStorageAccess)

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStorageAccess)
	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), ErrStorageAccess)
	assert.ErrorIs(t, s.Remove(context.Background(), "k"), ErrStorageAccess)
	_, err = s.Keys(context.Background())
	assert.ErrorIs(t, err, ErrStorageAccess)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "outliner.db")
	s, err := OpenSQLite(path, log.NewDiscard())
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outliner.db")

	s, err := OpenSQLite(path, log.NewDiscard())
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "root", "value"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, log.NewDiscard())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func newMockSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta(schemaQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewSQLStore(db, log.NewDiscard())
	require.NoError(t, err)
	return s, mock
}

func TestSQLStoreAccessErrors(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockSQLStore(t)
	dbErr := errors.New("database is locked")

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).WithArgs("root").WillReturnError(dbErr)
	_, err := s.Get(ctx, "root")
	assert.ErrorIs(t, err, ErrStorageAccess)
	assert.ErrorIs(t, err, dbErr)

	mock.ExpectExec(regexp.QuoteMeta(setQuery)).
		WithArgs("root", "v", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(dbErr)
	assert.ErrorIs(t, s.Set(ctx, "root", "v"), ErrStorageAccess)

	mock.ExpectExec(regexp.QuoteMeta(removeQuery)).WithArgs("root").WillReturnError(dbErr)
	assert.ErrorIs(t, s.Remove(ctx, "root"), ErrStorageAccess)

	mock.ExpectQuery(regexp.QuoteMeta(keysQuery)).WillReturnError(dbErr)
	_, err = s.Keys(ctx)
	assert.ErrorIs(t, err, ErrStorageAccess)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreGetMissingRow(t *testing.T) {
	s, mock := newMockSQLStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreSchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(schemaQuery)).WillReturnError(errors.New("disk I/O error"))
	_, err = NewSQLStore(db, log.NewDiscard())
	assert.Error(t, err)
}

func TestBadgerStoreInMemory(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true}, log.NewDiscard())
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(BadgerConfig{Path: dir, SyncWrites: true}, log.NewDiscard())
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "root", "value"))
	require.NoError(t, s.Close())

	s, err = OpenBadger(BadgerConfig{Path: dir}, log.NewDiscard())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestBadgerStoreRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{}, log.NewDiscard())
	assert.Error(t, err)
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, "outliner:", 0, log.NewDiscard()), mr
}

func TestRedisStore(t *testing.T) {
	s, mr := setupRedisStore(t)
	defer s.Close()

	testStoreContract(t, s)
	assert.True(t, mr.Exists("outliner:b"))
}

func TestRedisStoreIgnoresForeignKeys(t *testing.T) {
	s, mr := setupRedisStore(t)
	defer s.Close()

	require.NoError(t, mr.Set("other:x", "1"))
	require.NoError(t, s.Set(context.Background(), "root", "v"))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, keys)
}

func TestRedisStorePrefixIsLiteral(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "app[1]*:", 0, log.NewDiscard())
	defer s.Close()

	require.NoError(t, mr.Set("app1x:foreign", "1"))
	require.NoError(t, mr.Set("app[1]-:foreign", "1"))
	require.NoError(t, s.Set(context.Background(), "root", "v"))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, keys)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "outliner:", escapeGlob("outliner:"))
	assert.Equal(t, `a\*b\?c\[d\]e\\`, escapeGlob(`a*b?c[d]e\`))
}

func TestRedisStoreAccessErrors(t *testing.T) {
	s, mr := setupRedisStore(t)
	defer s.Close()
	mr.SetError("ERR simulated outage")

	_, err := s.Get(context.Background(), "root")
	assert.ErrorIs(t, err, ErrStorageAccess)
	assert.ErrorIs(t, s.Set(context.Background(), "root", "v"), ErrStorageAccess)
	assert.ErrorIs(t, s.Remove(context.Background(), "root"), ErrStorageAccess)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "p:"}, log.NewDiscard())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	got, err := mr.Get("p:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewStoreSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  model.Config
		want interface{}
	}{
		{"memory", model.Config{StoreType: "memory"}, &MemoryStore{}},
		{"sqlite", model.Config{StoreType: "sqlite", DatabaseDir: dir, DatabaseFile: "t.db"}, &SQLStore{}},
		{"badger", model.Config{StoreType: "badger", BadgerDir: filepath.Join(dir, "badger")}, &BadgerStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(context.Background(), &tt.cfg, log.NewDiscard())
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}

	_, err := NewStore(context.Background(), &model.Config{StoreType: "floppy"}, log.NewDiscard())
	assert.Error(t, err)
}
