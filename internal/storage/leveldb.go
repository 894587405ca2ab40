package storage

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type levelDBBackend struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) an embedded database at path.
func OpenLevelDB(path string) (Backend, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return NewLevelDB(db), nil
}

// NewLevelDB wraps an already opened database.
func NewLevelDB(db *leveldb.DB) Backend {
	return &levelDBBackend{db: db}
}

// Origins never contain NUL, so it separates origin from key unambiguously.
func levelKey(origin, key string) []byte {
	return []byte(origin + "\x00" + key)
}

func (l *levelDBBackend) Get(ctx context.Context, origin, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := l.db.Get(levelKey(origin, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(v), nil
}

func (l *levelDBBackend) Set(ctx context.Context, origin, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.db.Put(levelKey(origin, key), []byte(value), &opt.WriteOptions{Sync: true})
}

func (l *levelDBBackend) Ping(context.Context) error {
	_, err := l.db.GetProperty("leveldb.stats")
	return err
}

func (l *levelDBBackend) Close() error {
	return l.db.Close()
}
