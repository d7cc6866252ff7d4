package bolt

import (
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Buckets used by the embedded store.
var (
	BucketUsers      = []byte("users")
	BucketUserEmails = []byte("user_emails")
	BucketTasks      = []byte("tasks")
)

// Open initializes the BoltDB file and ensures every store bucket exists.
func Open(path string, logger *zap.Logger) (*bbolt.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{BucketUsers, BucketUserEmails, BucketTasks} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened embedded store", zap.String("path", path))
	return db, nil
}

// Ping verifies the database file is still usable.
func Ping(db *bbolt.DB) error {
	if db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(BucketTasks) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}
