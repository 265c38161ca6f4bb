package boltsecurestore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/beutel-network/beutel-daemon/pkg/securestore"
	"github.com/btcsuite/btcwallet/snacl"
	bolt "go.etcd.io/bbolt"
)

const dbTimeout = time.Second

var (
	// RootKeyBucketName is the name of the root key store bucket.
	RootKeyBucketName = []byte("root")

	// encryptionKeyID is the name of the database key that stores the
	// encryption key parameters, salted and derived from the password.
	encryptionKeyID = []byte("enckey")
)

type boltSecureStorage struct {
	db *bolt.DB

	encKeyMtx sync.RWMutex
	encKey    *snacl.SecretKey
}

// NewSecureStorage creates a bolt instance of the SecureStorage interface.
func NewSecureStorage(datadir, filename string) (securestore.SecureStorage, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, err
	}

	db, err := bolt.Open(
		filepath.Join(datadir, filename), 0600, &bolt.Options{Timeout: dbTimeout},
	)
	if err != nil {
		return nil, err
	}

	// If the store's bucket doesn't exist, create it.
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(RootKeyBucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &boltSecureStorage{db: db}, nil
}

// IsLocked returns whether the store is locked by checking if the encryption
// key is stored in-memory.
func (s *boltSecureStorage) IsLocked() bool {
	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()
	return s.encKey == nil
}

// IsInitialized returns whether the encryption key parameters are stored.
func (s *boltSecureStorage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}
		initialized = len(bucket.Get(encryptionKeyID)) > 0
		return nil
	})
	return initialized, err
}

// Lock eventually locks the store by flushing the in-memory encryption key.
func (s *boltSecureStorage) Lock() {
	s.encKeyMtx.Lock()
	defer s.encKeyMtx.Unlock()

	if s.encKey != nil {
		s.encKey.Zero()
		s.encKey = nil
	}
}

// CreateUnlock sets an encryption key if one is not already set, otherwise it
// checks if the password is correct for the stored encryption key.
func (s *boltSecureStorage) CreateUnlock(password *[]byte) error {
	if !s.IsLocked() {
		return nil
	}

	if password == nil || len(*password) <= 0 {
		return ErrPasswordRequired
	}

	s.encKeyMtx.Lock()
	defer s.encKeyMtx.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}

		dbKey := bucket.Get(encryptionKeyID)
		if len(dbKey) > 0 {
			// A key is already stored, so try to unlock with the password.
			encKey := &snacl.SecretKey{}
			if err := encKey.Unmarshal(dbKey); err != nil {
				return err
			}

			if err := encKey.DeriveKey(password); err != nil {
				return ErrInvalidPassword
			}

			s.encKey = encKey
			return nil
		}

		encKey, err := snacl.NewSecretKey(
			password, snacl.DefaultN, snacl.DefaultR, snacl.DefaultP,
		)
		if err != nil {
			return err
		}

		if err := bucket.Put(encryptionKeyID, encKey.Marshal()); err != nil {
			return err
		}

		s.encKey = encKey
		return nil
	})
}

// ChangePassword checks the old password against the stored encryption key
// and re-encrypts every value with a key derived from the new password, all
// in a single transaction.
func (s *boltSecureStorage) ChangePassword(oldPw, newPw []byte) error {
	if s.IsLocked() {
		return ErrStoreLocked
	}

	if len(oldPw) <= 0 || len(newPw) <= 0 {
		return ErrPasswordRequired
	}

	s.encKeyMtx.Lock()
	defer s.encKeyMtx.Unlock()

	encKeyNew, err := snacl.NewSecretKey(
		&newPw, snacl.DefaultN, snacl.DefaultR, snacl.DefaultP,
	)
	if err != nil {
		return err
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}
		dbKey := bucket.Get(encryptionKeyID)
		if len(dbKey) <= 0 {
			return ErrEncKeyNotFound
		}

		encKeyOld := &snacl.SecretKey{}
		if err := encKeyOld.Unmarshal(dbKey); err != nil {
			return err
		}
		if err := encKeyOld.DeriveKey(&oldPw); err != nil {
			return ErrInvalidPassword
		}
		defer encKeyOld.Zero()

		if err := reencryptBucket(bucket, encKeyOld, encKeyNew); err != nil {
			return err
		}
		return bucket.Put(encryptionKeyID, encKeyNew.Marshal())
	}); err != nil {
		encKeyNew.Zero()
		return err
	}

	s.encKey.Zero()
	s.encKey = encKeyNew
	return nil
}

// CreateBucket creates a nested bucket into the root one.
func (s *boltSecureStorage) CreateBucket(key []byte) error {
	if s.IsLocked() {
		return ErrStoreLocked
	}

	if len(key) <= 0 {
		return ErrMissingBucketKey
	}
	if bytes.Equal(key, encryptionKeyID) {
		return ErrForbiddenBucketKey
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}
		_, err := bucket.CreateBucketIfNotExists(key)
		return err
	})
}

// AddToBucket stores the provided data encrypted into the given bucket.
// If the bucket key is nil, the key/value entry is added to the root one.
func (s *boltSecureStorage) AddToBucket(bucketKey, key, value []byte) error {
	if s.IsLocked() {
		return ErrStoreLocked
	}

	if len(key) <= 0 {
		return ErrMissingDataKey
	}
	if bytes.Equal(key, encryptionKeyID) {
		return ErrForbiddenDataKey
	}
	if len(value) <= 0 {
		return ErrMissingData
	}

	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()
	if s.encKey == nil {
		return ErrStoreLocked
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := nestedBucket(tx, bucketKey)
		if err != nil {
			return err
		}

		encryptedValue, err := s.encKey.Encrypt(value)
		if err != nil {
			return err
		}

		return bucket.Put(key, encryptedValue)
	})
}

// GetFromBucket retrieves data for the given key and bucket. If the bucket key
// is nil, data is retrieved from the root bucket.
func (s *boltSecureStorage) GetFromBucket(bucketKey, key []byte) ([]byte, error) {
	if s.IsLocked() {
		return nil, ErrStoreLocked
	}

	if len(key) <= 0 {
		return nil, ErrMissingDataKey
	}
	if bytes.Equal(key, encryptionKeyID) {
		return nil, ErrForbiddenDataKey
	}

	s.encKeyMtx.RLock()
	defer s.encKeyMtx.RUnlock()
	if s.encKey == nil {
		return nil, ErrStoreLocked
	}

	var value []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		bucket, err := nestedBucket(tx, bucketKey)
		if err != nil {
			return err
		}

		encryptedValue := bucket.Get(key)
		if len(encryptedValue) <= 0 {
			return nil
		}

		value, err = s.encKey.Decrypt(encryptedValue)
		return err
	}); err != nil {
		return nil, err
	}

	return value, nil
}

// ListBuckets returns the keys of all nested buckets of the root one.
func (s *boltSecureStorage) ListBuckets() ([][]byte, error) {
	if s.IsLocked() {
		return nil, ErrStoreLocked
	}

	var bucketKeys [][]byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}

		return bucket.ForEach(func(key, value []byte) error {
			if value == nil {
				bucketKey := make([]byte, len(key))
				copy(bucketKey, key)
				bucketKeys = append(bucketKeys, bucketKey)
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}

	return bucketKeys, nil
}

// RemoveFromBucket removes the entry identified by the given key for the given
// bucket. If bucket key is nil, the entry is removed from the root bucket.
func (s *boltSecureStorage) RemoveFromBucket(bucketKey, key []byte) error {
	if s.IsLocked() {
		return ErrStoreLocked
	}

	if len(key) <= 0 {
		return ErrMissingDataKey
	}
	if bytes.Equal(key, encryptionKeyID) {
		return ErrForbiddenDataKey
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := nestedBucket(tx, bucketKey)
		if err != nil {
			return err
		}
		return bucket.Delete(key)
	})
}

// RemoveBucket deletes a nested bucket and all of its content.
func (s *boltSecureStorage) RemoveBucket(key []byte) error {
	if s.IsLocked() {
		return ErrStoreLocked
	}

	if len(key) <= 0 {
		return ErrMissingBucketKey
	}
	if bytes.Equal(key, encryptionKeyID) {
		return ErrForbiddenBucketKey
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(RootKeyBucketName)
		if bucket == nil {
			return ErrRootKeyBucketNotFound
		}
		return bucket.DeleteBucket(key)
	})
}

// Close closes the underlying database and zeroes the encryption key stored
// in memory.
func (s *boltSecureStorage) Close() error {
	s.Lock()
	return s.db.Close()
}

func nestedBucket(tx *bolt.Tx, bucketKey []byte) (*bolt.Bucket, error) {
	bucket := tx.Bucket(RootKeyBucketName)
	if bucket == nil {
		return nil, ErrRootKeyBucketNotFound
	}
	if len(bucketKey) <= 0 {
		return bucket, nil
	}
	nested := bucket.Bucket(bucketKey)
	if nested == nil {
		return nil, ErrBucketNotFound
	}
	return nested, nil
}

// reencryptBucket decrypts every value of the bucket, and of its nested
// buckets, with oldKey and stores it again encrypted with newKey.
func reencryptBucket(bucket *bolt.Bucket, oldKey, newKey *snacl.SecretKey) error {
	values := make(map[string][]byte)
	var nested [][]byte

	if err := bucket.ForEach(func(k, v []byte) error {
		if v == nil {
			key := make([]byte, len(k))
			copy(key, k)
			nested = append(nested, key)
			return nil
		}
		if bytes.Equal(k, encryptionKeyID) {
			return nil
		}
		plain, err := oldKey.Decrypt(v)
		if err != nil {
			return fmt.Errorf("failed to decrypt entry: %w", err)
		}
		values[string(k)] = plain
		return nil
	}); err != nil {
		return err
	}

	for k, plain := range values {
		encrypted, err := newKey.Encrypt(plain)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(k), encrypted); err != nil {
			return err
		}
	}

	for _, key := range nested {
		if err := reencryptBucket(bucket.Bucket(key), oldKey, newKey); err != nil {
			return err
		}
	}
	return nil
}
