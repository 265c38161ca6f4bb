package ports

import "context"

// SeedStore keeps the wallet seed phrase encrypted at rest. The store must
// be unlocked with the password before any Store/Load/Delete.
type SeedStore interface {
	IsInitialized() bool
	IsLocked() bool
	// Unlock initializes the store with the given password the first time,
	// then it's used to decrypt it.
	Unlock(password string) error
	Lock()
	ChangePassword(currentPassword, newPassword string) error

	Store(ctx context.Context, mnemonic []string) error
	// Load returns the stored seed phrase, if any.
	Load(ctx context.Context) (mnemonic []string, found bool, err error)
	Delete(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	Close() error
}
