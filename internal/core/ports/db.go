package ports

import "github.com/beutel-network/beutel-daemon/internal/core/domain"

// RepoManager gives access to the repositories of the daemon.
type RepoManager interface {
	SendRepository() domain.SendRepository
	Close()
}
