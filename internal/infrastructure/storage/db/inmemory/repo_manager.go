package inmemory

import (
	"github.com/beutel-network/beutel-daemon/internal/core/domain"
	"github.com/beutel-network/beutel-daemon/internal/core/ports"
)

type RepoManager struct {
	sendRepository domain.SendRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		sendRepository: NewSendRepositoryImpl(),
	}
}

func (d *RepoManager) SendRepository() domain.SendRepository {
	return d.sendRepository
}

func (d *RepoManager) Close() {}
