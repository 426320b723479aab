package memory

import (
	"context"
	"sync"

	"waybackhome/internal/ports/output"
)

var _ output.RevocationList = (*RevocationList)(nil)

// RevocationList keeps revoked token ids for the lifetime of the process.
type RevocationList struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewRevocationList() *RevocationList {
	return &RevocationList{ids: make(map[string]struct{})}
}

func (l *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[tokenID]
	return ok, nil
}

func (l *RevocationList) Revoke(_ context.Context, tokenID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[tokenID] = struct{}{}
	return nil
}
