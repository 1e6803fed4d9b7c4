package memory

import (
	"context"
	"sync"
	"time"

	"project-tracker/domain/ports"
)

// TokenStore ใช้แทน Redis ตอน dev หรือเมื่อ Redis ไม่พร้อม revoke หายเมื่อ restart
type TokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenStore() ports.TokenStorePort {
	return &TokenStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.revoked[tokenID] = now.Add(ttl)

	// เก็บกวาด entry ที่หมดอายุไปพร้อมกัน
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	return nil
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(s.now()) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
