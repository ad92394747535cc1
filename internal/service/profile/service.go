package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/zenstudent/backend/internal/model/profile"
	"github.com/zenstudent/backend/internal/store"
)

// Manager holds the session profile and persists user edits.
type Manager struct {
	kv store.KV

	mu      sync.RWMutex
	current profile.Profile
}

func NewManager(kv store.KV) *Manager {
	return &Manager{kv: kv, current: profile.Default()}
}

// Load restores the persisted profile, keeping defaults when none exists.
func (m *Manager) Load(ctx context.Context) error {
	blob, ok, err := m.kv.Get(ctx, store.KeyProfile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok {
		return nil
	}

	var p profile.Profile
	if err := json.Unmarshal(blob, &p); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()
	return nil
}

// Current returns a copy of the profile for read access.
func (m *Manager) Current() profile.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update validates and persists a full replacement profile.
func (m *Manager) Update(ctx context.Context, p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := m.kv.Set(ctx, store.KeyProfile, blob); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	log.Printf("[profile] updated, language=%s contacts=%d", p.Language, len(p.Contacts))
	return nil
}
