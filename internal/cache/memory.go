package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// Memory хранит сводки репутации в памяти процесса с TTL.
// Используется, когда Redis не настроен.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	summary   models.ReputationSummary
	expiresAt time.Time
}

// NewMemory создаёт кэш и запускает очистку просроченных записей до отмены ctx.
func NewMemory(ctx context.Context, ttl time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	go m.cleanup(ctx, 5*time.Minute)
	return m
}

// Get возвращает сводку, если она есть и не устарела.
func (m *Memory) Get(_ context.Context, sellerID uuid.UUID) (*models.ReputationSummary, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[reputationKey(sellerID)]
	if !ok || m.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	summary := entry.summary
	return &summary, true, nil
}

// Set сохраняет сводку.
func (m *Memory) Set(_ context.Context, sellerID uuid.UUID, summary models.ReputationSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[reputationKey(sellerID)] = memoryEntry{
		summary:   summary,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

// Invalidate удаляет сводку продавца.
func (m *Memory) Invalidate(_ context.Context, sellerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, reputationKey(sellerID))
	return nil
}

func (m *Memory) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			now := m.now()
			for key, entry := range m.entries {
				if now.After(entry.expiresAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
