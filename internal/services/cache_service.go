package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/acastano/inboxtui/internal/db"
	"github.com/acastano/inboxtui/internal/models"
)

// CacheServiceImpl implements CacheService on the local SQLite store. The
// cache holds the most recent inbox page per recipient so the dashboard can
// paint something immediately on startup while the first fetch is in flight.
type CacheServiceImpl struct {
	store *db.Store
	ttl   time.Duration
}

// NewCacheService creates a new cache service. Entries older than ttl are
// treated as absent.
func NewCacheService(store *db.Store, ttl time.Duration) *CacheServiceImpl {
	return &CacheServiceImpl{
		store: store,
		ttl:   ttl,
	}
}

func (s *CacheServiceImpl) LoadSnapshot(ctx context.Context, recipient string) ([]models.Message, bool, error) {
	if s.store == nil {
		return nil, false, fmt.Errorf("cache store not available: %w", ErrCacheUnavailable)
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, false, fmt.Errorf("recipient cannot be empty")
	}

	payload, updatedAt, found, err := s.store.LoadSnapshot(ctx, recipient)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot from cache: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	if s.ttl > 0 && time.Since(time.Unix(updatedAt, 0)) > s.ttl {
		// Expired entries are dropped eagerly so they never outlive a
		// failed refresh.
		_ = s.store.DeleteSnapshot(ctx, recipient)
		return nil, false, nil
	}

	var messages []models.Message
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, false, fmt.Errorf("corrupt snapshot for %s: %w", recipient, err)
	}
	return messages, true, nil
}

func (s *CacheServiceImpl) SaveSnapshot(ctx context.Context, recipient string, messages []models.Message) error {
	if s.store == nil {
		return fmt.Errorf("cache store not available: %w", ErrCacheUnavailable)
	}
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("recipient cannot be empty")
	}
	if len(messages) == 0 {
		return s.store.DeleteSnapshot(ctx, recipient)
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, recipient, string(payload), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save snapshot to cache: %w", err)
	}
	return nil
}

func (s *CacheServiceImpl) InvalidateSnapshot(ctx context.Context, recipient string) error {
	if s.store == nil {
		return fmt.Errorf("cache store not available: %w", ErrCacheUnavailable)
	}
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("recipient cannot be empty")
	}
	if err := s.store.DeleteSnapshot(ctx, recipient); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

func (s *CacheServiceImpl) ClearCache(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("cache store not available: %w", ErrCacheUnavailable)
	}
	if err := s.store.DeleteAllSnapshots(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
