package favorites

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const DefaultKey = "job-favorites"

// Storage is the persistence port of the store: one serialized slot per key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type Store struct {
	mu      sync.RWMutex
	storage Storage
	key     string
	ids     []string
}

// NewStore reads the persisted set once. Missing or malformed data yields an empty set.
func NewStore(ctx context.Context, storage Storage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{storage: storage, key: key, ids: load(ctx, storage, key)}
}

func load(ctx context.Context, storage Storage, key string) []string {
	data, err := storage.Load(ctx, key)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Warnf("can't load favorites %q, starting empty: %v", key, err)
		return []string{}
	}
	if len(data) == 0 {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warnf("malformed favorites %q, starting empty: %v", key, err)
		return []string{}
	}
	return lo.Uniq(lo.Compact(ids))
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Contains(s.ids, id)
}

func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ids...)
}

// Toggle flips the membership of id and reports the new membership. The new set is written to storage
// before it becomes visible, a failed write leaves the store unchanged.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next []string
	added := !lo.Contains(s.ids, id)
	if added {
		next = append(append(make([]string, 0, len(s.ids)+1), s.ids...), id)
	} else {
		next = lo.Without(s.ids, id)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return !added, err
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return !added, err
	}

	s.ids = next
	metrics.FavoritesToggles.WithLabelValues(toggleLabel(added)).Inc()
	return added, nil
}

func toggleLabel(added bool) string {
	if added {
		return "added"
	}
	return "removed"
}
