// Package memory holds process-local stores used by the memory backend and
// by tests. Every operation runs under one mutex, so each call is atomic
// against the current record just like a single-row UPDATE in postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"match-backend/internal/domain"
)

type ProfileStore struct {
	mu         sync.Mutex
	profiles   map[string]*domain.Profile
	tombstones map[string]time.Time
	now        func() time.Time
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles:   make(map[string]*domain.Profile),
		tombstones: make(map[string]time.Time),
		now:        time.Now,
	}
}

var _ domain.ProfileRepository = (*ProfileStore)(nil)

func (s *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[profile.ID]; exists {
		return domain.ErrConflict
	}
	now := s.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.Version = 1
	profile.Normalize()
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *ProfileStore) GetByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *ProfileStore) List(ctx context.Context) ([]*domain.Profile, error) {
	return s.filter(func(*domain.Profile) bool { return true }), nil
}

func (s *ProfileStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Profile, error) {
	return s.filter(func(p *domain.Profile) bool { return p.OwnerID == ownerID }), nil
}

func (s *ProfileStore) filter(keep func(*domain.Profile) bool) []*domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *ProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[profile.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != profile.Version {
		return domain.ErrConflict
	}

	stored.Name = profile.Name
	stored.Age = profile.Age
	stored.Gender = profile.Gender
	stored.Location = profile.Location
	stored.Description = profile.Description
	stored.Tag = nil
	if profile.Tag != nil {
		tag := *profile.Tag
		stored.Tag = &tag
	}
	stored.Version++
	stored.UpdatedAt = s.now()

	profile.Version = stored.Version
	profile.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *ProfileStore) ApplySetOps(ctx context.Context, id string, ops ...domain.SetOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Apply(ops...)
	stored.UpdatedAt = s.now()
	return nil
}

func (s *ProfileStore) ApplySetOpsUnlessMatched(ctx context.Context, id, other string, ops ...domain.SetOp) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if stored.Has(domain.SetMatched, other) {
		return false, nil
	}
	stored.Apply(ops...)
	stored.UpdatedAt = s.now()
	return true, nil
}

func (s *ProfileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.profiles, id)
	s.tombstones[id] = s.now()
	return nil
}

func (s *ProfileStore) PendingTombstones(ctx context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.tombstones))
	for id := range s.tombstones {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s.tombstones[ids[i]], s.tombstones[ids[j]]
		if ti.Equal(tj) {
			return strings.Compare(ids[i], ids[j]) < 0
		}
		return ti.Before(tj)
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *ProfileStore) RemoveReferences(ctx context.Context, deletedID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched int64
	for _, p := range s.profiles {
		referenced := false
		for _, set := range domain.RelationSets {
			if p.Has(set, deletedID) {
				referenced = true
				break
			}
		}
		if !referenced {
			continue
		}
		ops := make([]domain.SetOp, 0, len(domain.RelationSets))
		for _, set := range domain.RelationSets {
			ops = append(ops, domain.SetOp{Set: set, Remove: []string{deletedID}})
		}
		p.Apply(ops...)
		p.UpdatedAt = s.now()
		touched++
	}
	return touched, nil
}

func (s *ProfileStore) ClearTombstone(ctx context.Context, deletedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tombstones, deletedID)
	return nil
}
