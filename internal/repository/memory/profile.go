package memory

import (
	"context"
	"sort"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
)

type profileRepository struct {
	store *Store
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *profileRepository) CreateIfAbsent(ctx context.Context, p profile.Profile) (profile.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, false, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[p.ID]; ok {
		return existing, false, nil
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.profiles[p.ID] = p
	return p, true, nil
}

func (r *profileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[p.ID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	existing.Name = p.Name
	existing.Department = p.Department
	existing.Position = p.Position
	existing.Phone = p.Phone
	existing.Address = p.Address
	existing.UpdatedAt = s.now()
	s.profiles[p.ID] = existing
	return existing, nil
}

func (r *profileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
