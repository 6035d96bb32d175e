package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

func (s *Store) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if err := ctx.Err(); err != nil {
		return domain.Service{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	return svc, nil
}

func (s *Store) GetStaff(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return domain.Staff{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[id]
	if !ok {
		return domain.Staff{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (s *Store) ListAvailableStaff(ctx context.Context) ([]domain.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Staff, 0, len(s.staff))
	for _, st := range s.staff {
		if st.IsAvailable {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (s *Store) SeedCatalog(ctx context.Context, c store.Catalog) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	added := 0
	for _, u := range c.Users {
		if _, ok := s.users[u.ID]; ok {
			continue
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		s.users[u.ID] = u
		added++
	}
	for _, svc := range c.Services {
		if _, ok := s.services[svc.ID]; ok {
			continue
		}
		if svc.CreatedAt.IsZero() {
			svc.CreatedAt = now
		}
		s.services[svc.ID] = svc
		added++
	}
	for _, st := range c.Staff {
		if _, ok := s.staff[st.ID]; ok {
			continue
		}
		if st.CreatedAt.IsZero() {
			st.CreatedAt = now
		}
		s.staff[st.ID] = st
		added++
	}
	return added, nil
}
