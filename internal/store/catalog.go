package store

import (
	"context"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

type CatalogRepository interface {
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	GetStaff(ctx context.Context, id uuid.UUID) (domain.Staff, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)

	// ListActiveServices and ListAvailableStaff are ordered by name.
	ListActiveServices(ctx context.Context) ([]domain.Service, error)
	ListAvailableStaff(ctx context.Context) ([]domain.Staff, error)
}

type Catalog struct {
	Users    []domain.User
	Services []domain.Service
	Staff    []domain.Staff
}

type CatalogSeeder interface {
	// SeedCatalog inserts rows whose ids are not present yet and reports how many were added.
	SeedCatalog(ctx context.Context, c Catalog) (int, error)
}
