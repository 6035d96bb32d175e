package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleBarber Role = "barber"
	RoleAdmin  Role = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull,unique"`
	Phone     string    `bun:"phone"`
	Role      Role      `bun:"role,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Service is a bookable offering. PriceCents is in the smallest currency unit.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Name            string    `bun:"name,notnull"`
	Description     string    `bun:"description"`
	PriceCents      int64     `bun:"price_cents,notnull"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	ImageURL        string    `bun:"image_url"`
	IsActive        bool      `bun:"is_active,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

type Staff struct {
	bun.BaseModel `bun:"table:staff"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Specialty   string    `bun:"specialty"`
	Rating      float64   `bun:"rating,notnull"`
	PhotoURL    string    `bun:"photo_url"`
	IsAvailable bool      `bun:"is_available,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		return initCatalogRow(&u.ID, &u.CreatedAt)
	}
	return nil
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		return initCatalogRow(&s.ID, &s.CreatedAt)
	}
	return nil
}

func (s *Staff) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		return initCatalogRow(&s.ID, &s.CreatedAt)
	}
	return nil
}

func initCatalogRow(id *uuid.UUID, createdAt *time.Time) error {
	if *id == uuid.Nil {
		v, err := uuid.NewV7()
		if err != nil {
			return err
		}
		*id = v
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
	return nil
}
