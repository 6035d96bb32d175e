package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"barberbook/backend/internal/domain"
	"barberbook/backend/internal/store"
)

type CatalogRepo struct {
	db *bun.DB
}

var (
	_ store.CatalogRepository = (*CatalogRepo)(nil)
	_ store.CatalogSeeder     = (*CatalogRepo)(nil)
)

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var m domain.Service
	if err := getByID(ctx, r.db, &m, id); err != nil {
		return domain.Service{}, err
	}
	return m, nil
}

func (r *CatalogRepo) GetStaff(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	var m domain.Staff
	if err := getByID(ctx, r.db, &m, id); err != nil {
		return domain.Staff{}, err
	}
	return m, nil
}

func (r *CatalogRepo) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var m domain.User
	if err := getByID(ctx, r.db, &m, id); err != nil {
		return domain.User{}, err
	}
	return m, nil
}

func getByID(ctx context.Context, db bun.IDB, model any, id uuid.UUID) error {
	err := db.NewSelect().Model(model).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (r *CatalogRepo) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().
		Model(&rows).
		Where("is_active").
		OrderExpr("lower(name) ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) ListAvailableStaff(ctx context.Context) ([]domain.Staff, error) {
	var rows []domain.Staff
	err := r.db.NewSelect().
		Model(&rows).
		Where("is_available").
		OrderExpr("lower(name) ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) SeedCatalog(ctx context.Context, c store.Catalog) (int, error) {
	added := 0
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		insert := func(model any) error {
			res, err := tx.NewInsert().Model(model).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			added += int(n)
			return nil
		}

		for i := range c.Users {
			if err := insert(&c.Users[i]); err != nil {
				return err
			}
		}
		for i := range c.Services {
			if err := insert(&c.Services[i]); err != nil {
				return err
			}
		}
		for i := range c.Staff {
			if err := insert(&c.Staff[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
