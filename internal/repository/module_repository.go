package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleCounter reports how many active learning modules belong to the
// onboarding tier. The modules table itself is owned by the content service.
type ModuleCounter interface {
	CountActiveOnboarding(ctx context.Context) (int, error)
}

type moduleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository returns a Postgres-backed counter.
func NewModuleRepository(pool *pgxpool.Pool) ModuleCounter {
	return &moduleRepository{pool: pool}
}

func (r *moduleRepository) CountActiveOnboarding(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM modules WHERE tier = 'ONBOARDING' AND is_active = TRUE`
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
