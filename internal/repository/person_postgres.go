package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/person-api/internal/lib/objectid"
	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const personColumns = `id, name, created_at, updated_at`

type PostgresPersonRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPersonRepository(pool *pgxpool.Pool) *PostgresPersonRepository {
	return &PostgresPersonRepository{pool: pool}
}

func (r *PostgresPersonRepository) Create(ctx context.Context, name string) (*person.Person, error) {
	stmt := `
		INSERT INTO persons (id, name)
		VALUES (@id, @name)
		RETURNING ` + personColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":   objectid.New(),
		"name": name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create person query: %w", err)
	}

	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[person.Person])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:persons: %w", err)
	}

	return &p, nil
}

func (r *PostgresPersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	stmt := `SELECT ` + personColumns + ` FROM persons WHERE id = @id`

	return r.queryOne(ctx, stmt, pgx.NamedArgs{"id": id}, "get person by id")
}

func (r *PostgresPersonRepository) FindByIDAndUpdate(ctx context.Context, id, name string) (*person.Person, error) {
	stmt := `
		UPDATE persons
		SET name = @name, updated_at = NOW()
		WHERE id = @id
		RETURNING ` + personColumns

	return r.queryOne(ctx, stmt, pgx.NamedArgs{"id": id, "name": name}, "update person")
}

func (r *PostgresPersonRepository) FindByIDAndDelete(ctx context.Context, id string) (*person.Person, error) {
	stmt := `
		DELETE FROM persons
		WHERE id = @id
		RETURNING ` + personColumns

	return r.queryOne(ctx, stmt, pgx.NamedArgs{"id": id}, "delete person")
}

// queryOne runs a single-row statement and maps pgx.ErrNoRows to ErrPersonNotFound.
func (r *PostgresPersonRepository) queryOne(ctx context.Context, stmt string, args pgx.NamedArgs, op string) (*person.Person, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query: %w", op, err)
	}

	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[person.Person])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to collect row from table:persons: %w", err)
	}

	return &p, nil
}
