package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool and *pgx.Conn the repositories use.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres implements CRUD against the table described by its mapper.
type Postgres[K comparable, E any] struct {
	db     DB
	m      mapper[K, E]
	logger *slog.Logger
}

func newPostgres[K comparable, E any](db DB, m mapper[K, E], logger *slog.Logger) *Postgres[K, E] {
	return &Postgres[K, E]{
		db:     db,
		m:      m,
		logger: logger.With(slog.String("table", m.table.Name)),
	}
}

// NewPostgres builds the four repositories on one database handle.
func NewPostgres(db DB, logger *slog.Logger) *Repositories {
	return &Repositories{
		Departments: newPostgres(db, departmentMapper, logger),
		Positions:   newPostgres(db, positionMapper, logger),
		DeptPosRels: newPostgres(db, deptPosRelMapper, logger),
		Users:       newPostgres(db, userMapper, logger),
	}
}

func (r *Postgres[K, E]) FindByID(ctx context.Context, id K) (E, error) {
	var zero E

	if r.m.emptyID(id) {
		return zero, ErrEmptyKey
	}

	e, err := r.m.scan(r.db.QueryRow(ctx, r.m.table.SelectByKeySQL(), r.m.keyArgs(id)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Record not found", slog.Any("id", id))
			return zero, ErrNotFound
		}

		r.logger.Error("Error querying record", slog.Any("id", id), slog.String("error", err.Error()))
		return zero, fmt.Errorf("find %s: %w", r.m.table.Name, err)
	}

	return e, nil
}

func (r *Postgres[K, E]) Save(ctx context.Context, e E) error {
	id := r.m.key(e)
	if r.m.emptyID(id) {
		return ErrEmptyKey
	}

	if _, err := r.db.Exec(ctx, r.m.table.UpsertSQL(), r.m.values(e)...); err != nil {
		r.logger.Error("Error saving record", slog.Any("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("save %s: %w", r.m.table.Name, err)
	}

	return nil
}

func (r *Postgres[K, E]) DeleteByID(ctx context.Context, id K) error {
	if r.m.emptyID(id) {
		return ErrEmptyKey
	}

	result, err := r.db.Exec(ctx, r.m.table.DeleteSQL(), r.m.keyArgs(id)...)
	if err != nil {
		r.logger.Error("Error deleting record", slog.Any("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("delete %s: %w", r.m.table.Name, err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Debug("Nothing to delete", slog.Any("id", id))
	}

	return nil
}

func (r *Postgres[K, E]) FindAll(ctx context.Context) ([]E, error) {
	rows, err := r.db.Query(ctx, r.m.table.SelectAllSQL())
	if err != nil {
		r.logger.Error("Error querying records", slog.String("error", err.Error()))
		return nil, fmt.Errorf("list %s: %w", r.m.table.Name, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (E, error) {
		return r.m.scan(row)
	})
	if err != nil {
		r.logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("list %s: %w", r.m.table.Name, err)
	}

	return records, nil
}
