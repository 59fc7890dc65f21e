package repository

import (
	"context"
	"errors"

	"github.com/adamanr/org_registry/internal/entity"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrEmptyKey = errors.New("primary key must not be empty")
)

// CRUD is the default data-access contract shared by every entity.
type CRUD[K comparable, E any] interface {
	// FindByID returns ErrNotFound when no row has the key.
	FindByID(ctx context.Context, id K) (E, error)
	// Save inserts the entity or overwrites the row with the same key.
	Save(ctx context.Context, e E) error
	// DeleteByID removes the row physically. A missing key is not an error.
	DeleteByID(ctx context.Context, id K) error
	// FindAll returns every row ordered by key.
	FindAll(ctx context.Context) ([]E, error)
}

type DepartmentRepository interface {
	CRUD[string, entity.Department]
}

type PositionRepository interface {
	CRUD[string, entity.Position]
}

type DeptPosRelRepository interface {
	CRUD[entity.DeptPosRelKey, entity.DeptPosRel]
}

type UserRepository interface {
	CRUD[int64, entity.User]
}

type Repositories struct {
	Departments DepartmentRepository
	Positions   PositionRepository
	DeptPosRels DeptPosRelRepository
	Users       UserRepository
}
