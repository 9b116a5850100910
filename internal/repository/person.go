package repository

//go:generate mockgen -source=person.go -destination=mocks/mocks.go -package=mocks PersonRepository

import (
	"context"

	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/pkg/errors"
)

// ErrPersonNotFound is returned when no person matches the id.
var ErrPersonNotFound = errors.New("person not found")

// PersonRepository is the document store contract for the person resource.
//
// Ids passed in are syntactically valid lowercase ids; the store assigns ids
// on Create. FindByIDAndUpdate returns the post-update record and
// FindByIDAndDelete the record as it was before removal. A missing record is
// reported as ErrPersonNotFound.
type PersonRepository interface {
	Create(ctx context.Context, name string) (*person.Person, error)
	FindByID(ctx context.Context, id string) (*person.Person, error)
	FindByIDAndUpdate(ctx context.Context, id, name string) (*person.Person, error)
	FindByIDAndDelete(ctx context.Context, id string) (*person.Person, error)
}
