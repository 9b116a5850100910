// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// the structural checks of each operation, and calls repository
// methods to interact with the store
package service

import (
	"github.com/deppfellow/person-api/internal/repository"
	"github.com/deppfellow/person-api/internal/server"
)

type Services struct {
	Person *PersonService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Person: NewPersonService(s, repos.Person),
	}, nil
}
