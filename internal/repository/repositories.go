// Package repository handles all interactions with the document store.
//
// It contains the queries and commands that fetch, persist or
// remove persons, abstracting the backend away from the service layer.
// Three backends implement PersonRepository: postgres (pgx), redis
// (go-redis) and an in-process memory store.
package repository

import (
	"fmt"

	"github.com/deppfellow/person-api/internal/config"
	"github.com/deppfellow/person-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Person PersonRepository
}

// NewRepositories constructs the repository container for the configured store driver.
//
// The postgres driver requires s.DB and the redis driver s.Redis; server.New
// opens them according to the same setting.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch driver := s.Config.Store.Driver; driver {
	case config.StoreDriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("store driver %q requires a database connection", driver)
		}
		return &Repositories{Person: NewPostgresPersonRepository(s.DB.Pool)}, nil

	case config.StoreDriverRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("store driver %q requires a redis connection", driver)
		}
		return &Repositories{Person: NewRedisPersonRepository(s.Redis)}, nil

	case config.StoreDriverMemory:
		return &Repositories{Person: NewMemoryPersonRepository()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
