package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/person-api/internal/lib/objectid"
	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	personKeyPrefix = "person:"

	// maxTxRetries bounds optimistic-lock retries on concurrent updates.
	maxTxRetries = 5
)

// RedisPersonRepository stores each person as a JSON document under person:<id>.
type RedisPersonRepository struct {
	client *redis.Client
}

func NewRedisPersonRepository(client *redis.Client) *RedisPersonRepository {
	return &RedisPersonRepository{client: client}
}

func personKey(id string) string {
	return personKeyPrefix + id
}

func (r *RedisPersonRepository) Create(ctx context.Context, name string) (*person.Person, error) {
	now := time.Now().UTC()

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		p := &person.Person{
			ID:        objectid.NewAt(now),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		doc, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode person: %w", err)
		}

		created, err := r.client.SetNX(ctx, personKey(p.ID), doc, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to create person: %w", err)
		}
		if created {
			return p, nil
		}
	}

	return nil, errors.New("failed to create person: id collision")
}

func (r *RedisPersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	doc, err := r.client.Get(ctx, personKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person by id: %w", err)
	}

	return decodePerson(doc)
}

// FindByIDAndUpdate uses WATCH/MULTI so a concurrent delete or update of the
// same key aborts and retries the transaction.
func (r *RedisPersonRepository) FindByIDAndUpdate(ctx context.Context, id, name string) (*person.Person, error) {
	key := personKey(id)

	var updated *person.Person
	txf := func(tx *redis.Tx) error {
		doc, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrPersonNotFound
		}
		if err != nil {
			return err
		}

		p, err := decodePerson(doc)
		if err != nil {
			return err
		}
		p.Name = name
		p.UpdatedAt = time.Now().UTC()

		next, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode person: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = p
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrPersonNotFound):
			return nil, ErrPersonNotFound
		default:
			return nil, fmt.Errorf("failed to update person: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to update person: %w", redis.TxFailedErr)
}

func (r *RedisPersonRepository) FindByIDAndDelete(ctx context.Context, id string) (*person.Person, error) {
	doc, err := r.client.GetDel(ctx, personKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete person: %w", err)
	}

	return decodePerson(doc)
}

func decodePerson(doc []byte) (*person.Person, error) {
	var p person.Person
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode person: %w", err)
	}
	return &p, nil
}
