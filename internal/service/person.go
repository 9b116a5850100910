package service

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/deppfellow/person-api/internal/lib/objectid"
	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/deppfellow/person-api/internal/repository"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/sqlerr"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client-facing messages of the person operations.
const (
	MsgPersonCreated = "Person was created successfully"
	MsgPersonFound   = "Success: Person found"
	MsgPersonUpdated = "Success: Person updated"
	MsgPersonDeleted = "Success: Person was deleted"

	MsgNameRequired    = "Please input person name"
	MsgGetInvalidID    = "Sorry, Id is Invalid"
	MsgUpdateInvalid   = "Error: Id or name is Invalid"
	MsgDeleteInvalidID = "Error: Id is Invalid"
	MsgPersonNotFound  = "Could not find person"

	MsgCreateNoRecord = "Error occured, person not created"
	MsgCreateFailed   = "Error person not created"
	MsgGetFailed      = "Error occured, could not find person"
	MsgUpdateFailed   = "Error: Could not update person"
	MsgDeleteFailed   = "Error: Could not delete person"
)

const (
	codePersonNotFound   = "PERSON_NOT_FOUND"
	codePersonNotCreated = "PERSON_NOT_CREATED"
)

type PersonService struct {
	server *server.Server
	repo   repository.PersonRepository
}

func NewPersonService(s *server.Server, repo repository.PersonRepository) *PersonService {
	return &PersonService{
		server: s,
		repo:   repo,
	}
}

func (s *PersonService) CreatePerson(ctx context.Context, payload *person.CreatePersonPayload) (*person.Person, error) {
	if !payload.HasName() {
		return nil, errs.NewBadRequestError(MsgNameRequired, nil, nil)
	}

	defer s.observe(ctx, "Create", time.Now())

	p, err := s.repo.Create(ctx, payload.Name)
	if err != nil {
		return nil, storeFailure(MsgCreateFailed, err)
	}
	if p == nil {
		return nil, errs.NewInternalServerError().
			WithMessage(MsgCreateNoRecord).
			WithDetail(&errs.ErrorDetail{Code: codePersonNotCreated, Message: "The store did not return the created record"})
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "person_created").
		Str("person_id", p.ID).
		Msg(MsgPersonCreated)

	return p, nil
}

func (s *PersonService) GetPersonByID(ctx context.Context, payload *person.GetPersonByIDPayload) (*person.Person, error) {
	id, ok := normalizeID(payload.ID)
	if !ok {
		return nil, errs.NewBadRequestError(MsgGetInvalidID, nil, nil)
	}

	defer s.observe(ctx, "FindByID", time.Now())

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(MsgGetFailed, err)
	}
	if p == nil {
		return nil, notFound()
	}

	return p, nil
}

func (s *PersonService) UpdatePerson(ctx context.Context, payload *person.UpdatePersonPayload) (*person.Person, error) {
	id, ok := normalizeID(payload.ID)
	if !ok || !payload.HasName() {
		return nil, errs.NewBadRequestError(MsgUpdateInvalid, nil, nil)
	}

	defer s.observe(ctx, "FindByIDAndUpdate", time.Now())

	p, err := s.repo.FindByIDAndUpdate(ctx, id, payload.Name)
	if err != nil {
		return nil, storeFailure(MsgUpdateFailed, err)
	}
	if p == nil {
		return nil, notFound()
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "person_updated").
		Str("person_id", p.ID).
		Msg(MsgPersonUpdated)

	return p, nil
}

// DeletePerson removes the person and returns the record as it was.
func (s *PersonService) DeletePerson(ctx context.Context, payload *person.DeletePersonPayload) (*person.Person, error) {
	id, ok := normalizeID(payload.ID)
	if !ok {
		return nil, errs.NewBadRequestError(MsgDeleteInvalidID, nil, nil)
	}

	defer s.observe(ctx, "FindByIDAndDelete", time.Now())

	p, err := s.repo.FindByIDAndDelete(ctx, id)
	if err != nil {
		return nil, storeFailure(MsgDeleteFailed, err)
	}
	if p == nil {
		return nil, notFound()
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "person_deleted").
		Str("person_id", p.ID).
		Msg(MsgPersonDeleted)

	return p, nil
}

// normalizeID validates id and returns its lowercase form.
func normalizeID(id string) (string, bool) {
	if !objectid.IsValid(id) {
		return "", false
	}
	return strings.ToLower(id), true
}

func notFound() *errs.HTTPError {
	code := codePersonNotFound
	return errs.NewNotFoundError(MsgPersonNotFound, &code)
}

// storeFailure maps a store error to the client error: 404 for a missing
// record, otherwise a 500 carrying message and a sanitised detail.
func storeFailure(message string, err error) error {
	if errors.Is(err, repository.ErrPersonNotFound) {
		return notFound().WithCause(err)
	}

	return errs.NewInternalServerError().
		WithMessage(message).
		WithDetail(sqlerr.Describe(err)).
		WithCause(errors.WithStack(err))
}

// observe records the store call as a New Relic segment and warns about slow calls.
func (s *PersonService) observe(ctx context.Context, op string, start time.Time) {
	elapsed := time.Since(start)

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("store.operation", op)
		txn.AddAttribute("store.duration_ms", elapsed.Milliseconds())
	}

	threshold := s.slowThreshold()
	if threshold <= 0 || elapsed <= threshold {
		return
	}

	zerolog.Ctx(ctx).Warn().
		Str("operation", op).
		Str("store", s.server.Config.Store.Driver).
		Dur("duration", elapsed).
		Dur("threshold", threshold).
		Msg("slow store call")
}

func (s *PersonService) slowThreshold() time.Duration {
	if s.server == nil || s.server.Config == nil || s.server.Config.Observability == nil {
		return 0
	}
	return s.server.Config.Observability.Logging.SlowQueryThreshold
}
