package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/person-api/internal/config"
	"github.com/deppfellow/person-api/internal/handler"
	"github.com/deppfellow/person-api/internal/lib/objectid"
	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/deppfellow/person-api/internal/repository"
	"github.com/deppfellow/person-api/internal/repository/mocks"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/service"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type personBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Person personBody `json:"person"`
	} `json:"data"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(driver string) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Store:         config.StoreConfig{Driver: driver},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newRouter(t *testing.T, s *server.Server, repos *repository.Repositories) http.Handler {
	t.Helper()

	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	return rec, res
}

// PersonAPISuite exercises the persons API end to end on the memory store.
type PersonAPISuite struct {
	suite.Suite
	router http.Handler
}

func (s *PersonAPISuite) SetupTest() {
	srv := newTestServer(config.StoreDriverMemory)
	repos, err := repository.NewRepositories(srv)
	s.Require().NoError(err)

	s.router = newRouter(s.T(), srv, repos)
}

func (s *PersonAPISuite) create(name string) personBody {
	rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", `{"name":"`+name+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Require().NotNil(res.Data)
	return res.Data.Person
}

func (s *PersonAPISuite) TestCreateThenGet() {
	created := s.create("Ada Lovelace")
	s.True(objectid.IsValid(created.ID))

	rec, res := do(s.T(), s.router, http.MethodGet, "/api/v1/persons/"+created.ID, "")
	s.Equal(http.StatusOK, rec.Code)
	s.True(res.Status)
	s.Equal("Success: Person found", res.Message)
	s.Equal(created, res.Data.Person)
}

func (s *PersonAPISuite) TestCreateEnvelope() {
	rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", `{"name":"Grace"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.True(res.Status)
	s.Equal("Person was created successfully", res.Message)
	s.Equal("Grace", res.Data.Person.Name)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *PersonAPISuite) TestCreateWithoutName() {
	for _, body := range []string{`{}`, `{"name":""}`, `{"name":"   "}`} {
		rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", body)
		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.False(res.Status)
		s.Equal("Please input person name", res.Message)
		s.Nil(res.Data)
	}
}

func (s *PersonAPISuite) TestCreateNameTooLong() {
	rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", `{"name":"`+strings.Repeat("a", 256)+`"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Validation failed", res.Message)
	s.Require().Len(res.Errors, 1)
	s.Equal("name", res.Errors[0].Field)
	s.Equal("must not exceed 255 characters", res.Errors[0].Message)
}

func (s *PersonAPISuite) TestNameWithNULRejected() {
	rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", `{"name":"Ada\u0000"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Validation failed", res.Message)
	s.Require().Len(res.Errors, 1)
	s.Equal("must not contain NUL characters", res.Errors[0].Message)

	created := s.create("Ada")
	rec, res = do(s.T(), s.router, http.MethodPut, "/api/v1/persons/"+created.ID, `{"name":"\u0000"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Validation failed", res.Message)
}

func (s *PersonAPISuite) TestCreateMalformedJSON() {
	rec, res := do(s.T(), s.router, http.MethodPost, "/api/v1/persons", `{"name":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(res.Status)
	s.NotEmpty(res.Message)
}

func (s *PersonAPISuite) TestGetInvalidID() {
	rec, res := do(s.T(), s.router, http.MethodGet, "/api/v1/persons/123", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Sorry, Id is Invalid", res.Message)
}

func (s *PersonAPISuite) TestGetUnknownID() {
	rec, res := do(s.T(), s.router, http.MethodGet, "/api/v1/persons/"+objectid.New(), "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(res.Status)
	s.Equal("Could not find person", res.Message)
}

func (s *PersonAPISuite) TestUpdate() {
	created := s.create("Alan")

	rec, res := do(s.T(), s.router, http.MethodPut, "/api/v1/persons/"+created.ID, `{"name":"Alan Turing"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Success: Person updated", res.Message)
	s.Equal(created.ID, res.Data.Person.ID)
	s.Equal("Alan Turing", res.Data.Person.Name)

	_, res = do(s.T(), s.router, http.MethodGet, "/api/v1/persons/"+created.ID, "")
	s.Equal("Alan Turing", res.Data.Person.Name)
}

func (s *PersonAPISuite) TestUpdateInvalid() {
	created := s.create("Alan")

	cases := []struct{ id, body string }{
		{"123", `{"name":"Alan"}`},
		{created.ID, `{"name":""}`},
		{created.ID, `{}`},
	}
	for _, tc := range cases {
		rec, res := do(s.T(), s.router, http.MethodPut, "/api/v1/persons/"+tc.id, tc.body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Error: Id or name is Invalid", res.Message)
	}

	_, res := do(s.T(), s.router, http.MethodGet, "/api/v1/persons/"+created.ID, "")
	s.Equal("Alan", res.Data.Person.Name)
}

func (s *PersonAPISuite) TestUpdateUnknownID() {
	rec, res := do(s.T(), s.router, http.MethodPut, "/api/v1/persons/"+objectid.New(), `{"name":"Nobody"}`)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find person", res.Message)
}

func (s *PersonAPISuite) TestDelete() {
	created := s.create("Edsger")

	rec, _ := do(s.T(), s.router, http.MethodDelete, "/api/v1/persons/"+created.ID, "")
	s.Equal(http.StatusNoContent, rec.Code)
	s.Zero(rec.Body.Len())

	rec, res := do(s.T(), s.router, http.MethodGet, "/api/v1/persons/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find person", res.Message)

	rec, res = do(s.T(), s.router, http.MethodDelete, "/api/v1/persons/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find person", res.Message)
}

func (s *PersonAPISuite) TestDeleteInvalidID() {
	rec, res := do(s.T(), s.router, http.MethodDelete, "/api/v1/persons/xyz", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Error: Id is Invalid", res.Message)
}

func (s *PersonAPISuite) TestUnknownRoute() {
	rec, res := do(s.T(), s.router, http.MethodGet, "/api/v1/people", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(res.Status)
	s.Equal("Route not found", res.Message)
}

func (s *PersonAPISuite) TestStatus() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"healthy"`)
	s.Contains(rec.Body.String(), `"store":"memory"`)
}

func TestPersonAPI(t *testing.T) {
	suite.Run(t, new(PersonAPISuite))
}

func TestPersonAPI_StoreFailureIsSanitised(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPersonRepository(ctrl)

	srv := newTestServer(config.StoreDriverMemory)
	router := newRouter(t, srv, &repository.Repositories{Person: repo})

	repo.EXPECT().
		Create(gomock.Any(), "Ada").
		Return(nil, errors.New("dial tcp 10.0.0.7:5432: connection refused"))

	rec, res := do(t, router, http.MethodPost, "/api/v1/persons", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, res.Status)
	assert.Equal(t, "Error person not created", res.Message)
	require.NotNil(t, res.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Error.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func TestPersonAPI_StoreTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPersonRepository(ctrl)

	srv := newTestServer(config.StoreDriverMemory)
	router := newRouter(t, srv, &repository.Repositories{Person: repo})

	repo.EXPECT().
		FindByIDAndDelete(gomock.Any(), gomock.Any()).
		Return(nil, errors.Wrap(context.DeadlineExceeded, "delete person"))

	rec, res := do(t, router, http.MethodDelete, "/api/v1/persons/"+objectid.New(), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error: Could not delete person", res.Message)
	require.NotNil(t, res.Error)
	assert.Equal(t, "STORE_TIMEOUT", res.Error.Code)
}

func TestStatus_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	srv := newTestServer(config.StoreDriverRedis)
	srv.Redis = client

	repos, err := repository.NewRepositories(srv)
	require.NoError(t, err)
	router := newRouter(t, srv, repos)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":{`)

	mr.Close()

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

// failingWrites reads through to a real store and fails every mutation.
type failingWrites struct {
	repository.PersonRepository
	err error
}

func (f *failingWrites) FindByIDAndUpdate(ctx context.Context, id, name string) (*person.Person, error) {
	return nil, f.err
}

func (f *failingWrites) FindByIDAndDelete(ctx context.Context, id string) (*person.Person, error) {
	return nil, f.err
}

func TestPersonAPI_FailedWritesLeaveRecordUnchanged(t *testing.T) {
	srv := newTestServer(config.StoreDriverMemory)
	store := repository.NewMemoryPersonRepository()

	healthy := newRouter(t, srv, &repository.Repositories{Person: store})
	failing := newRouter(t, srv, &repository.Repositories{
		Person: &failingWrites{PersonRepository: store, err: errors.New("write failed")},
	})

	rec, res := do(t, healthy, http.MethodPost, "/api/v1/persons", `{"name":"Ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := res.Data.Person.ID

	rec, res = do(t, failing, http.MethodPut, "/api/v1/persons/"+id, `{"name":"Grace"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error: Could not update person", res.Message)

	rec, res = do(t, failing, http.MethodGet, "/api/v1/persons/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", res.Data.Person.Name)

	rec, res = do(t, failing, http.MethodDelete, "/api/v1/persons/"+id, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error: Could not delete person", res.Message)

	rec, res = do(t, healthy, http.MethodGet, "/api/v1/persons/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, res.Data.Person.ID)
	assert.Equal(t, "Ada", res.Data.Person.Name)
}
