package handler

import (
	"net/http"

	"github.com/deppfellow/person-api/internal/model"
	"github.com/deppfellow/person-api/internal/model/person"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/service"
	"github.com/labstack/echo/v4"
)

// PersonHandler serves the /persons resource.
type PersonHandler struct {
	Handler
	personService *service.PersonService
}

func NewPersonHandler(s *server.Server, personService *service.PersonService) *PersonHandler {
	return &PersonHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

// CreateRoute serves POST /persons. Every route runs the bind/validate
// pipeline with a fresh payload.
func (h *PersonHandler) CreateRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.CreatePerson, http.StatusCreated)
}

func (h *PersonHandler) GetByIDRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.GetPersonByID, http.StatusOK)
}

func (h *PersonHandler) UpdateRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.UpdatePerson, http.StatusOK)
}

func (h *PersonHandler) DeleteRoute() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.DeletePerson, http.StatusNoContent)
}

func (h *PersonHandler) CreatePerson(c echo.Context, payload *person.CreatePersonPayload) (*model.Envelope, error) {
	p, err := h.personService.CreatePerson(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return model.Success(service.MsgPersonCreated, person.Data{Person: p}), nil
}

func (h *PersonHandler) GetPersonByID(c echo.Context, payload *person.GetPersonByIDPayload) (*model.Envelope, error) {
	p, err := h.personService.GetPersonByID(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return model.Success(service.MsgPersonFound, person.Data{Person: p}), nil
}

func (h *PersonHandler) UpdatePerson(c echo.Context, payload *person.UpdatePersonPayload) (*model.Envelope, error) {
	p, err := h.personService.UpdatePerson(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return model.Success(service.MsgPersonUpdated, person.Data{Person: p}), nil
}

// DeletePerson responds 204 without a body; the success message is logged by the service.
func (h *PersonHandler) DeletePerson(c echo.Context, payload *person.DeletePersonPayload) error {
	_, err := h.personService.DeletePerson(c.Request().Context(), payload)
	return err
}
