package person

import (
	"strings"

	"github.com/deppfellow/person-api/internal/validation"
)

// ------------------------------------------------------------

type CreatePersonPayload struct {
	Name string `json:"name" validate:"max=255,nonul"`
}

func (p *CreatePersonPayload) Validate() error {
	return validation.Struct(p)
}

// HasName reports whether a non-blank name was supplied.
func (p *CreatePersonPayload) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// ------------------------------------------------------------

type GetPersonByIDPayload struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (p *GetPersonByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type UpdatePersonPayload struct {
	ID   string `param:"id" json:"-" validate:"required"`
	Name string `json:"name" validate:"max=255,nonul"`
}

func (p *UpdatePersonPayload) Validate() error {
	return validation.Struct(p)
}

// HasName reports whether a non-blank name was supplied.
func (p *UpdatePersonPayload) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// ------------------------------------------------------------

type DeletePersonPayload struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (p *DeletePersonPayload) Validate() error {
	return validation.Struct(p)
}
