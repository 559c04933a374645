package users

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Pet is a cat (or other animal) registered on a user's profile. Pets are
// display-only; they exist so the frontend can personalize safety warnings.
//
// swagger:model
type Pet struct {
	gorm.Model

	// The user that owns this pet
	Owner *string `json:"owner,omitempty"`

	Name *string `json:"name,omitempty" validate:"required,max=30,alphanumspace"`

	// Optional breed, free text
	Breed *string `json:"breed,omitempty"`

	Birthday *time.Time `json:"birthday,omitempty"`

	// ImageURL points at the pet's photo in object storage.
	ImageURL *string `json:"image_url,omitempty"`
}

// Pets is a slice of Pet
// swagger:model
type Pets []Pet

// CreatePetInput encapsulates the data required to register a pet
type CreatePetInput struct {
	Name     string     `json:"name" validate:"required,max=30,alphanumspace" form:"name"`
	Breed    *string    `json:"breed,omitempty" form:"breed"`
	Birthday *time.Time `json:"birthday,omitempty" form:"birthday"`
}

// UpdatePetInput encapsulates the data that can be updated in a pet
type UpdatePetInput struct {
	Name     *string    `json:"name,omitempty" validate:"omitempty,max=30,alphanumspace" form:"name"`
	Breed    *string    `json:"breed,omitempty" form:"breed"`
	Birthday *time.Time `json:"birthday,omitempty" form:"birthday"`
}

// IsEmpty returns true is the struct is empty.
func (up UpdatePetInput) IsEmpty() bool {
	return up.Name == nil && up.Breed == nil && up.Birthday == nil
}
