package plants

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Polarity values shared by evaluations and the derived plant counters.
const (
	// PolarityGood marks a "my cat was fine" report.
	PolarityGood = "good"
	// PolarityBad marks a "my cat got sick" report.
	PolarityBad = "bad"
)

// Plant represents a houseplant registered by the community. Safety counters
// (good/bad) are never stored on this row; they are derived from the
// evaluations table on every read.
//
// swagger:model
type Plant struct {
	gorm.Model

	// Added 2 milliseconds to DeletedAt field
	DeletedAt *time.Time `gorm:"type:timestamp(2) NULL" sql:"index" json:"-"`

	// The name of the plant. Unique among plants.
	Name *string `gorm:"not null;unique" json:"name,omitempty" validate:"required,max=50,noforwardslash,nopercent"`

	// Unique identifier
	UUID *string `json:"-"`

	// Optional taxonomy
	ScientificName *string `json:"scientific_name,omitempty"`
	Family         *string `json:"family,omitempty"`
	Genus          *string `json:"genus,omitempty"`
	Species        *string `json:"species,omitempty"`

	// A description of the plant (max 65,535 chars)
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// The username of the user that registered the plant
	Creator *string `json:"creator,omitempty"`

	// Ordered photos of the plant
	Images PlantImages `json:"images,omitempty"`
}

// Plants is an slice of Plant
// swagger:model
type Plants []Plant

// PlantImage is a photo of a plant, stored in object storage.
//
// swagger:model
type PlantImage struct {
	gorm.Model

	PlantID uint `json:"-"`

	// Path of the image inside the plants bucket
	FilePath *string `json:"-"`

	// Resolved URL the image can be fetched from
	URL *string `gorm:"-" json:"url,omitempty"`

	// Display order, ascending
	Position int `json:"position"`
}

// PlantImages is a slice of PlantImage
// swagger:model
type PlantImages []PlantImage

// PlantFavorite marks a plant as favorited by a user. One row per
// (plant, user).
type PlantFavorite struct {
	ID      uint `gorm:"primary_key" json:"-"`
	PlantID uint `json:"-"`
	UserID  uint `json:"-"`
}

// PlantHave marks a plant as owned by a user. One row per (plant, user).
type PlantHave struct {
	ID      uint `gorm:"primary_key" json:"-"`
	PlantID uint `json:"-"`
	UserID  uint `json:"-"`
}

// CreatePlant encapsulates data required to register a plant
type CreatePlant struct {
	// The name of the plant
	Name string `json:"name" validate:"required,max=50,noforwardslash,nopercent" form:"name"`
	// Optional taxonomy
	ScientificName *string `json:"scientific_name,omitempty" form:"scientific_name"`
	Family         *string `json:"family,omitempty" form:"family"`
	Genus          *string `json:"genus,omitempty" form:"genus"`
	Species        *string `json:"species,omitempty" form:"species"`
	// Optional description
	Description *string `json:"description,omitempty" form:"description"`
}

// UpdatePlant encapsulates data that can be updated in a plant
type UpdatePlant struct {
	ScientificName *string `json:"scientific_name,omitempty" form:"scientific_name"`
	Family         *string `json:"family,omitempty" form:"family"`
	Genus          *string `json:"genus,omitempty" form:"genus"`
	Species        *string `json:"species,omitempty" form:"species"`
	Description    *string `json:"description,omitempty" form:"description"`
}

// IsEmpty returns true is the struct is empty.
func (up UpdatePlant) IsEmpty() bool {
	return up.ScientificName == nil && up.Family == nil && up.Genus == nil &&
		up.Species == nil && up.Description == nil
}

// PlantResponse is the list representation of a plant: the row plus the
// derived safety counters and the first image, if any.
//
// swagger:model
type PlantResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	GoodCount int       `json:"good_count"`
	BadCount  int       `json:"bad_count"`
	ImageURL  string    `json:"image_url,omitempty"`
}

// PlantResponses is a slice of PlantResponse
// swagger:model
type PlantResponses []PlantResponse

// PlantDetailResponse extends PlantResponse with the full row and the
// requesting user's relationship to the plant.
//
// swagger:model
type PlantDetailResponse struct {
	Plant     Plant `json:"plant"`
	GoodCount int   `json:"good_count"`
	BadCount  int   `json:"bad_count"`
	// True if the requesting user favorited / has this plant, or already
	// evaluated it. Always false for anonymous requests.
	Favorited bool `json:"favorited"`
	Have      bool `json:"have"`
	Evaluated bool `json:"evaluated"`
}

// Valid plant list sort orders. Unknown values fall back to SortByName.
const (
	SortByName           = "name"
	SortByNameDesc       = "name_desc"
	SortByCreatedAt      = "created_at"
	SortByCreatedAtDesc  = "created_at_desc"
	SortByEvaluationDesc = "evaluation_desc"
)

// Valid plant list safety filters.
const (
	FilterAll = "all"
	// FilterSafe keeps plants with at least one good report and no bad
	// majority.
	FilterSafe = "safe"
	// FilterDanger keeps plants where bad reports outnumber good ones.
	FilterDanger = "danger"
)

// QueryForPlants returns a gorm query configured to query Plants with
// preloaded relations.
func QueryForPlants(q *gorm.DB) *gorm.DB {
	return q.Model(&Plant{}).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("plant_images.position asc, plant_images.id asc")
	})
}
