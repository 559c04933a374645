package evaluations

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Evaluation is a safety report left on a plant: "my cat was fine with this"
// (good) or "my cat got sick" (bad), with an optional comment and photos.
// The user id is nullable; evaluations survive the removal of their author.
//
// swagger:model
type Evaluation struct {
	gorm.Model

	PlantID uint `json:"plant_id"`

	UserID *uint `json:"-"`

	// The username of the author, kept for display after the author row is
	// soft-deleted.
	Username *string `json:"username,omitempty"`

	// good or bad
	Polarity *string `json:"polarity,omitempty" validate:"required,oneof=good bad"`

	Comment *string `gorm:"type:text" json:"comment,omitempty" validate:"omitempty,max=1000"`

	Images EvaluationImages `json:"images,omitempty"`

	Reactions Reactions `json:"-"`
}

// Evaluations is a slice of Evaluation
// swagger:model
type Evaluations []Evaluation

// EvaluationImage is a photo attached to an evaluation, stored in object
// storage.
//
// swagger:model
type EvaluationImage struct {
	gorm.Model

	EvaluationID uint `json:"-"`

	// Path of the image inside the evaluations bucket
	FilePath *string `json:"-"`

	// Resolved URL the image can be fetched from
	URL *string `gorm:"-" json:"url,omitempty"`

	// Display order, ascending
	Position int `json:"position"`
}

// EvaluationImages is a slice of EvaluationImage
// swagger:model
type EvaluationImages []EvaluationImage

// Reaction is a reader's vote on an evaluation ("helpful" good / "not
// helpful" bad). At most one per (evaluation, user); enforced by a
// read-before-write upsert, not a database constraint.
type Reaction struct {
	gorm.Model

	EvaluationID uint `json:"-"`

	UserID uint `json:"-"`

	// good or bad
	Polarity *string `json:"polarity,omitempty" validate:"required,oneof=good bad"`
}

// Reactions is a slice of Reaction
type Reactions []Reaction

// CreateEvaluation encapsulates data required to create an evaluation
type CreateEvaluation struct {
	// good or bad
	Polarity string `json:"polarity" validate:"required,oneof=good bad" form:"polarity"`
	// Optional comment
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000" form:"comment"`
}

// ApplyReaction encapsulates data required to react to an evaluation
type ApplyReaction struct {
	// good or bad
	Polarity string `json:"polarity" validate:"required,oneof=good bad" form:"polarity"`
}

// EvaluationResponse is the REST representation of an evaluation: the row
// plus its reaction tallies and the requesting user's own reaction, if any.
//
// swagger:model
type EvaluationResponse struct {
	ID            uint      `json:"id"`
	PlantID       uint      `json:"plant_id"`
	Username      string    `json:"username,omitempty"`
	Polarity      string    `json:"polarity"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ImageURLs     []string  `json:"image_urls,omitempty"`
	GoodReactions int       `json:"good_reactions"`
	BadReactions  int       `json:"bad_reactions"`
	// The requesting user's reaction polarity, empty when absent or
	// anonymous.
	MyReaction string `json:"my_reaction,omitempty"`
}

// EvaluationResponses is a slice of EvaluationResponse
// swagger:model
type EvaluationResponses []EvaluationResponse
