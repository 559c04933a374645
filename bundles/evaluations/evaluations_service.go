package evaluations

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/satori/go.uuid"
)

// Service is the main struct exported by this evaluations Service.
type Service struct{}

// ByID queries an evaluation by id.
func ByID(tx *gorm.DB, id uint) (*Evaluation, *gz.ErrMsg) {
	var eval Evaluation
	if err := tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("evaluation_images.position asc, evaluation_images.id asc")
	}).Where("id = ?", id).First(&eval).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorIDNotFound, err)
	}
	return &eval, nil
}

// EvaluationList returns the paginated list of evaluations for a plant,
// newest first. user can be nil; it is only used to resolve MyReaction.
func (es *Service) EvaluationList(p *gz.PaginationRequest, tx *gorm.DB,
	plantID uint, user *users.User) (*EvaluationResponses, *gz.PaginationResult, *gz.ErrMsg) {

	// Sanity check: make sure the plant exists.
	if _, em := plants.ByID(tx, plantID); em != nil {
		return nil, nil, em
	}

	q := tx.Model(&Evaluation{}).Where("plant_id = ?", plantID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("evaluation_images.position asc, evaluation_images.id asc")
		}).
		Order("created_at desc, id", true)

	return es.listQuery(p, tx, q, user)
}

// AllEvaluationList returns the paginated list of every evaluation across
// all plants, newest first. Used by moderators.
func (es *Service) AllEvaluationList(p *gz.PaginationRequest, tx *gorm.DB,
	user *users.User) (*EvaluationResponses, *gz.PaginationResult, *gz.ErrMsg) {

	q := tx.Model(&Evaluation{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("evaluation_images.position asc, evaluation_images.id asc")
		}).
		Order("created_at desc, id", true)

	return es.listQuery(p, tx, q, user)
}

func (es *Service) listQuery(p *gz.PaginationRequest, tx, q *gorm.DB,
	user *users.User) (*EvaluationResponses, *gz.PaginationResult, *gz.ErrMsg) {

	var evals Evaluations
	pagination, err := gz.PaginateQuery(q, &evals, *p)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorInvalidPaginationRequest, err)
	}
	if !pagination.PageFound {
		empty := EvaluationResponses{}
		return &empty, pagination, nil
	}

	responses := EvaluationResponses{}
	for i := range evals {
		r, em := es.createResponse(tx, &evals[i], user)
		if em != nil {
			return nil, nil, em
		}
		responses = append(responses, *r)
	}
	return &responses, pagination, nil
}

// createResponse builds the REST representation of an evaluation, including
// reaction tallies and the requesting user's own reaction.
func (es *Service) createResponse(tx *gorm.DB, eval *Evaluation,
	user *users.User) (*EvaluationResponse, *gz.ErrMsg) {

	r := EvaluationResponse{
		ID:        eval.ID,
		PlantID:   eval.PlantID,
		CreatedAt: eval.CreatedAt,
	}
	if eval.Username != nil {
		r.Username = *eval.Username
	}
	if eval.Polarity != nil {
		r.Polarity = *eval.Polarity
	}
	if eval.Comment != nil {
		r.Comment = *eval.Comment
	}
	for i := range eval.Images {
		if url := resolveImageURL(&eval.Images[i]); url != nil {
			r.ImageURLs = append(r.ImageURLs, *url)
		}
	}

	var rows []struct {
		Polarity string
		Total    int
	}
	err := tx.Table("reactions").Select("polarity, COUNT(*) AS total").
		Where("evaluation_id = ? AND deleted_at IS NULL", eval.ID).
		Group("polarity").Scan(&rows).Error
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}
	for _, row := range rows {
		switch row.Polarity {
		case plants.PolarityGood:
			r.GoodReactions = row.Total
		case plants.PolarityBad:
			r.BadReactions = row.Total
		}
	}

	if user != nil {
		var reaction Reaction
		if q := tx.Where("evaluation_id = ? AND user_id = ?", eval.ID, user.ID).
			First(&reaction); q.Error == nil && reaction.Polarity != nil {
			r.MyReaction = *reaction.Polarity
		}
	}

	return &r, nil
}

func resolveImageURL(img *EvaluationImage) *string {
	if globals.Bucket == nil || img.FilePath == nil {
		return nil
	}
	url, err := globals.Bucket.GetURL(context.Background(), "evaluations", *img.FilePath)
	if err != nil {
		return nil
	}
	return url
}

// CreateEvaluation adds a safety report to a plant. The evaluation row and
// its image rows are written in the request transaction; object storage
// uploads happen last.
func (es *Service) CreateEvaluation(ctx context.Context, tx *gorm.DB,
	plantID uint, ce CreateEvaluation, images []*plants.ImageFile,
	user *users.User) (*EvaluationResponse, *gz.ErrMsg) {

	if user == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}

	if ce.Polarity != plants.PolarityGood && ce.Polarity != plants.PolarityBad {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
			[]string{"polarity"})
	}
	if ce.Comment != nil && len(*ce.Comment) > globals.MaxCommentLength {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
			[]string{"comment"})
	}

	// Sanity check: make sure the plant exists.
	if _, em := plants.ByID(tx, plantID); em != nil {
		return nil, em
	}

	eval := Evaluation{
		PlantID:  plantID,
		UserID:   &user.ID,
		Username: user.Username,
		Polarity: &ce.Polarity,
		Comment:  ce.Comment,
	}
	if err := tx.Create(&eval).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	for i, image := range images {
		filePath := fmt.Sprintf("%d/%s%s", eval.ID, uuid.NewV4().String(),
			strings.ToLower(filepath.Ext(image.Name)))
		if _, err := globals.Bucket.Upload(ctx, image.Body, "evaluations", filePath); err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
		}
		img := EvaluationImage{
			EvaluationID: eval.ID,
			FilePath:     &filePath,
			Position:     i,
		}
		if err := tx.Create(&img).Error; err != nil {
			// The transaction rolls back but the uploaded object stays
			// behind.
			gz.LoggerFromContext(ctx).Error("Orphaned evaluation image in object storage: ", filePath)
			return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
		}
		eval.Images = append(eval.Images, img)
	}

	gz.LoggerFromContext(ctx).Info("New evaluation created. Plant=", plantID,
		" Polarity=", ce.Polarity, " User=", *user.Username)

	// The plant list carries derived evaluation counts.
	plants.FlushListCache(ctx)

	return es.createResponse(tx, &eval, user)
}

// RemoveEvaluation removes an evaluation and its reactions. Only the author
// or a moderator can remove an evaluation.
func (es *Service) RemoveEvaluation(ctx context.Context, tx *gorm.DB, id uint,
	user *users.User) *gz.ErrMsg {

	if user == nil {
		return gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}

	eval, em := ByID(tx, id)
	if em != nil {
		return em
	}

	isAuthor := eval.UserID != nil && *eval.UserID == user.ID
	if !isAuthor && !globals.Permissions.IsAdmin(*user.Username) {
		return gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	if err := tx.Where("evaluation_id = ?", eval.ID).Delete(&Reaction{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	if err := tx.Where("evaluation_id = ?", eval.ID).Delete(&EvaluationImage{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	if err := tx.Delete(eval).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}

	gz.LoggerFromContext(ctx).Info("Evaluation removed. Id=", eval.ID,
		" By=", *user.Username)

	plants.FlushListCache(ctx)
	return nil
}

// ApplyUserReaction records the user's reaction to an evaluation with a
// read-before-write upsert: no existing row creates one, an existing row
// with the other polarity is updated in place, and an existing row with the
// same polarity is left untouched. Clients undo a reaction with
// RemoveUserReaction, never by re-sending the same polarity.
func (es *Service) ApplyUserReaction(ctx context.Context, tx *gorm.DB, evalID uint,
	polarity string, user *users.User) (*Reaction, *gz.ErrMsg) {

	if user == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	if polarity != plants.PolarityGood && polarity != plants.PolarityBad {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
			[]string{"polarity"})
	}

	// Sanity check: make sure the evaluation exists.
	if _, em := ByID(tx, evalID); em != nil {
		return nil, em
	}

	var reaction Reaction
	q := tx.Where("evaluation_id = ? AND user_id = ?", evalID, user.ID).
		First(&reaction)
	if q.Error != nil {
		if !q.RecordNotFound() {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
		}
		reaction = Reaction{
			EvaluationID: evalID,
			UserID:       user.ID,
			Polarity:     &polarity,
		}
		if err := tx.Create(&reaction).Error; err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
		}
		return &reaction, nil
	}

	if reaction.Polarity != nil && *reaction.Polarity == polarity {
		// Same polarity twice is a no-op, not a toggle.
		return &reaction, nil
	}
	if err := tx.Model(&reaction).Update("Polarity", polarity).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	return &reaction, nil
}

// RemoveUserReaction removes the user's reaction from an evaluation.
// Removing an absent reaction is a no-op.
func (es *Service) RemoveUserReaction(ctx context.Context, tx *gorm.DB, evalID uint,
	user *users.User) *gz.ErrMsg {

	if user == nil {
		return gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}

	// Sanity check: make sure the evaluation exists.
	if _, em := ByID(tx, evalID); em != nil {
		return em
	}

	if err := tx.Where("evaluation_id = ? AND user_id = ?", evalID, user.ID).
		Delete(&Reaction{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return nil
}
