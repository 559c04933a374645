package migrate

import (
	"context"
	"log"
	"strconv"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/evaluations"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/permissions"
)

// PlantCasbinPermissions grants the per-plant write policy to the creators of
// plants registered before casbin was in place. Guarded by an env variable so
// it only runs when explicitly requested.
func PlantCasbinPermissions(ctx context.Context, db *gorm.DB) {
	migrate, _ := gz.ReadEnvVar("NEKOSAFE_MIGRATE_CASBIN")
	if value, err := strconv.ParseBool(migrate); err != nil || !value {
		return
	}
	log.Println("[MIGRATION] Running Casbin Permissions migration script")

	var plantList plants.Plants
	if err := db.Model(&plants.Plant{}).Unscoped().Find(&plantList).Error; err != nil {
		log.Fatal("[MIGRATION] Error finding plants to add permissions", err)
	}
	for _, plant := range plantList {
		if plant.Creator == nil {
			continue
		}
		globals.Permissions.AddPermission(*plant.Creator,
			plants.PlantResource(plant.ID), permissions.Write)
	}
}

// EvaluationUsernamesFromUsers backfills the denormalized username column on
// evaluations that predate it, using the author's user row when it still
// exists.
func EvaluationUsernamesFromUsers(ctx context.Context, db *gorm.DB) {
	tx := db.Begin()
	var evalList evaluations.Evaluations
	if err := tx.Model(&evaluations.Evaluation{}).Where("username IS NULL").
		Find(&evalList).Error; err != nil {
		tx.Rollback()
		gz.LoggerFromContext(ctx).Error("[MIGRATION] Error finding evaluations to backfill", err)
		return
	}
	for _, eval := range evalList {
		if eval.UserID == nil {
			continue
		}
		var user users.User
		if err := tx.Where("id = ?", *eval.UserID).First(&user).Error; err != nil {
			continue
		}
		tx.Model(&eval).Update("Username", *user.Username)
	}
	if err := tx.Commit().Error; err != nil {
		gz.LoggerFromContext(ctx).Error("[MIGRATION] Error backfilling evaluation usernames", err)
	}
}
