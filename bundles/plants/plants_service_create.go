package plants

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/gosimple/slug"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/permissions"
	"github.com/satori/go.uuid"
)

// ImageFile is an image received in a multipart request, pending upload to
// object storage.
type ImageFile struct {
	Body io.Reader
	// Original filename; only its extension is kept.
	Name string
}

// CreatePlant registers a new plant.
// The duplicate guard runs before the insert: if a plant with the exact same
// name already exists the registration is rejected and the existing plant id
// is reported back, so the frontend can link to it. The guard and the insert
// are not atomic; a concurrent registration of the same name is stopped by
// the unique index on the name column instead.
// The plant row and its optional image row are written in the request
// transaction; the object storage upload happens last so a failed upload
// aborts the whole registration.
func (ps *Service) CreatePlant(ctx context.Context, tx *gorm.DB, cp CreatePlant,
	image *ImageFile, creator *users.User) (*Plant, *gz.ErrMsg) {

	if creator == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}

	cp.Name = strings.TrimSpace(cp.Name)
	if cp.Name == "" || len(cp.Name) > globals.MaxPlantNameLength {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
			[]string{"name"})
	}

	// Sanity check: plant names are unique site-wide.
	existing, em := ByName(tx, cp.Name)
	if em != nil {
		return nil, em
	}
	if existing != nil {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorResourceExists, nil,
			[]string{fmt.Sprint(existing.ID)})
	}

	uuidStr := uuid.NewV4().String()
	plant := Plant{
		Name:           &cp.Name,
		UUID:           &uuidStr,
		ScientificName: cp.ScientificName,
		Family:         cp.Family,
		Genus:          cp.Genus,
		Species:        cp.Species,
		Description:    cp.Description,
		Creator:        creator.Username,
	}

	if err := tx.Create(&plant).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	// The creator can edit and remove their plant.
	if ok, em := globals.Permissions.AddPermission(*creator.Username,
		PlantResource(plant.ID), permissions.Write); !ok {
		return nil, em
	}

	if image != nil {
		if _, em := ps.addPlantImage(ctx, tx, &plant, image, 0); em != nil {
			return nil, em
		}
	}

	if globals.ElasticSearch != nil {
		ElasticSearchUpdatePlant(ctx, plant)
	}
	FlushListCache(ctx)

	gz.LoggerFromContext(ctx).Info("A new plant has been created. Id=",
		plant.ID, " Name=", cp.Name, " Creator=", *creator.Username)

	return &plant, nil
}

// addPlantImage uploads an image to the plants bucket and records its row.
// The storage path is keyed by the plant id so concurrent uploads never
// collide.
func (ps *Service) addPlantImage(ctx context.Context, tx *gorm.DB, plant *Plant,
	image *ImageFile, position int) (*PlantImage, *gz.ErrMsg) {

	if globals.Bucket == nil {
		return nil, gz.NewErrorMessage(gz.ErrorUnexpected)
	}

	name := "plant"
	if plant.Name != nil {
		name = slug.Make(*plant.Name)
	}
	filePath := fmt.Sprintf("%d/%s-%s%s", plant.ID, name,
		uuid.NewV4().String(), strings.ToLower(filepath.Ext(image.Name)))

	if _, err := globals.Bucket.Upload(ctx, image.Body, "plants", filePath); err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}

	img := PlantImage{
		PlantID:  plant.ID,
		FilePath: &filePath,
		Position: position,
	}
	if err := tx.Create(&img).Error; err != nil {
		// The transaction rolls back but the uploaded object stays behind.
		gz.LoggerFromContext(ctx).Error("Orphaned plant image in object storage: ", filePath)
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	plant.Images = append(plant.Images, img)
	return &img, nil
}

// AddPlantImage appends a photo to an existing plant. Only the creator or a
// moderator can add photos.
func (ps *Service) AddPlantImage(ctx context.Context, tx *gorm.DB, id uint,
	image *ImageFile, user *users.User) (*PlantImage, *gz.ErrMsg) {

	plant, em := ByID(tx, id)
	if em != nil {
		return nil, em
	}
	if ok, em := canEditPlant(plant, user); !ok {
		return nil, em
	}

	var maxPos struct{ Position int }
	tx.Table("plant_images").Select("COALESCE(MAX(position), -1) AS position").
		Where("plant_id = ? AND deleted_at IS NULL", plant.ID).Scan(&maxPos)

	img, em := ps.addPlantImage(ctx, tx, plant, image, maxPos.Position+1)
	if em != nil {
		return nil, em
	}
	FlushListCache(ctx)
	return img, nil
}
