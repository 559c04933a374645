package users

import (
	"context"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// PetList returns the paginated list of pets owned by the given username.
func PetList(p *gz.PaginationRequest, tx *gorm.DB, owner string) (*Pets,
	*gz.PaginationResult, *gz.ErrMsg) {

	// Sanity check: make sure the owner exists.
	if _, em := ByUsername(tx, owner, false); em != nil {
		return nil, nil, em
	}

	var pets Pets
	q := tx.Model(&Pet{}).Where("owner = ?", owner).Order("created_at asc, id")

	pagination, err := gz.PaginateQuery(q, &pets, *p)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorInvalidPaginationRequest, err)
	}
	if !pagination.PageFound {
		return nil, nil, gz.NewErrorMessage(gz.ErrorPaginationPageNotFound)
	}

	return &pets, pagination, nil
}

// CreatePet registers a new pet on the requesting user's profile.
func CreatePet(ctx context.Context, tx *gorm.DB, in *CreatePetInput,
	imageURL *string, reqUser *User) (*Pet, *gz.ErrMsg) {

	pet := Pet{
		Owner:    reqUser.Username,
		Name:     &in.Name,
		Breed:    in.Breed,
		Birthday: in.Birthday,
		ImageURL: imageURL,
	}
	if err := tx.Create(&pet).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	gz.LoggerFromContext(ctx).Info("New pet created. Owner=", *reqUser.Username,
		" Name=", in.Name)
	return &pet, nil
}

// UpdatePet updates a pet. Only the owner can update a pet.
func UpdatePet(ctx context.Context, tx *gorm.DB, petID uint, in *UpdatePetInput,
	imageURL *string, reqUser *User) (*Pet, *gz.ErrMsg) {

	pet, em := petByID(tx, petID)
	if em != nil {
		return nil, em
	}
	if *pet.Owner != *reqUser.Username {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	upd := tx.Model(pet)
	if in.Name != nil {
		upd.Update("Name", *in.Name)
	}
	if in.Breed != nil {
		upd.Update("Breed", *in.Breed)
	}
	if in.Birthday != nil {
		upd.Update("Birthday", *in.Birthday)
	}
	if imageURL != nil {
		upd.Update("ImageURL", *imageURL)
	}
	if upd.Error != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, upd.Error)
	}

	return pet, nil
}

// RemovePet removes a pet. Only the owner can remove a pet.
func RemovePet(ctx context.Context, tx *gorm.DB, petID uint,
	reqUser *User) (*Pet, *gz.ErrMsg) {

	pet, em := petByID(tx, petID)
	if em != nil {
		return nil, em
	}
	if *pet.Owner != *reqUser.Username {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	if err := tx.Delete(pet).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}

	gz.LoggerFromContext(ctx).Info("Pet removed. Owner=", *reqUser.Username,
		" Id=", petID)
	return pet, nil
}

func petByID(tx *gorm.DB, id uint) (*Pet, *gz.ErrMsg) {
	var pet Pet
	if err := tx.Where("id = ?", id).First(&pet).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorIDNotFound, err)
	}
	return &pet, nil
}
