package plants

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/permissions"
)

// Service is the main struct exported by this plants Service.
type Service struct{}

// plantListItem is the projection materialized by the fallback list routine:
// one row per candidate plant with its evaluation counters aggregated.
type plantListItem struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	Good      int
	Bad       int
}

// isBasicPlantListQuery returns true when the received query is a "basic"
// one: no name search, no safety filter, default sorting, and default (or
// first pages with default page size) pagination. Basic queries are served
// from memcache to reduce DB burden.
// Note: the PerPage default value is 20.
func isBasicPlantListQuery(p *gz.PaginationRequest, search, filter, order string) bool {
	return globals.QueryCache != nil && search == "" &&
		(filter == "" || filter == FilterAll) && (order == "" || order == SortByName) &&
		p != nil && (!p.PageRequested || (p.PageRequested && p.PerPage == 20))
}

// getPlantListCache attempts to get a query result from memcache.
func getPlantListCache(basicQuery bool, plantsCacheKey, paginationCacheKey string) (*PlantResponses, *gz.PaginationResult, bool) {
	if basicQuery {
		paginationItem, errPagination := globals.QueryCache.Get(paginationCacheKey)
		plantsItem, errPlants := globals.QueryCache.Get(plantsCacheKey)

		// If no errors, then unmarshal the bytes to the structs.
		// Otherwise the normal query will be performed
		if errPagination == nil && errPlants == nil {
			var paginationResult gz.PaginationResult
			var plantsResult PlantResponses

			errPagination = json.Unmarshal(paginationItem.Value, &paginationResult)
			errPlants = json.Unmarshal(plantsItem.Value, &plantsResult)

			if errPagination == nil && errPlants == nil {
				return &plantsResult, &paginationResult, true
			}
		}
	}
	return nil, nil, false
}

// FlushListCache invalidates all cached plant list queries. Invoked on every
// write that changes the list payload, including evaluation writes (the list
// carries derived evaluation counts).
func FlushListCache(ctx context.Context) {
	if globals.QueryCache == nil {
		return
	}
	if err := globals.QueryCache.DeleteAll(); err != nil {
		gz.LoggerFromContext(ctx).Error("Error flushing plant list cache", err)
	}
}

// PlantList returns a paginated list of plants.
// search is a case-insensitive substring match on the plant name (blank means
// no name filter). order is one of the SortBy constants (unknown values fall
// back to name ascending). filter is one of the Filter constants.
func (ps *Service) PlantList(p *gz.PaginationRequest, tx *gorm.DB, search,
	order, filter string) (*PlantResponses, *gz.PaginationResult, *gz.ErrMsg) {

	search = strings.TrimSpace(search)
	switch order {
	case SortByName, SortByNameDesc, SortByCreatedAt, SortByCreatedAtDesc,
		SortByEvaluationDesc:
	default:
		order = SortByName
	}
	switch filter {
	case FilterSafe, FilterDanger:
	default:
		filter = FilterAll
	}

	basicQuery := isBasicPlantListQuery(p, search, filter, order)

	paginationCacheKey := "plants_list_pagination"
	plantsCacheKey := "plants_list_plants"
	if p != nil && p.PageRequested && p.PerPage == 20 {
		paginationCacheKey = fmt.Sprintf("%s%d", paginationCacheKey, p.Page)
		plantsCacheKey = fmt.Sprintf("%s%d", plantsCacheKey, p.Page)
	}

	// Try the memory cache first
	plantListResult, paginationResult, cacheValid := getPlantListCache(basicQuery, plantsCacheKey, paginationCacheKey)
	if cacheValid {
		return plantListResult, paginationResult, nil
	}

	var responses *PlantResponses
	var pagination *gz.PaginationResult
	var em *gz.ErrMsg
	// The fast path delegates ordering and slicing to the database. It only
	// applies when no safety filter and no name search is requested; the
	// safety filter depends on derived counters the database rows don't
	// carry, so filtered queries take the in-memory fallback.
	if filter == FilterAll && search == "" {
		responses, pagination, em = ps.plantListFastPath(p, tx, order)
	} else {
		responses, pagination, em = ps.plantListFallback(p, tx, search, order, filter)
	}
	if em != nil {
		return nil, nil, em
	}

	// Cache the result if it's a basic query.
	if basicQuery {
		ctx := context.Background()

		paginationBytes, paginationErr := json.Marshal(pagination)
		if paginationErr != nil {
			gz.LoggerFromContext(ctx).Error("Error marshalling pagination result", paginationErr)
		}
		plantsBytes, plantsErr := json.Marshal(responses)
		if plantsErr != nil {
			gz.LoggerFromContext(ctx).Error("Error marshalling plant list result", plantsErr)
		}

		if paginationErr == nil && plantsErr == nil {
			if err := globals.QueryCache.Set(&memcache.Item{Key: paginationCacheKey, Value: paginationBytes}); err != nil {
				gz.LoggerFromContext(ctx).Error("Error caching plant pagination result", err)
			}
			if err := globals.QueryCache.Set(&memcache.Item{Key: plantsCacheKey, Value: plantsBytes}); err != nil {
				gz.LoggerFromContext(ctx).Error("Error caching plant list result", err)
			}
		}
	}

	return responses, pagination, nil
}

// plantListFastPath serves unfiltered, unsearched lists with a native
// order/offset/limit query plus a row count.
func (ps *Service) plantListFastPath(p *gz.PaginationRequest, tx *gorm.DB,
	order string) (*PlantResponses, *gz.PaginationResult, *gz.ErrMsg) {

	q := QueryForPlants(tx)
	// All orders tie-break on ascending id so pagination is stable.
	switch order {
	case SortByNameDesc:
		q = q.Order("name desc, id")
	case SortByCreatedAt:
		q = q.Order("created_at asc, id")
	case SortByCreatedAtDesc:
		q = q.Order("created_at desc, id")
	case SortByEvaluationDesc:
		q = q.Order("(SELECT COUNT(*) FROM evaluations WHERE " +
			"evaluations.plant_id = plants.id AND evaluations.deleted_at IS NULL) desc, id")
	default:
		q = q.Order("name asc, id")
	}

	var plantList Plants
	pagination, err := gz.PaginateQuery(q, &plantList, *p)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorInvalidPaginationRequest, err)
	}
	// A page beyond the last one yields an empty list, not an error.
	if !pagination.PageFound {
		empty := PlantResponses{}
		return &empty, pagination, nil
	}

	ids := make([]uint, 0, len(plantList))
	for _, plant := range plantList {
		ids = append(ids, plant.ID)
	}
	counts, em := loadEvaluationCounts(tx, ids)
	if em != nil {
		return nil, nil, em
	}

	responses := PlantResponses{}
	for _, plant := range plantList {
		pl := plant
		responses = append(responses, createPlantResponse(&pl, counts[pl.ID]))
	}
	return &responses, pagination, nil
}

// plantListFallback serves searched or safety-filtered lists. It materializes
// every candidate plant with its evaluation counters, filters and sorts in
// memory, slices the requested page, and then re-fetches the full rows for
// the page ids preserving the sorted order.
func (ps *Service) plantListFallback(p *gz.PaginationRequest, tx *gorm.DB,
	search, order, filter string) (*PlantResponses, *gz.PaginationResult, *gz.ErrMsg) {

	q := tx.Table("plants").
		Select("plants.id, plants.name, plants.created_at, "+
			"SUM(CASE WHEN evaluations.polarity = ? AND evaluations.deleted_at IS NULL THEN 1 ELSE 0 END) AS good, "+
			"SUM(CASE WHEN evaluations.polarity = ? AND evaluations.deleted_at IS NULL THEN 1 ELSE 0 END) AS bad",
			PolarityGood, PolarityBad).
		Joins("LEFT JOIN evaluations ON evaluations.plant_id = plants.id").
		Where("plants.deleted_at IS NULL").
		Group("plants.id, plants.name, plants.created_at")
	if search != "" {
		q = q.Where("LOWER(plants.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var items []plantListItem
	if err := q.Scan(&items).Error; err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}

	filtered := items[:0]
	for _, it := range items {
		if matchesSafetyFilter(it.Good, it.Bad, filter) {
			filtered = append(filtered, it)
		}
	}

	sortPlantListItems(filtered, order)

	page, perPage := pageBounds(p)
	pagination := gz.PaginationResult{
		Page:       int64(page),
		PerPage:    int64(perPage),
		URL:        p.URL,
		QueryCount: int64(len(filtered)),
		PageFound:  true,
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start >= len(filtered) {
		// Past the last page; skip the second query entirely.
		empty := PlantResponses{}
		return &empty, &pagination, nil
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	pageItems := filtered[start:end]

	ids := make([]uint, 0, len(pageItems))
	countsByID := map[uint]evaluationCounts{}
	for _, it := range pageItems {
		ids = append(ids, it.ID)
		countsByID[it.ID] = evaluationCounts{Good: it.Good, Bad: it.Bad}
	}

	var plantList Plants
	if err := QueryForPlants(tx).Where("id IN (?)", ids).Find(&plantList).Error; err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}
	// Restore the sorted order; IN (?) does not preserve it.
	byID := make(map[uint]*Plant, len(plantList))
	for i := range plantList {
		byID[plantList[i].ID] = &plantList[i]
	}

	responses := PlantResponses{}
	for _, it := range pageItems {
		plant, ok := byID[it.ID]
		if !ok {
			continue
		}
		responses = append(responses, createPlantResponse(plant, countsByID[it.ID]))
	}
	return &responses, &pagination, nil
}

// matchesSafetyFilter applies a Filter constant to a plant's derived
// counters. A plant is safe when it has at least one good report and goods
// are not outnumbered; it is dangerous when bad reports outnumber good ones.
func matchesSafetyFilter(good, bad int, filter string) bool {
	switch filter {
	case FilterSafe:
		return good > 0 && good >= bad
	case FilterDanger:
		return bad > good
	default:
		return true
	}
}

// sortPlantListItems sorts in place per the requested order. Every order
// tie-breaks on ascending id so that both list paths paginate identically.
func sortPlantListItems(items []plantListItem, order string) {
	less := func(a, b plantListItem) bool { return a.Name < b.Name }
	switch order {
	case SortByNameDesc:
		less = func(a, b plantListItem) bool { return a.Name > b.Name }
	case SortByCreatedAt:
		less = func(a, b plantListItem) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByCreatedAtDesc:
		less = func(a, b plantListItem) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case SortByEvaluationDesc:
		less = func(a, b plantListItem) bool { return a.Good+a.Bad > b.Good+b.Bad }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if less(items[i], items[j]) {
			return true
		}
		if less(items[j], items[i]) {
			return false
		}
		return items[i].ID < items[j].ID
	})
}

func pageBounds(p *gz.PaginationRequest) (page, perPage int) {
	page, perPage = 1, 20
	if p != nil && p.PageRequested {
		if p.Page > 0 {
			page = int(p.Page)
		}
		if p.PerPage > 0 {
			perPage = int(p.PerPage)
		}
	}
	return
}

// evaluationCounts holds the derived safety counters of a plant.
type evaluationCounts struct {
	Good int
	Bad  int
}

// loadEvaluationCounts aggregates evaluation polarities for the given plant
// ids in a single query.
func loadEvaluationCounts(tx *gorm.DB, ids []uint) (map[uint]evaluationCounts, *gz.ErrMsg) {
	counts := map[uint]evaluationCounts{}
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		PlantID uint
		Good    int
		Bad     int
	}
	err := tx.Table("evaluations").
		Select("plant_id, "+
			"SUM(CASE WHEN polarity = ? THEN 1 ELSE 0 END) AS good, "+
			"SUM(CASE WHEN polarity = ? THEN 1 ELSE 0 END) AS bad",
			PolarityGood, PolarityBad).
		Where("plant_id IN (?) AND deleted_at IS NULL", ids).
		Group("plant_id").Scan(&rows).Error
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}
	for _, r := range rows {
		counts[r.PlantID] = evaluationCounts{Good: r.Good, Bad: r.Bad}
	}
	return counts, nil
}

// createPlantResponse builds the list representation of a plant. The image
// URL is the first image by ascending display order, or absent.
func createPlantResponse(plant *Plant, counts evaluationCounts) PlantResponse {
	r := PlantResponse{
		ID:        plant.ID,
		CreatedAt: plant.CreatedAt,
		GoodCount: counts.Good,
		BadCount:  counts.Bad,
	}
	if plant.Name != nil {
		r.Name = *plant.Name
	}
	if len(plant.Images) > 0 {
		if url := resolveImageURL(&plant.Images[0]); url != nil {
			r.ImageURL = *url
		}
	}
	return r
}

// resolveImageURL presigns a fetch URL for the image. Returns nil when no
// object storage is configured.
func resolveImageURL(img *PlantImage) *string {
	if globals.Bucket == nil || img.FilePath == nil {
		return nil
	}
	url, err := globals.Bucket.GetURL(context.Background(), "plants", *img.FilePath)
	if err != nil {
		return nil
	}
	return url
}

// PlantResponsesByIDs builds list responses for the given plant ids,
// preserving the id order. Ids that no longer match a row are skipped. Used
// to materialize Elastic Search hits.
func PlantResponsesByIDs(tx *gorm.DB, ids []uint) (*PlantResponses, *gz.ErrMsg) {
	responses := PlantResponses{}
	if len(ids) == 0 {
		return &responses, nil
	}

	var plantList Plants
	if err := QueryForPlants(tx).Where("id IN (?)", ids).Find(&plantList).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}
	counts, em := loadEvaluationCounts(tx, ids)
	if em != nil {
		return nil, em
	}

	byID := make(map[uint]*Plant, len(plantList))
	for i := range plantList {
		byID[plantList[i].ID] = &plantList[i]
	}
	for _, id := range ids {
		plant, ok := byID[id]
		if !ok {
			continue
		}
		responses = append(responses, createPlantResponse(plant, counts[id]))
	}
	return &responses, nil
}

// ByID queries a plant by id.
func ByID(tx *gorm.DB, id uint) (*Plant, *gz.ErrMsg) {
	var plant Plant
	if err := QueryForPlants(tx).Where("plants.id = ?", id).First(&plant).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorIDNotFound, err)
	}
	return &plant, nil
}

// ByName queries a plant by its exact name. Returns nil without error when
// no plant matches.
func ByName(tx *gorm.DB, name string) (*Plant, *gz.ErrMsg) {
	var plant Plant
	q := tx.Where("name = ?", name).First(&plant)
	if q.Error != nil {
		if q.RecordNotFound() {
			return nil, nil
		}
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
	}
	return &plant, nil
}

// GetPlant returns the detail representation of a plant, including the
// requesting user's relationship flags. user can be nil.
func (ps *Service) GetPlant(tx *gorm.DB, id uint, user *users.User) (*PlantDetailResponse, *gz.ErrMsg) {
	plant, em := ByID(tx, id)
	if em != nil {
		return nil, em
	}
	for i := range plant.Images {
		plant.Images[i].URL = resolveImageURL(&plant.Images[i])
	}

	counts, em := loadEvaluationCounts(tx, []uint{plant.ID})
	if em != nil {
		return nil, em
	}

	response := PlantDetailResponse{
		Plant:     *plant,
		GoodCount: counts[plant.ID].Good,
		BadCount:  counts[plant.ID].Bad,
	}

	if user != nil {
		var fav PlantFavorite
		if q := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).
			First(&fav); !q.RecordNotFound() && q.Error == nil {
			response.Favorited = true
		}
		var have PlantHave
		if q := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).
			First(&have); !q.RecordNotFound() && q.Error == nil {
			response.Have = true
		}
		var evalCount int
		tx.Table("evaluations").
			Where("plant_id = ? AND user_id = ? AND deleted_at IS NULL", plant.ID, user.ID).
			Count(&evalCount)
		response.Evaluated = evalCount > 0
	}

	return &response, nil
}

// UpdatePlant edits an existing plant. Only the creator or a moderator can
// update a plant. The plant name itself is immutable; duplicate handling
// happens at registration time only.
func (ps *Service) UpdatePlant(ctx context.Context, tx *gorm.DB, id uint,
	up *UpdatePlant, user *users.User) (*Plant, *gz.ErrMsg) {

	plant, em := ByID(tx, id)
	if em != nil {
		return nil, em
	}

	if ok, em := canEditPlant(plant, user); !ok {
		return nil, em
	}

	if up.IsEmpty() {
		return nil, gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	}

	upd := tx.Model(plant)
	if up.ScientificName != nil {
		upd.Update("ScientificName", *up.ScientificName)
	}
	if up.Family != nil {
		upd.Update("Family", *up.Family)
	}
	if up.Genus != nil {
		upd.Update("Genus", *up.Genus)
	}
	if up.Species != nil {
		upd.Update("Species", *up.Species)
	}
	if up.Description != nil {
		upd.Update("Description", *up.Description)
	}
	if upd.Error != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, upd.Error)
	}

	if globals.ElasticSearch != nil {
		ElasticSearchUpdatePlant(ctx, *plant)
	}
	FlushListCache(ctx)

	gz.LoggerFromContext(ctx).Info("Plant updated. Id=", plant.ID)
	return plant, nil
}

// RemovePlant removes a plant and its dependent rows. Only the creator or a
// moderator can remove a plant.
func (ps *Service) RemovePlant(ctx context.Context, tx *gorm.DB, id uint,
	user *users.User) *gz.ErrMsg {

	plant, em := ByID(tx, id)
	if em != nil {
		return em
	}

	if ok, em := canEditPlant(plant, user); !ok {
		return em
	}

	// NOTE: images stay in object storage; the rows referencing them go away.
	if err := tx.Where("plant_id = ?", plant.ID).Delete(&PlantImage{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	if err := tx.Where("plant_id = ?", plant.ID).Delete(&PlantFavorite{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	if err := tx.Where("plant_id = ?", plant.ID).Delete(&PlantHave{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	if err := tx.Delete(plant).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}

	if ok, em := globals.Permissions.RemoveResource(PlantResource(plant.ID)); !ok {
		return em
	}

	if globals.ElasticSearch != nil {
		ElasticSearchRemovePlant(ctx, plant.ID)
	}
	FlushListCache(ctx)

	gz.LoggerFromContext(ctx).Info("Plant removed. Id=", plant.ID)
	return nil
}

// PlantResource is the casbin resource name of a plant.
func PlantResource(id uint) string {
	return fmt.Sprintf("plant_%d", id)
}

// canEditPlant authorizes plant writes: the creator (holding the casbin write
// policy granted at registration) or a moderator.
func canEditPlant(plant *Plant, user *users.User) (bool, *gz.ErrMsg) {
	if user == nil {
		return false, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	if ok, _ := globals.Permissions.IsAuthorized(*user.Username,
		PlantResource(plant.ID), permissions.Write); ok {
		return true, nil
	}
	// Plants registered before the casbin policies were introduced only have
	// the creator column.
	if plant.Creator != nil && *plant.Creator == *user.Username {
		return true, nil
	}
	return false, gz.NewErrorMessage(gz.ErrorUnauthorized)
}

// CreatePlantFavorite adds the plant to the user's favorites. Favoriting an
// already-favorited plant is a no-op.
func (ps *Service) CreatePlantFavorite(tx *gorm.DB, id uint, user *users.User) (*PlantFavorite, *gz.ErrMsg) {
	if user == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	plant, em := ByID(tx, id)
	if em != nil {
		return nil, em
	}
	var fav PlantFavorite
	q := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).First(&fav)
	if q.Error == nil {
		return &fav, nil
	}
	if !q.RecordNotFound() {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
	}
	fav = PlantFavorite{PlantID: plant.ID, UserID: user.ID}
	if err := tx.Create(&fav).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	return &fav, nil
}

// RemovePlantFavorite removes the plant from the user's favorites.
// Removing an absent favorite is a no-op.
func (ps *Service) RemovePlantFavorite(tx *gorm.DB, id uint, user *users.User) *gz.ErrMsg {
	if user == nil {
		return gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	plant, em := ByID(tx, id)
	if em != nil {
		return em
	}
	if err := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).
		Delete(&PlantFavorite{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return nil
}

// CreatePlantHave marks the plant as owned by the user. Idempotent.
func (ps *Service) CreatePlantHave(tx *gorm.DB, id uint, user *users.User) (*PlantHave, *gz.ErrMsg) {
	if user == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	plant, em := ByID(tx, id)
	if em != nil {
		return nil, em
	}
	var have PlantHave
	q := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).First(&have)
	if q.Error == nil {
		return &have, nil
	}
	if !q.RecordNotFound() {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
	}
	have = PlantHave{PlantID: plant.ID, UserID: user.ID}
	if err := tx.Create(&have).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	return &have, nil
}

// RemovePlantHave unmarks the plant as owned by the user. Idempotent.
func (ps *Service) RemovePlantHave(tx *gorm.DB, id uint, user *users.User) *gz.ErrMsg {
	if user == nil {
		return gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	plant, em := ByID(tx, id)
	if em != nil {
		return em
	}
	if err := tx.Where("plant_id = ? AND user_id = ?", plant.ID, user.ID).
		Delete(&PlantHave{}).Error; err != nil {
		return gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return nil
}

// FavoritePlantList returns the paginated list of plants favorited by the
// given username, newest favorite first.
func (ps *Service) FavoritePlantList(p *gz.PaginationRequest, tx *gorm.DB,
	username string) (*PlantResponses, *gz.PaginationResult, *gz.ErrMsg) {

	user, em := users.ByUsername(tx, username, false)
	if em != nil {
		return nil, nil, em
	}

	q := QueryForPlants(tx).
		Joins("JOIN plant_favorites ON plants.id = plant_favorites.plant_id").
		Where("plant_favorites.user_id = ?", user.ID).
		Order("plant_favorites.id desc")

	var plantList Plants
	pagination, err := gz.PaginateQuery(q, &plantList, *p)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorInvalidPaginationRequest, err)
	}
	if !pagination.PageFound {
		empty := PlantResponses{}
		return &empty, pagination, nil
	}

	ids := make([]uint, 0, len(plantList))
	for _, plant := range plantList {
		ids = append(ids, plant.ID)
	}
	counts, em := loadEvaluationCounts(tx, ids)
	if em != nil {
		return nil, nil, em
	}

	responses := PlantResponses{}
	for _, plant := range plantList {
		pl := plant
		responses = append(responses, createPlantResponse(&pl, counts[pl.ID]))
	}
	return &responses, pagination, nil
}
