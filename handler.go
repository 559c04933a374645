package main

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/go-playground/form"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"gopkg.in/go-playground/validator.v9"
)

// NoResult is a middleware that adapts a gz.HandlerWithResult into a gz.Handler.
func NoResult(handler gz.HandlerWithResult) gz.Handler {
	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) *gz.ErrMsg {
		_, em := handler(tx, w, r)
		return em
	}
}

// searchFnHandler defines the signature for handlers that accept
// search arguments and return paginated results.
// Arguments:
// p: a pagination request to use.
// order: the requested sort order (eg. sort_by=)
// search: the search query in the router (eg. q=)
// filter: the requested safety filter (eg. filter=)
// user: the user requesting the operation (based on JWT).
// Returns: The searchFnHandler is expected to return paginated results.
type searchFnHandler func(p *gz.PaginationRequest, order, search,
	filter string, user *users.User, tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg)

// SearchHandler is a middleware handler that wraps a searchFnHandler and
// invokes it with the following extra arguments:
// - p: a configured pagination request
// - order, search and filter: got from the URL Query parameters.
// - user: the user requesting the operation. Got from the JWT.
// When a search term is present (and no safety filter is requested) and
// Elastic Search is available, the query goes to Elastic Search first and
// falls back on the SQL based search on error.
// It returns the list of resources and also writes the pagination headers
// into the HTTP response.
func SearchHandler(handler searchFnHandler) gz.HandlerWithResult {
	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {
		// Prepare pagination
		pr, errMsg := gz.NewPaginationRequest(r)
		if errMsg != nil {
			return nil, errMsg
		}

		// Get JWT user
		// it is ok for user to be nil
		user, ok, em2 := getUserFromJWT(tx, r)
		if !ok && (em2.ErrCode != gz.ErrorAuthJWTInvalid &&
			em2.ErrCode != gz.ErrorAuthNoUser) {
			return nil, &em2
		}

		order, search, filter := readListParams(r)

		var list interface{}
		var pagination *gz.PaginationResult
		var eMsg *gz.ErrMsg

		// Assume that we will need to use the backup search.
		backupSearch := true

		// Do we have a search term and Elastic Search? If so, then let's use
		// it. Safety-filtered queries skip it: the filter depends on derived
		// counters the index doesn't carry.
		if len(search) > 0 && (filter == "" || filter == plants.FilterAll) &&
			globals.ElasticSearch != nil {
			list, pagination, eMsg = elasticSearch("nekosafe_plants", pr, order,
				search, tx, w, r)

			// Do we need to fallback on our backup search?
			backupSearch = eMsg != nil
		}

		// Fallback on SQL based search if Elastic Search failed or Elastic
		// Search is not present.
		if backupSearch {
			list, pagination, eMsg = handler(pr, order, search, filter, user, tx, w, r)
		}

		if eMsg != nil {
			return nil, eMsg
		}

		if pagination != nil {
			err := gz.WritePaginationHeaders(*pagination, w, r)
			if err != nil {
				return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
			}
		}

		return list, nil
	}
}

type pagHandler func(p *gz.PaginationRequest, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg)

// PaginationHandlerWithUser is a middleware handler that wraps a pagHandler
// function and invokes it with the following extra arguments:
// - p: a configured pagination request
// - user: the user requesting the operation. Got from the JWT.
// If failIfNoUser is true the the middleware will fail if the JWT does not
// represent a valid user. Otherwise will pass 'nil' to the inner handler.
// It returns the list of resources, and also writes the pagination
// headers into the HTTP response.
func PaginationHandlerWithUser(handler pagHandler, failIfNoUser bool) gz.HandlerWithResult {
	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

		// Prepare pagination
		pr, em := gz.NewPaginationRequest(r)
		if em != nil {
			return nil, em
		}

		// Get JWT user
		user, ok, errMsg := getUserFromJWT(tx, r)
		if !ok && (failIfNoUser || (errMsg.ErrCode != gz.ErrorAuthJWTInvalid &&
			errMsg.ErrCode != gz.ErrorAuthNoUser)) {
			return nil, &errMsg
		}

		list, pagination, em := handler(pr, user, tx, w, r)
		if em != nil {
			return nil, em
		}

		err := gz.WritePaginationHeaders(*pagination, w, r)
		if err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
		}
		return list, nil
	}
}

// PaginationHandler is a middleware handler that wraps a pagHandler function and
// invokes it with the following extra arguments:
// - p: a configured pagination request
// - user: the user requesting the operation. Got from the JWT.
// It returns the list of resources, and also writes the pagination
// headers into the HTTP response.
func PaginationHandler(handler pagHandler) gz.HandlerWithResult {
	return PaginationHandlerWithUser(handler, false)
}

type idFn func(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg)

// IDHandler is a middleware handler that wraps an idFn function and
// invokes it with the following extra arguments:
// - id: the numeric resource id got from the route.
// - user: the user requesting the operation. Can be nil. Got from the JWT.
// Note: if the failIfNoUser is true, this handler will return errors if the
// JWT is invalid or does not exist in DB. Otherwise, if false, the user will
// be nil.
// It returns the result from invoking the inner handler.
func IDHandler(idArg string, failIfNoUser bool, handler idFn) gz.HandlerWithResult {

	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {
		// Extract the user associated with the JWT, if any.
		user, ok, errMsg := getUserFromJWT(tx, r)
		if !ok && ((errMsg.ErrCode != gz.ErrorAuthJWTInvalid &&
			errMsg.ErrCode != gz.ErrorAuthNoUser) || failIfNoUser) {
			return nil, &errMsg
		}

		id, em := readID(idArg, r)
		if em != nil {
			return nil, em
		}

		result, em := handler(id, user, tx, w, r)
		if em != nil {
			return nil, em
		}
		return result, nil
	}
}

// readID is a helper function that reads a numeric resource id from the url.
func readID(idArg string, r *http.Request) (uint, *gz.ErrMsg) {
	params := mux.Vars(r)
	idStr, present := params[idArg]
	if !present {
		return 0, gz.NewErrorMessage(gz.ErrorIDNotInRequest)
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, gz.NewErrorMessageWithBase(gz.ErrorIDNotFound, err)
	}
	return uint(id), nil
}

// readListParams is a helper function that reads the "sort_by", "q" and
// "filter" parameters used to get a list of plants.
func readListParams(r *http.Request) (order, search, filter string) {
	queryP := r.URL.Query()
	if orderParam, ok := queryP["sort_by"]; ok {
		order = orderParam[0]
	}
	if sc, ok := queryP["q"]; ok {
		search = sc[0]
	}
	if f, ok := queryP["filter"]; ok {
		filter = f[0]
	}
	return
}

type nameFn func(name string, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg)

// NameHandler is a middleware handler that wraps a nameFn function and
// invokes it with the following extra arguments:
// - name: the name got from the route.
// - user: the user requesting the operation. Can be nil. Got from the JWT.
// Note: if the failIfNoUser is true , this handler will return errors if the JWT
// is invalid or does not exist in DB. Otherwise, if false, the user will be nil.
// It returns the result from invoking the inner handler.
func NameHandler(nameArg string, failIfNoUser bool,
	handler nameFn) gz.HandlerWithResult {

	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {
		// Extract the user associated with the JWT, if any.
		user, ok, errMsg := getUserFromJWT(tx, r)
		if !ok && ((errMsg.ErrCode != gz.ErrorAuthJWTInvalid &&
			errMsg.ErrCode != gz.ErrorAuthNoUser) || failIfNoUser) {
			return nil, &errMsg
		}

		// Get the resource name
		params := mux.Vars(r)
		name, valid := params[nameArg]
		// If the name does not exist
		if !valid {
			return nil, gz.NewErrorMessage(gz.ErrorNameWrongFormat)
		}

		result, em := handler(name, user, tx, w, r)
		if em != nil {
			return nil, em
		}
		return result, nil
	}
}

// ParseStruct reads the http request and decodes sent values
// into the given struct. It uses the isForm bool to know if the values comes
// as "request.Form" values or as "request.Body".
// It also calls validator to validate the struct fields.
func ParseStruct(s interface{}, r *http.Request, isForm bool) *gz.ErrMsg {
	if isForm {
		if errs := globals.FormDecoder.Decode(s, r.Form); errs != nil {
			return gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, errs,
				getDecodeErrorsExtraInfo(errs))
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(s); err != nil {
			return gz.NewErrorMessageWithBase(gz.ErrorUnmarshalJSON, err)
		}
	}
	// Validate struct values
	if em := ValidateStruct(s); em != nil {
		return em
	}
	return nil
}

// ValidateStruct Validate struct values using golang validator.v9
func ValidateStruct(s interface{}) *gz.ErrMsg {
	if errs := globals.Validate.Struct(s); errs != nil {
		return gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, errs,
			getValidationErrorsExtraInfo(errs))
	}
	return nil
}

// Builds the ErrMsg extra info from the given DecodeErrors
func getDecodeErrorsExtraInfo(err error) []string {
	errs := err.(form.DecodeErrors)
	extra := make([]string, 0, len(errs))
	for field, er := range errs {
		extra = append(extra, fmt.Sprintf("Field: %s. %v", field, er.Error()))
	}
	return extra
}

// Builds the ErrMsg extra info from the given ValidationErrors
func getValidationErrorsExtraInfo(err error) []string {
	validationErrors := err.(validator.ValidationErrors)
	extra := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		extra = append(extra, fmt.Sprintf("%s:%v", fe.StructField(), fe.Value()))
	}
	return extra
}

// getUserFromJWT returns the User associated to the http request's JWT token.
// This function can return ErrorAuthJWTInvalid if the token cannot be
// read, or ErrorAuthNoUser no user with such identity exists in the DB.
func getUserFromJWT(tx *gorm.DB, r *http.Request) (*users.User, bool, gz.ErrMsg) {
	var user *users.User

	// Check if a Private-Token is used, which will supercede a JWT token.
	if token := r.Header.Get("Private-Token"); len(token) > 0 {
		var accessToken *gz.AccessToken
		var err *gz.ErrMsg
		if accessToken, err = gz.ValidateAccessToken(token, tx); err != nil {
			return nil, false, gz.ErrorMessage(gz.ErrorUnauthorized)
		}

		user = new(users.User)
		if err := tx.Where("id = ?", accessToken.UserID).First(user).Error; err != nil {
			return nil, false, *gz.NewErrorMessage(gz.ErrorUnauthorized)
		}
	} else {
		identity, valid := gz.GetUserIdentity(r)
		if !valid {
			return nil, false, gz.ErrorMessage(gz.ErrorAuthJWTInvalid)
		}

		var em *gz.ErrMsg
		user, em = users.ByIdentity(tx, identity, false)
		if em != nil {
			return nil, false, *em
		}
	}

	errMsg := gz.ErrorMessageOK()
	return user, true, errMsg
}

// getRequestFiles returns the multipart form files from the request field
// "file" or "file[]".
func getRequestFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file[]"]
	}
	return files
}

// getRequestImages parses the multipart form and returns the uploaded images
// as pending uploads. Returns an empty slice when the request carries none.
func getRequestImages(r *http.Request) ([]*plants.ImageFile, *gz.ErrMsg) {
	// 32 MB in memory; bigger files spill to disk and are cleaned up when
	// the request ends.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorForm, err)
	}

	var images []*plants.ImageFile
	for _, fh := range getRequestFiles(r) {
		f, err := fh.Open()
		if err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorForm, err)
		}
		images = append(images, &plants.ImageFile{Body: f, Name: fh.Filename})
	}
	return images, nil
}

// getRequestImage returns the single uploaded image of a multipart request,
// or nil when the request carries none.
func getRequestImage(r *http.Request) (*plants.ImageFile, *gz.ErrMsg) {
	images, em := getRequestImages(r)
	if em != nil {
		return nil, em
	}
	if len(images) == 0 {
		return nil, nil
	}
	return images[0], nil
}
