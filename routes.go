package main

import (
	"github.com/gazebo-web/gz-go/v7"
)

// ///////////////////////////////////////////////
// / Declare the routes. See also router.go
var routes = gz.Routes{

	///////////
	// Users //
	///////////

	// Route to log into the server
	gz.Route{
		Name:        "Login",
		Description: "Login a user",
		URI:         "/login",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route GET /login users loginUser
			//
			// Login user
			//
			// Returns the user associated to the JWT identity, failing if no
			// such user exists yet.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUser
			gz.Method{
				Type:        "GET",
				Description: "Login a user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(Login)},
				},
			},
		},
	},

	// Route for all users
	gz.Route{
		Name:        "Users",
		Description: "Route for all users",
		URI:         "/users",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /users users createUser
			//
			// Create user
			//
			// Creates a new user mapped to the JWT identity. Invoked on a
			// user's first login.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUser
			gz.Method{
				Type:        "POST",
				Description: "Create a new user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(UserCreate)},
				},
			},
			// swagger:route GET /users users listUsers
			//
			// Get list of users. Access restricted to system admins.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUsers
			gz.Method{
				Type:        "GET",
				Description: "Get all users",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Users", PaginationHandlerWithUser(UserList, true))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Users", PaginationHandlerWithUser(UserList, true))},
				},
			},
		},
	},

	// Route for a single user
	gz.Route{
		Name:        "UserIndex",
		Description: "Access to a single user",
		URI:         "/users/{username}",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /users/{username} users singleUser
			//
			// Get a user
			//
			// Return a user given its username. Private fields are only
			// included for the user themselves or a system admin.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUser
			gz.Method{
				Type:        "GET",
				Description: "Get user information",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONResult(NameHandler("username", false, UserIndex))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(NameHandler("username", false, UserIndex))},
				},
			},
		},
		SecureMethods: gz.SecureMethods{
			// swagger:route PATCH /users/{username} users updateUser
			//
			// Update a user
			//
			// Updates a user profile. Multipart form with the optional
			// fields and an optional 'file' avatar image.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUser
			gz.Method{
				Type:        "PATCH",
				Description: "Edit a user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(NameHandler("username", true, UserUpdate))},
				},
			},
			// swagger:route DELETE /users/{username} users deleteUser
			//
			// Delete a user
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbUser
			gz.Method{
				Type:        "DELETE",
				Description: "Remove a user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(NameHandler("username", true, UserRemove))},
				},
			},
		},
	},

	////////////
	// Plants //
	////////////

	// Route for all plants
	gz.Route{
		Name:        "Plants",
		Description: "Information about all plants",
		URI:         "/plants",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /plants plants listPlants
			//
			// Get list of plants.
			//
			// Get a list of plants. Plants will be returned paginated, with
			// pages of 20 plants by default. The user can request a
			// different page with query parameter 'page', and the page size
			// can be defined with query parameter 'per_page'.
			// The route supports the 'sort_by' parameter, with values
			// 'name', 'name_desc', 'created_at', 'created_at_desc' and
			// 'evaluation_desc' (default: name).
			// It also supports the 'q' parameter to search on the plant
			// name, and the 'filter' parameter with values 'all', 'safe'
			// and 'danger' (default: all).
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonPlants
			gz.Method{
				Type:        "GET",
				Description: "Get all plants",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Plants", SearchHandler(PlantList))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Plants", SearchHandler(PlantList))},
				},
			},
		},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /plants plants createPlant
			//
			// Create plant
			//
			// Registers a new plant. The request body should be a multipart
			// form with the 'name' field, the optional taxonomy fields
			// ('scientific_name', 'family', 'genus', 'species'), an optional
			// 'description' and an optional 'file' image.
			// Registering a name that already exists fails and reports the
			// existing plant id.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPlant
			gz.Method{
				Type:        "POST",
				Description: "Create a new plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(PlantCreate)},
				},
			},
		},
	},

	// Route for a single plant
	gz.Route{
		Name:        "PlantIndex",
		Description: "Access to a single plant",
		URI:         "/plants/{plant}",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /plants/{plant} plants singlePlant
			//
			// Get a plant
			//
			// Return a plant given its id, with its images, derived safety
			// counters, and the requesting user's favorite/have/evaluated
			// flags.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPlant
			gz.Method{
				Type:        "GET",
				Description: "Get plant information",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONResult(IDHandler("plant", false, PlantIndex))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", false, PlantIndex))},
				},
			},
		},
		SecureMethods: gz.SecureMethods{
			// swagger:route PATCH /plants/{plant} plants updatePlant
			//
			// Update a plant
			//
			// Updates a plant's taxonomy or description. Only the creator
			// or a moderator can update a plant. The name is immutable.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPlant
			gz.Method{
				Type:        "PATCH",
				Description: "Edit a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantUpdate))},
				},
			},
			// swagger:route DELETE /plants/{plant} plants deletePlant
			//
			// Delete a plant
			//
			// Removes a plant. Only the creator or a moderator can remove a
			// plant.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPlant
			gz.Method{
				Type:        "DELETE",
				Description: "Remove a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantRemove))},
				},
			},
		},
	},

	// Route that handles plant images
	gz.Route{
		Name:        "PlantImages",
		Description: "Handles the photos of a plant.",
		URI:         "/plants/{plant}/images",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /plants/{plant}/images plants createPlantImage
			//
			// Add a plant photo
			//
			// Appends a photo to an existing plant. Only the creator or a
			// moderator can add photos.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPlantImage
			gz.Method{
				Type:        "POST",
				Description: "Add a photo to a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantImageCreate))},
				},
			},
		},
	},

	// Route that handles favorites of a plant
	gz.Route{
		Name:        "PlantFavorites",
		Description: "Handles the favorites of a plant.",
		URI:         "/plants/{plant}/favorites",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /plants/{plant}/favorites plants plantFavoriteCreate
			//
			// Favorite a plant
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "POST",
				Description: "Favorite a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantFavoriteCreate))},
				},
			},
			// swagger:route DELETE /plants/{plant}/favorites plants plantFavoriteRemove
			//
			// Unfavorite a plant
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "DELETE",
				Description: "Unfavorite a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantFavoriteRemove))},
				},
			},
		},
	},

	// Route that handles the "I have this plant" marks
	gz.Route{
		Name:        "PlantHave",
		Description: "Handles the ownership marks of a plant.",
		URI:         "/plants/{plant}/have",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /plants/{plant}/have plants plantHaveCreate
			//
			// Mark a plant as owned
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "POST",
				Description: "Mark a plant as owned",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantHaveCreate))},
				},
			},
			// swagger:route DELETE /plants/{plant}/have plants plantHaveRemove
			//
			// Unmark a plant as owned
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "DELETE",
				Description: "Unmark a plant as owned",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("plant", true, PlantHaveRemove))},
				},
			},
		},
	},

	// Route that returns the plants favorited by a user
	gz.Route{
		Name:        "UserFavorites",
		Description: "Plants favorited by a user.",
		URI:         "/{username}/favorites/plants",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /{username}/favorites/plants plants listUserFavorites
			//
			// Get a user's favorite plants
			//
			// Plants will be returned paginated, newest favorite first.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonPlants
			gz.Method{
				Type:        "GET",
				Description: "Get the plants favorited by a user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Plants", PaginationHandler(FavoritePlantList))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Plants", PaginationHandler(FavoritePlantList))},
				},
			},
		},
		SecureMethods: gz.SecureMethods{},
	},

	/////////////////
	// Evaluations //
	/////////////////

	// Route for the evaluations of a plant
	gz.Route{
		Name:        "PlantEvaluations",
		Description: "Handles the evaluations of a plant.",
		URI:         "/plants/{plant}/evaluations",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /plants/{plant}/evaluations evaluations listEvaluations
			//
			// Get the evaluations of a plant
			//
			// Evaluations will be returned paginated, newest first, with
			// their reaction tallies.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonEvaluations
			gz.Method{
				Type:        "GET",
				Description: "Get the evaluations of a plant",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Evaluations", PlantEvaluationList)},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Evaluations", PlantEvaluationList)},
				},
			},
		},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /plants/{plant}/evaluations evaluations createEvaluation
			//
			// Create evaluation
			//
			// Adds a safety report to a plant. The request body should be a
			// multipart form with the 'polarity' field ('good' or 'bad'),
			// an optional 'comment' and optional 'file' images.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbEvaluation
			gz.Method{
				Type:        "POST",
				Description: "Create a new evaluation",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(EvaluationCreate)},
				},
			},
		},
	},

	// Route for a single evaluation
	gz.Route{
		Name:        "EvaluationIndex",
		Description: "Access to a single evaluation",
		URI:         "/evaluations/{evaluation}",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route DELETE /evaluations/{evaluation} evaluations deleteEvaluation
			//
			// Delete an evaluation
			//
			// Removes an evaluation. Only the author or a moderator can
			// remove an evaluation.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "DELETE",
				Description: "Remove an evaluation",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("evaluation", true, EvaluationRemove))},
				},
			},
		},
	},

	// Route that handles reactions to an evaluation
	gz.Route{
		Name:        "EvaluationReactions",
		Description: "Handles the reactions to an evaluation.",
		URI:         "/evaluations/{evaluation}/reactions",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /evaluations/{evaluation}/reactions evaluations reactionApply
			//
			// React to an evaluation
			//
			// Records the requesting user's reaction. An existing reaction
			// with the other polarity is updated in place; sending the same
			// polarity twice is a no-op. Reactions are undone with DELETE.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbReaction
			gz.Method{
				Type:        "POST",
				Description: "React to an evaluation",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("evaluation", true, ReactionApply))},
				},
			},
			// swagger:route DELETE /evaluations/{evaluation}/reactions evaluations reactionRemove
			//
			// Remove a reaction
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: OK
			gz.Method{
				Type:        "DELETE",
				Description: "Remove a reaction from an evaluation",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("evaluation", true, ReactionRemove))},
				},
			},
		},
	},

	//////////
	// Pets //
	//////////

	// Route that returns the pets of a user
	gz.Route{
		Name:        "UserPets",
		Description: "Pets registered by a user.",
		URI:         "/{username}/pets",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /{username}/pets pets listUserPets
			//
			// Get a user's pets
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonPets
			gz.Method{
				Type:        "GET",
				Description: "Get the pets registered by a user",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Pets", PaginationHandler(PetList))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Pets", PaginationHandler(PetList))},
				},
			},
		},
		SecureMethods: gz.SecureMethods{},
	},

	// Route for all pets
	gz.Route{
		Name:        "Pets",
		Description: "Route for all pets",
		URI:         "/pets",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /pets pets createPet
			//
			// Register a pet
			//
			// Registers a pet on the requesting user's profile. Multipart
			// form with the 'name' field, optional 'breed' and 'birthday'
			// fields and an optional 'file' photo.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPet
			gz.Method{
				Type:        "POST",
				Description: "Register a new pet",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(PetCreate)},
				},
			},
		},
	},

	// Route for a single pet
	gz.Route{
		Name:        "PetIndex",
		Description: "Access to a single pet",
		URI:         "/pets/{pet}",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route PATCH /pets/{pet} pets updatePet
			//
			// Update a pet
			//
			// Only the owner can update a pet.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPet
			gz.Method{
				Type:        "PATCH",
				Description: "Edit a pet",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("pet", true, PetUpdate))},
				},
			},
			// swagger:route DELETE /pets/{pet} pets deletePet
			//
			// Delete a pet
			//
			// Only the owner can remove a pet.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: dbPet
			gz.Method{
				Type:        "DELETE",
				Description: "Remove a pet",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(IDHandler("pet", true, PetRemove))},
				},
			},
		},
	},

	//////////
	// News //
	//////////

	// Route for the news articles
	gz.Route{
		Name:        "News",
		Description: "News articles from the hosted CMS",
		URI:         "/news",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /news news listNews
			//
			// Get list of news articles.
			//
			// Articles will be returned paginated, newest first. Read-only;
			// editors publish through the CMS console.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonArticles
			gz.Method{
				Type:        "GET",
				Description: "Get all news articles",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Articles", NewsList)},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Articles", NewsList)},
				},
			},
		},
		SecureMethods: gz.SecureMethods{},
	},

	// Route for a single news article
	gz.Route{
		Name:        "NewsIndex",
		Description: "Access to a single news article",
		URI:         "/news/{article_id}",
		Headers:     gz.AuthHeadersOptional,
		Methods: gz.Methods{
			// swagger:route GET /news/{article_id} news singleArticle
			//
			// Get a news article
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonArticle
			gz.Method{
				Type:        "GET",
				Description: "Get a news article",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(NewsIndex)},
				},
			},
		},
		SecureMethods: gz.SecureMethods{},
	},

	////////////
	// Vision //
	////////////

	// Route that identifies a plant on an uploaded photo
	gz.Route{
		Name:        "VisionIdentify",
		Description: "Identify the plant on a photo",
		URI:         "/vision/identify",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route POST /vision/identify vision identifyPlant
			//
			// Identify a plant
			//
			// Sends the uploaded photo to the configured vision provider
			// and returns ranked name candidates with confidences.
			//
			//   Consumes:
			//   - multipart/form-data
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonCandidates
			gz.Method{
				Type:        "POST",
				Description: "Identify the plant on a photo",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(VisionIdentify)},
				},
			},
		},
	},

	///////////
	// Admin //
	///////////

	// Route for moderators to review every evaluation
	gz.Route{
		Name:        "AdminEvaluations",
		Description: "Every evaluation across all plants, for moderation",
		URI:         "/admin/evaluations",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route GET /admin/evaluations admin listAllEvaluations
			//
			// Get every evaluation
			//
			// Evaluations will be returned paginated, newest first, across
			// all plants. Access restricted to moderators.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: jsonEvaluations
			gz.Method{
				Type:        "GET",
				Description: "Get every evaluation",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: ".json", Handler: gz.JSONListResult("Evaluations", PaginationHandlerWithUser(AllEvaluationsList, true))},
					gz.FormatHandler{Extension: "", Handler: gz.JSONListResult("Evaluations", PaginationHandlerWithUser(AllEvaluationsList, true))},
				},
			},
		},
	},

	// Route to manage the ElasticSearch configs
	gz.Route{
		Name:        "ElasticSearch",
		Description: "Route to connect, update, and modify the elastic search configuration",
		URI:         "/admin/search",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			// swagger:route GET /admin/search admin listSearchConfigs
			//
			// Get the elastic search configs. Access restricted to system
			// admins.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: ElasticSearchConfigs
			gz.Method{
				Type:        "GET",
				Description: "Get the elastic search configs",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(ListElasticSearchHandler)},
				},
			},
			// swagger:route POST /admin/search admin createSearchConfig
			//
			// Create an elastic search config. Access restricted to system
			// admins.
			//
			//   Produces:
			//   - application/json
			//
			//   Schemes: https
			//
			//   Responses:
			//     default: plantError
			//     200: ElasticSearchConfig
			gz.Method{
				Type:        "POST",
				Description: "Create an elastic search config",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(CreateElasticSearchHandler)},
				},
			},
		},
	},

	// Route to reconnect to the primary ElasticSearch config
	gz.Route{
		Name:        "ElasticSearchReconnect",
		Description: "Route to reconnect to the primary elastic search config",
		URI:         "/admin/search/reconnect",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			gz.Method{
				Type:        "GET",
				Description: "Reconnect to the primary elastic search config",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(ReconnectElasticSearchHandler)},
				},
			},
		},
	},

	// Route to rebuild the ElasticSearch indices
	gz.Route{
		Name:        "ElasticSearchRebuild",
		Description: "Route to rebuild the elastic search indices",
		URI:         "/admin/search/rebuild",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			gz.Method{
				Type:        "GET",
				Description: "Rebuild the elastic search indices",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(RebuildElasticSearchHandler)},
				},
			},
		},
	},

	// Route to update the ElasticSearch indices
	gz.Route{
		Name:        "ElasticSearchUpdate",
		Description: "Route to update the elastic search indices",
		URI:         "/admin/search/update",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			gz.Method{
				Type:        "GET",
				Description: "Update the elastic search indices",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(UpdateElasticSearchHandler)},
				},
			},
		},
	},

	// Route to modify or delete a single ElasticSearch config
	gz.Route{
		Name:        "ElasticSearchConfig",
		Description: "Route to modify or delete an elastic search config",
		URI:         "/admin/search/{config_id}",
		Headers:     gz.AuthHeadersRequired,
		Methods:     gz.Methods{},
		SecureMethods: gz.SecureMethods{
			gz.Method{
				Type:        "PATCH",
				Description: "Modify an elastic search config",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(ModifyElasticSearchHandler)},
				},
			},
			gz.Method{
				Type:        "DELETE",
				Description: "Delete an elastic search config",
				Handlers: gz.FormatHandlers{
					gz.FormatHandler{Extension: "", Handler: gz.JSONResult(DeleteElasticSearchHandler)},
				},
			},
		},
	},
}
