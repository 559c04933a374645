// Package main NekoSafe Plant Server REST API
//
// This package provides the REST API backing the NekoSafe web app, a
// community database of plants and their safety for cats.
//
// Schemes: https
// Host: api.nekosafe.app
// BasePath: /1.0
// Version: 1.0.0
//
// swagger:meta
// go:generate swagger generate spec
package main

// Import this file's dependencies
import (
	"context"
	"flag"
	"log"
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/go-playground/form"
	"github.com/nekosafe-web/plant-server/bucket"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/migrate"
	"github.com/nekosafe-web/plant-server/news"
	"github.com/nekosafe-web/plant-server/permissions"
	"github.com/nekosafe-web/plant-server/vision"
	"gopkg.in/go-playground/validator.v9"
)

// Impl note: we move this as a constant as it is used by tests.
const sysAdminForTest = "rootfortests"

/////////////////////////////////////////////////
/// Initialize this package
///
/// Environment variables:
///    NEKOSAFE_DB_USERNAME : Mysql username
///    NEKOSAFE_DB_PASSWORD : Mysql password
///    NEKOSAFE_DB_ADDRESS  : Mysql address (host:port)
///    NEKOSAFE_DB_NAME     : Mysql database name (such as "nekosafe")
///    AUTH0_RSA256_PUBLIC_KEY : Auth0 public RSA 256 key
///    AWS_BUCKET_PREFIX    : Prefix for the S3 buckets holding images
///    VISION_API_KEY       : API key of the vision provider (optional)
///    NEWS_CMS_URL         : Base URL of the hosted CMS (optional)
///    MEMCACHE_ADDRESS     : Memcached address (optional)
func init() {
	var err error
	var isGoTest bool
	var auth0RsaPublickey string

	verbosity := gz.VerbosityWarning
	if verbStr, verr := gz.ReadEnvVar("NEKOSAFE_VERBOSITY"); verr == nil {
		verbosity, _ = strconv.Atoi(verbStr)
	}

	logStd := gz.ReadStdLogEnvVar()
	logger := gz.NewLogger("init", logStd, verbosity)
	logCtx := gz.NewContextWithLogger(context.Background(), logger)

	isGoTest = flag.Lookup("test.v") != nil

	// Get the auth0 credentials.
	if auth0RsaPublickey, err = gz.ReadEnvVar("AUTH0_RSA256_PUBLIC_KEY"); err != nil {
		logger.Info("Missing AUTH0_RSA256_PUBLIC_KEY env variable. Authentication will not work.")
	}

	globals.Server, err = gz.Init(auth0RsaPublickey, "", nil)
	// Create the main Router and set it to the server.
	// Note: here it is the place to define multiple APIs
	s := globals.Server
	mainRouter := gz.NewRouter()
	apiPrefix := "/" + globals.APIVersion
	r := mainRouter.PathPrefix(apiPrefix).Subrouter()
	s.ConfigureRouterWithRoutes(apiPrefix, r, routes)

	globals.Server.SetRouter(mainRouter)

	globals.Validate = initValidator()
	globals.FormDecoder = form.NewDecoder()

	// Object storage for plant, evaluation, avatar and pet images.
	useAwsInTests := false
	awsBucketEnvVar := "AWS_BUCKET_PREFIX"
	if isGoTest {
		if useStr, err := gz.ReadEnvVar("AWS_BUCKET_USE_IN_TESTS"); err == nil {
			if flag, err2 := strconv.ParseBool(useStr); err2 == nil {
				useAwsInTests = flag
			}
		}
		if useAwsInTests {
			awsBucketEnvVar += "_TEST"
		}
	}
	if !isGoTest || useAwsInTests {
		p, err := gz.ReadEnvVar(awsBucketEnvVar)
		if err != nil {
			panic("error reading " + awsBucketEnvVar)
		}
		globals.BucketPrefix = p
		globals.Bucket = bucket.NewS3Bucket(p)
	}

	// Optional integrations. Each constructor returns nil when its env
	// variable is not set, and the handlers degrade gracefully.
	globals.Vision = vision.NewClient()
	globals.News = news.NewClient()
	if addr, err := gz.ReadEnvVar("MEMCACHE_ADDRESS"); err == nil && addr != "" {
		globals.QueryCache = memcache.New(addr)
	}

	// initialize permissions
	// override sys admin for tests
	var sysAdmin string
	if isGoTest {
		sysAdmin = sysAdminForTest
	} else {
		sysAdmin, _ = gz.ReadEnvVar("NEKOSAFE_SYSTEM_ADMIN")
	}
	if sysAdmin == "" {
		logger.Info("No NEKOSAFE_SYSTEM_ADMIN environment variable set. " +
			"No system administrator role will be created")
	}
	globals.Permissions = &permissions.Permissions{}
	globals.Permissions.Init(globals.Server.Db, sysAdmin)

	if err != nil {
		logger.Error(err)
	} else {
		logger.Info("[application.go] Started using database: ",
			globals.Server.DbConfig.Name)

		// Migrate database tables
		DBMigrate(logCtx, globals.Server.Db)

		// Run custom DB migration scripts
		migrate.PlantCasbinPermissions(logCtx, globals.Server.Db)
		migrate.EvaluationUsernamesFromUsers(logCtx, globals.Server.Db)

		DBAddDefaultData(logCtx, globals.Server.Db)

		// After loading initial data, apply custom indexes. Eg: fulltext indexes
		DBAddCustomIndexes(logCtx, globals.Server.Db)
	}

	// Connect to ElasticSearch, if a primary config is present.
	if err := connectToElasticSearch(logCtx); err != nil {
		logger.Info("Unable to connect to elastic search. Plant search will fall back to SQL.", err)
	}
}

func initValidator() *validator.Validate {
	validate := validator.New()
	InstallCustomValidators(validate)
	return validate
}

/////////////////////////////////////////////////
// Run the router and server
func main() {
	if globals.Server == nil {
		log.Fatal("Server was not initialized")
	}
	globals.Server.Run()
}
