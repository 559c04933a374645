package globals

import (
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/go-playground/form"
	"github.com/nekosafe-web/plant-server/bucket"
	"github.com/nekosafe-web/plant-server/news"
	"github.com/nekosafe-web/plant-server/permissions"
	"github.com/nekosafe-web/plant-server/vision"
	"gopkg.in/go-playground/validator.v9"
)

/////////////////////////////////////////////////
/// Define global variables here

// Server encapsulates database, router and auth0
var Server *gz.Server

// APIVersion is route api version.
// See also routes and routes.go
var APIVersion = "1.0"

// Validate references the global structs validator.
// See https://github.com/go-playground/validator.
// We use a single instance of Validate, as it caches struct info
var Validate *validator.Validate

// FormDecoder holds a reference to the global Form Decoder.
// See https://github.com/go-playground/form.
// We use a single instance of Decoder, as it caches struct info
var FormDecoder *form.Decoder

// Permissions manages permissions for users vs resources.
var Permissions *permissions.Permissions

// Bucket is the object storage server used to store and serve plant,
// evaluation, pet and avatar images.
var Bucket bucket.Server

// BucketPrefix is the prefix prepended to bucket names in object storage.
var BucketPrefix string

// Vision is the client used to identify plants on uploaded photos. It is nil
// when no vision provider is configured, disabling the identify route.
var Vision *vision.Client

// News is the client used to fetch articles from the hosted CMS. It is nil
// when no CMS is configured, disabling the news routes.
var News *news.Client

// ElasticSearch is the active Elastic Search client, or nil if disabled.
var ElasticSearch *elasticsearch.Client

// QueryCache is the memcached client used to cache basic plant list queries.
// It is nil when caching is disabled.
var QueryCache *memcache.Client

// MaxPlantNameLength is the maximum length accepted for a plant name.
const MaxPlantNameLength = 50

// MaxCommentLength is the maximum length accepted for an evaluation comment.
const MaxCommentLength = 1000

// MaxPetNameLength is the maximum length accepted for a pet name.
const MaxPetNameLength = 30
