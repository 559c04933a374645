package bucket

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeS3 starts an in-memory S3 server and returns a bucket server
// pointing at it.
func newFakeS3(t *testing.T) (*S3Bucket, func()) {
	backend := s3mem.New()
	faker := gofakes3.New(backend)
	srv := httptest.NewServer(faker.Server())

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials("TEST-KEY", "TEST-SECRET", ""),
		Endpoint:         aws.String(srv.URL),
		Region:           aws.String("us-east-1"),
		DisableSSL:       aws.Bool(true),
		S3ForcePathStyle: aws.Bool(true),
	})
	require.NoError(t, err)

	return NewS3BucketWithSession("test-", sess), srv.Close
}

func TestGetBucketName(t *testing.T) {
	b, teardown := newFakeS3(t)
	defer teardown()
	assert.Equal(t, "test-plants", b.GetBucketName("plants"))
}

func TestUploadAndFetch(t *testing.T) {
	b, teardown := newFakeS3(t)
	defer teardown()
	ctx := context.Background()

	location, err := b.Upload(ctx, strings.NewReader("fake image bytes"),
		"plants", "1/aloe-uuid.jpg")
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Contains(t, *location, "1/aloe-uuid.jpg")

	// A presigned URL must actually serve the object back.
	url, err := b.GetURL(ctx, "plants", "1/aloe-uuid.jpg")
	require.NoError(t, err)
	require.NotNil(t, url)

	resp, err := http.Get(*url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(body))
}

func TestUploadExistingBucket(t *testing.T) {
	b, teardown := newFakeS3(t)
	defer teardown()
	ctx := context.Background()

	// Uploading twice into the same bucket must not trip on the
	// bucket-already-exists error.
	_, err := b.Upload(ctx, strings.NewReader("one"), "evaluations", "5/a.jpg")
	require.NoError(t, err)
	_, err = b.Upload(ctx, strings.NewReader("two"), "evaluations", "5/b.jpg")
	require.NoError(t, err)
}

func TestRemoveFile(t *testing.T) {
	b, teardown := newFakeS3(t)
	defer teardown()
	ctx := context.Background()

	_, err := b.Upload(ctx, strings.NewReader("bytes"), "plants", "2/fern.png")
	require.NoError(t, err)

	require.NoError(t, b.RemoveFile(ctx, "plants", "2/fern.png"))

	url, err := b.GetURL(ctx, "plants", "2/fern.png")
	require.NoError(t, err)
	resp, err := http.Get(*url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
