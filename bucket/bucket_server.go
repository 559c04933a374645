package bucket

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"io"
	"time"
)

// Server is able to store and remove image binaries, and to resolve the URL
// a stored image can be fetched from. Plant, evaluation, pet and avatar
// images all go through this interface.
type Server interface {
	Upload(ctx context.Context, f io.Reader, bucket, fPath string) (*string, error)
	RemoveFile(ctx context.Context, bucket, fPath string) error
	GetURL(ctx context.Context, bucket, fPath string) (*string, error)
}

// S3Bucket is responsible of interacting with AWS S3.
// The following environment variables must be set:
// AWS_REGION
// AWS_ACCESS_KEY_ID
// AWS_SECRET_ACCESS_KEY
type S3Bucket struct {
	// From aws go documentation:
	// Sessions should be cached when possible, because creating a new Session
	// will load all configuration values from the environment, and config files
	// each time the Session is created. Sharing the Session value across all of
	// your service clients will ensure the configuration is loaded the fewest
	// number of times possible.
	sess *session.Session
	// s3 clients are safe to use concurrently.
	svc    *s3.S3
	prefix string
}

// NewS3Bucket initializes a new S3Bucket.
// arg pre is the prefix to use in Bucket names.
func NewS3Bucket(pre string) *S3Bucket {

	sess := session.Must(session.NewSession())
	// Create S3 service client (note: s3 clients are safe to use concurrently)
	svc := s3.New(sess)

	b := S3Bucket{
		sess:   sess,
		svc:    svc,
		prefix: pre,
	}

	return &b
}

// NewS3BucketWithSession initializes a new S3Bucket reusing an existing aws
// session. Used by tests to point the client at a fake S3 endpoint.
func NewS3BucketWithSession(pre string, sess *session.Session) *S3Bucket {
	return &S3Bucket{
		sess:   sess,
		svc:    s3.New(sess),
		prefix: pre,
	}
}

// GetBucketName is an s3 implementation to get a bucket name in the cloud
func (s3b *S3Bucket) GetBucketName(bucket string) string {
	return s3b.prefix + bucket
}

// Upload stores an image into a bucket. Creates the bucket if needed.
// Returns the URL where the object was uploaded to.
func (s3b *S3Bucket) Upload(ctx context.Context, f io.Reader, bucket,
	fPath string) (*string, error) {

	bucket = s3b.GetBucketName(bucket)

	if _, err := s3b.svc.CreateBucket(&s3.CreateBucketInput{Bucket: &bucket}); err != nil {
		if aerr, ok := err.(awserr.Error); !ok {
			return nil, err
		} else if aerr.Code() != s3.ErrCodeBucketAlreadyExists &&
			aerr.Code() != s3.ErrCodeBucketAlreadyOwnedByYou {
			return nil, err
		}
	}

	if err := s3b.svc.WaitUntilBucketExists(&s3.HeadBucketInput{Bucket: &bucket}); err != nil {
		return nil, err
	}

	// Images are fetched directly by the browser.
	rule := s3.CORSRule{
		AllowedHeaders: aws.StringSlice([]string{"Authorization"}),
		AllowedOrigins: aws.StringSlice([]string{"*"}),
		MaxAgeSeconds:  aws.Int64(3000),
		AllowedMethods: aws.StringSlice([]string{"GET"}),
	}
	params := s3.PutBucketCorsInput{
		Bucket: aws.String(bucket),
		CORSConfiguration: &s3.CORSConfiguration{
			CORSRules: []*s3.CORSRule{&rule},
		},
	}
	if _, err := s3b.svc.PutBucketCors(&params); err != nil {
		return nil, err
	}

	// Create an uploader with S3 client and default options
	uploader := s3manager.NewUploaderWithClient(s3b.svc)
	result, err := uploader.Upload(&s3manager.UploadInput{
		Body:   f,
		Bucket: aws.String(bucket),
		Key:    aws.String(fPath),
	})
	if err != nil {
		return nil, err
	}

	return &result.Location, nil
}

// RemoveFile removes an image from a bucket.
func (s3b *S3Bucket) RemoveFile(ctx context.Context, bucket, fPath string) error {
	bucket = s3b.GetBucketName(bucket)

	// Delete the item
	_, err := s3b.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fPath),
	})
	if err != nil {
		return err
	}

	err = s3b.svc.WaitUntilObjectNotExists(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fPath),
	})
	if err != nil {
		return err
	}

	return nil
}

// GetURL returns a presign'ed URL to download an image from a bucket. The
// frontend substitutes a default placeholder when no image exists.
func (s3b *S3Bucket) GetURL(ctx context.Context, bucket, fPath string) (*string, error) {

	bucket = s3b.GetBucketName(bucket)
	req, _ := s3b.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fPath),
	})

	url, err := req.Presign(24 * time.Hour)
	if err != nil {
		return nil, err
	}
	return &url, nil
}
