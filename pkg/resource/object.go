package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/bgserve/pkg/byterange"
	"github.com/dmitrymomot/bgserve/pkg/guid"
	"github.com/dmitrymomot/bgserve/pkg/mediatype"
)

// ObjectClient is the subset of the S3 API used by Object.
type ObjectClient interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config contains the connection settings for NewS3Client.
type S3Config struct {
	Region         string `env:"REGION"`
	AccessKeyID    string `env:"ACCESS_KEY_ID"`
	SecretKey      string `env:"SECRET_KEY"`
	Endpoint       string `env:"ENDPOINT"`         // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// both key and secret are set, otherwise the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg S3Config, optFns ...func(*config.LoadOptions) error) (*s3.Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: S3 region is required", ErrInvalidConfig)
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	awsOptions = append(awsOptions, optFns...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// Object serves an object stored in an S3 bucket. Each request issues a
// HeadObject for the current size followed by a ranged GetObject, so the
// body streams from the store without buffering.
type Object struct {
	base
	client ObjectClient
	bucket string
	key    string
}

// NewObject creates a resource for bucket/key. The object is not contacted
// until the first request.
func NewObject(client ObjectClient, bucket, key string, opts ...Option) (*Object, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	key = strings.TrimPrefix(key, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", ErrInvalidPath)
	}

	return &Object{
		base: base{
			id:   guid.DeriveString("s3://"+bucket+"/"+key, path.Base(key)),
			opts: newOptions(opts),
		},
		client: client,
		bucket: bucket,
		key:    key,
	}, nil
}

func (o *Object) Kind() Kind { return KindObject }

// Bucket returns the bucket name.
func (o *Object) Bucket() string { return o.bucket }

// Key returns the object key.
func (o *Object) Key() string { return o.key }

// Respond serves the object. A non-empty subPath is rejected with ErrSubPathNotAllowed.
func (o *Object) Respond(ctx context.Context, subPath, rangeHeader string) (*Response, error) {
	if subPath != "" {
		return nil, ErrSubPathNotAllowed
	}

	head, err := o.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "head")
	}

	total := aws.ToInt64(head.ContentLength)
	rng, partial, err := window(rangeHeader, total)
	if err != nil {
		return nil, err
	}

	mediaType := o.mediaTypeOr(mediatype.Guess(o.key))
	if mediaType == mediatype.Default && o.opts.mediaType == "" && aws.ToString(head.ContentType) != "" {
		mediaType = aws.ToString(head.ContentType)
	}

	if total == 0 {
		return newResponse(ctx, http.NoBody, nil, rng, partial, total, mediaType, o.opts), nil
	}

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", rng.Start, rng.End)),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get")
	}

	var body io.ReadCloser = out.Body
	if body == nil {
		body = http.NoBody
	}

	return newResponse(ctx, body, body, rng, partial, total, mediaType, o.opts), nil
}

// classifyS3Error converts S3 errors to resource errors.
func classifyS3Error(err error, operation string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s", ErrNotFound, err)
		case "InvalidRange":
			return &RangeError{Err: byterange.ErrUnsatisfiableRange}
		default:
			return fmt.Errorf("%w: %s operation failed (code: %s): %v", ErrRead, operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%w: %s operation failed: %v", ErrRead, operation, err)
}
