package resource_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bgserve/pkg/resource"
)

// MockObjectClient is a mock implementation of the ObjectClient interface
type MockObjectClient struct {
	mock.Mock
}

func (m *MockObjectClient) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockObjectClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNewObject(t *testing.T) {
	t.Parallel()

	_, err := resource.NewObject(nil, "bucket", "key")
	assert.ErrorIs(t, err, resource.ErrNilClient)

	_, err = resource.NewObject(new(MockObjectClient), "", "key")
	assert.ErrorIs(t, err, resource.ErrInvalidPath)

	a, err := resource.NewObject(new(MockObjectClient), "bucket", "/tracks/sample.bw")
	require.NoError(t, err)
	b, err := resource.NewObject(new(MockObjectClient), "bucket", "tracks/sample.bw")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())
	assert.True(t, strings.HasSuffix(a.ID(), "-sample.bw"))
	assert.Equal(t, resource.KindObject, a.Kind())
	assert.Equal(t, "tracks/sample.bw", a.Key())
}

func TestObjectRespondRange(t *testing.T) {
	t.Parallel()
	client := new(MockObjectClient)
	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Bucket) == "bucket" && aws.ToString(in.Key) == "hello.txt"
	})).Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(12)}, nil)
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Range) == "bytes=0-4"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil)

	res, err := resource.NewObject(client, "bucket", "hello.txt")
	require.NoError(t, err)

	resp, err := res.Respond(context.Background(), "", "bytes=0-4")
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, resp.Status)
	assert.Equal(t, "bytes 0-4/12", resp.Header.Get("Content-Range"))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, "hello", readBody(t, resp))
	client.AssertExpectations(t)
}

func TestObjectRespondFull(t *testing.T) {
	t.Parallel()
	client := new(MockObjectClient)
	client.On("HeadObject", mock.Anything, mock.Anything).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(3), ContentType: aws.String("application/x-bigwig")}, nil)
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Range) == "bytes=0-2"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("abc"))}, nil)

	res, err := resource.NewObject(client, "bucket", "blob")
	require.NoError(t, err)

	resp, err := res.Respond(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/x-bigwig", resp.Header.Get("Content-Type"), "store content type used when extension is unknown")
	assert.Equal(t, "abc", readBody(t, resp))
}

func TestObjectRespondErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		client := new(MockObjectClient)
		client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
		res, err := resource.NewObject(client, "bucket", "missing.txt")
		require.NoError(t, err)

		_, err = res.Respond(context.Background(), "", "")
		assert.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("api error", func(t *testing.T) {
		client := new(MockObjectClient)
		client.On("HeadObject", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})
		res, err := resource.NewObject(client, "bucket", "private.txt")
		require.NoError(t, err)

		_, err = res.Respond(context.Background(), "", "")
		assert.ErrorIs(t, err, resource.ErrRead)
	})

	t.Run("unsatisfiable range skips get", func(t *testing.T) {
		client := new(MockObjectClient)
		client.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(12)}, nil)
		res, err := resource.NewObject(client, "bucket", "a.txt")
		require.NoError(t, err)

		_, err = res.Respond(context.Background(), "", "bytes=12-20")
		assert.ErrorIs(t, err, resource.ErrRangeNotSatisfiable)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	})

	t.Run("sub-path rejected", func(t *testing.T) {
		res, err := resource.NewObject(new(MockObjectClient), "bucket", "a.txt")
		require.NoError(t, err)
		_, err = res.Respond(context.Background(), "x", "")
		assert.ErrorIs(t, err, resource.ErrSubPathNotAllowed)
	})
}

func TestNewS3ClientRequiresRegion(t *testing.T) {
	t.Parallel()
	_, err := resource.NewS3Client(context.Background(), resource.S3Config{})
	assert.ErrorIs(t, err, resource.ErrInvalidConfig)
}
