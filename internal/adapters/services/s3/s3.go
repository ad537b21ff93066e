package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("amize/internal/adapters/services/s3")
	logger = otelslog.NewLogger("amize/internal/adapters/services/s3")
)

type Client struct {
	tracer        trace.Tracer
	logger        *slog.Logger
	s3Client      *s3.Client
	bucket        string
	publicBaseURL string
}

type Args struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBaseURL prefixes object keys in returned URLs. Defaults to Endpoint/Bucket.
	PublicBaseURL string
	Tracer        trace.Tracer
	Logger        *slog.Logger
}

func NewClient(ctx context.Context, args Args) (*Client, error) {
	const op = "s3.NewClient"
	if args.Bucket == "" {
		return nil, errorx.Wrap(errors.New("bucket is required"), op)
	}
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(args.AccessKey, args.SecretKey, "")),
		config.WithRegion(args.Region),
		config.WithBaseEndpoint(args.Endpoint),
	)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	publicBaseURL := args.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimRight(args.Endpoint, "/") + "/" + args.Bucket
	}

	return &Client{
		tracer: args.Tracer,
		logger: args.Logger,
		s3Client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = true // Required for MinIO
		}),
		bucket:        args.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload stores r under folder with a generated name and returns the object
// key and its public URL.
func (c *Client) Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (string, string, error) {
	const op = "s3.Client.Upload"
	ctx, span := c.tracer.Start(ctx, "Client.Upload")
	defer span.End()

	key := path.Join(folder, uuid.NewString()+profile.MediaExtension(contentType))
	span.SetAttributes(
		attribute.String("s3.key", key),
		attribute.Int64("s3.size", size),
		attribute.String("s3.content_type", contentType),
	)

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("max-age=604800"), // 1 week
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to put object")
		return "", "", errorx.Wrap(err, op)
	}

	return key, c.URL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	const op = "s3.Client.Delete"
	ctx, span := c.tracer.Start(ctx, "Client.Delete")
	defer span.End()

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete object")
		return errorx.Wrap(err, op)
	}

	return nil
}

func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	const op = "s3.Client.GetObject"
	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}
	defer func() {
		if cerr := output.Body.Close(); cerr != nil {
			c.logger.WarnContext(ctx, "failed to close S3 object body", slog.String("error", cerr.Error()))
		}
	}()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	return data, nil
}

// EnsureBucket creates the bucket unless it already exists.
func (c *Client) EnsureBucket(ctx context.Context) error {
	const op = "s3.Client.EnsureBucket"
	_, err := c.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err == nil {
		return nil
	}

	var owned *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	if errors.As(err, &owned) || errors.As(err, &exists) {
		return nil
	}

	return errorx.Wrap(fmt.Errorf("create bucket %q: %w", c.bucket, err), op)
}

func (c *Client) URL(key string) string {
	return c.publicBaseURL + "/" + key
}

func (c *Client) Bucket() string {
	return c.bucket
}
