package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vbind/internal/errors"
)

// DefaultMaxSize bounds how many bytes a single source may hold.
const DefaultMaxSize = 10 << 20

// S3API is the subset of the S3 client used to fetch objects.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures a Loader.
type Options struct {
	// Region is the AWS region for s3:// sources.
	// Falls back to AWS_REGION, then us-east-1.
	Region string

	// Endpoint overrides the S3 endpoint.
	Endpoint string

	// UsePathStyle addresses buckets as path segments.
	UsePathStyle bool

	// Client is used instead of building an S3 client.
	Client S3API

	// MaxSize bounds each source in bytes.
	// Default: DefaultMaxSize.
	MaxSize int64

	// Logger is the structured logger.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Loader reads sources from disk or S3.
type Loader struct {
	opts Options

	clientOnce sync.Once
	client     S3API
}

// NewLoader creates a Loader. The S3 client is created on first use.
func NewLoader(opts Options) *Loader {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Loader{opts: opts, client: opts.Client}
}

// Load returns the bytes at location, a file path or an s3:// URL.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New(errors.CodeSourceLoad).WithDetail("no source given")
	}
	if IsS3(location) {
		return l.loadS3(ctx, location)
	}
	return l.loadFile(location)
}

// LoadData loads location and decodes it as a data object.
func (l *Loader) LoadData(ctx context.Context, location string) (map[string]any, error) {
	b, err := l.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return Decode(location, b)
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.CodeSourceLoad).WithWhere(path).Wrap(err)
	}
	defer f.Close()
	return l.readLimited(f, path)
}

func (l *Loader) loadS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	l.opts.Logger.Debug("fetching source", "bucket", bucket, "key", key)
	out, err := l.s3Client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeSourceLoad).
			WithWhere(location).
			Wrap(fmt.Errorf("s3 get failed: %w", err))
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > l.opts.MaxSize {
		return nil, l.tooLarge(location)
	}
	return l.readLimited(out.Body, location)
}

func (l *Loader) readLimited(r io.Reader, where string) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, l.opts.MaxSize+1))
	if err != nil {
		return nil, errors.New(errors.CodeSourceLoad).WithWhere(where).Wrap(err)
	}
	if n > l.opts.MaxSize {
		return nil, l.tooLarge(where)
	}
	return buf.Bytes(), nil
}

func (l *Loader) tooLarge(where string) error {
	return errors.New(errors.CodeSourceLoad).
		WithWhere(where).
		WithDetailf("source is larger than %d bytes", l.opts.MaxSize)
}

func (l *Loader) s3Client() S3API {
	l.clientOnce.Do(func() {
		if l.client != nil {
			return
		}
		l.client = newS3Client(l.opts)
	})
	return l.client
}

// newS3Client builds a client from opts and the standard AWS environment
// variables.
func newS3Client(opts Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	o := s3.Options{
		Region:       region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}

// IsS3 reports whether location is an s3:// URL.
func IsS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", errors.New(errors.CodeSourceLoad).WithDetailf("%q is not an s3:// URL", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New(errors.CodeSourceLoad).WithDetailf("%q must have the form s3://bucket/key", location)
	}
	return bucket, key, nil
}
