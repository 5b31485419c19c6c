package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/usage-report/pkg/services/config"
	"github.com/rs/zerolog"
)

const (
	DefaultRegion = "us-east-1"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewPublisher(client ObjectPutter, cfg config.PublishConfig) *Publisher {
	return &Publisher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
}

// NewS3Publisher builds a Publisher on the shared AWS configuration, using
// the named profile when one is set.
func NewS3Publisher(ctx context.Context, cfg config.PublishConfig) (*Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithDefaultRegion(DefaultRegion),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewPublisher(s3.NewFromConfig(awsCfg), cfg), nil
}

// Key is the object key a report file is stored under.
func (p *Publisher) Key(file string) string {
	return path.Join(p.prefix, filepath.Base(file))
}

// Publish uploads the saved report and returns its s3:// location.
func (p *Publisher) Publish(ctx context.Context, file string) (string, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("failed to open report for upload: %w", err)
	}
	defer f.Close()

	key := p.Key(file)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(p.bucket),
		Key:         awssdk.String(key),
		Body:        f,
		ContentType: awssdk.String(xlsxMediaType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3://%s/%s: %w", p.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	logger.Info().Str("location", location).Msg("report published")
	return location, nil
}
