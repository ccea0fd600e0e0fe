package knowledge

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3API is the subset of the S3 client the loader uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Settings struct {
	Bucket string
	Prefix string
	Region string
}

// NewS3Client builds a client from the default credential chain.
func NewS3Client(ctx context.Context, settings S3Settings) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if settings.Region != "" {
		opts = append(opts, config.WithRegion(settings.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

type s3Source struct {
	client   S3API
	settings S3Settings
}

// NewS3Source reads one YAML object per table under the bucket prefix.
func NewS3Source(client S3API, settings S3Settings) Source {
	return &s3Source{client: client, settings: settings}
}

func (s *s3Source) Name() string {
	return "s3://" + path.Join(s.settings.Bucket, s.settings.Prefix)
}

func (s *s3Source) Read(ctx context.Context) (map[string]Table, error) {
	logger := zerolog.Ctx(ctx)

	tables := make(map[string]Table)
	var continuationToken *string
	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.settings.Bucket),
			Prefix:            aws.String(s.settings.Prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list knowledge objects: %w", err)
		}

		for _, obj := range resp.Contents {
			key := aws.ToString(obj.Key)
			name, ok := tableName(path.Base(key))
			if !ok || strings.HasSuffix(key, "/") {
				continue
			}
			t, err := s.readObject(ctx, key)
			if err != nil {
				logger.Warn().Err(err).Str("object", key).Msg("failed to load knowledge object")
				continue
			}
			tables[name] = t
		}

		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		continuationToken = resp.NextContinuationToken
	}
	return tables, nil
}

func (s *s3Source) readObject(ctx context.Context, key string) (Table, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.settings.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return decodeTable(data)
}
