package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// putObjectAPI S3 上傳所需的最小介面
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store 將照片上傳到 S3 相容的物件儲存
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Store 使用 AWS 預設設定鏈建立 S3 照片儲存
func NewS3Store(ctx context.Context, cfg config.ImageStoreConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	common.LogInfo("S3 照片儲存已初始化",
		zap.String("bucket", cfg.S3Bucket),
		zap.String("region", awsCfg.Region),
		zap.String("endpoint", cfg.S3Endpoint),
	)
	return newS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func newS3Store(client putObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Save 上傳照片，回傳 s3://bucket/key 參照
func (s *S3Store) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := path.Join(s.prefix, common.GenerateUUID()+extension(contentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", common.Wrap(common.ErrStorage, fmt.Errorf("failed to upload to S3: %w", err))
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
