// internal/config/s3.go
package config

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the car photo bucket client.
type S3Config struct {
	Client        *s3.Client
	Bucket        string
	PublicBaseURL string
}

// NewS3Config creates a new S3 configuration. Static credentials are used when
// AWS_ACCESS_KEY_ID is set; otherwise the default AWS credential chain applies.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			key,
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	publicBaseURL := cfg.S3PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = "https://" + cfg.S3Bucket + ".s3." + cfg.AWSRegion + ".amazonaws.com"
	}

	return &S3Config{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: publicBaseURL,
	}, nil
}
