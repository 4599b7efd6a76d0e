// utils/exporter.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var exportClient *s3.Client
var exportBucket string
var exportBaseURL string

// InitExportStore configures the object storage client used for batch code
// exports. Returns false when the store is not configured; exports are then
// skipped rather than failing batch generation.
func InitExportStore() (bool, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	exportBucket = os.Getenv("R2_BUCKET_NAME")
	if accountID == "" || accessKeyID == "" || exportBucket == "" {
		return false, nil
	}
	exportBaseURL = os.Getenv("CDN_BASE_URL")
	if exportBaseURL == "" {
		exportBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return false, fmt.Errorf("failed to load export store config: %w", err)
	}

	exportClient = s3.NewFromConfig(cfg)
	return true, nil
}

// UploadBatchExport stores a generated code export (CSV) and returns its URL.
// key is the object key (e.g., "batches/summer-2026.csv").
func UploadBatchExport(key string, data []byte) (string, error) {
	if exportClient == nil {
		return "", fmt.Errorf("export store not configured")
	}

	_, err := exportClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(exportBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload batch export: %w", err)
	}

	return fmt.Sprintf("%s/%s", exportBaseURL, key), nil
}

// ExportStoreEnabled reports whether batch exports will be uploaded.
func ExportStoreEnabled() bool {
	return exportClient != nil
}
