// Package archive persists generated reports as JSON objects in
// S3-compatible storage. Archiving is optional: when no credentials are
// configured the service runs without it.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/clearsight-ai/reportforge/internal/domain"
)

const keyPrefix = "reports/"

// S3ArchiveConfig holds configuration for S3Archive
type S3ArchiveConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// S3Archive stores archived reports in an S3-compatible bucket
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates a new S3Archive with the given configuration
func NewS3Archive(ctx context.Context, cfg S3ArchiveConfig) (*S3Archive, error) {
	// Custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Put stores one archived report under its id.
func (a *S3Archive) Put(ctx context.Context, report domain.ArchivedReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey(report.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// Get fetches one archived report by id.
func (a *S3Archive) Get(ctx context.Context, id string) (*domain.ArchivedReport, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		return nil, domain.ErrReportNotFound
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report object: %w", err)
	}

	var report domain.ArchivedReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report object: %w", err)
	}
	return &report, nil
}

// ReportSummary is one listing entry.
type ReportSummary struct {
	ID           string    `json:"id"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// List returns all archived reports, newest first.
func (a *S3Archive) List(ctx context.Context) ([]ReportSummary, error) {
	var summaries []ReportSummary
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			summaries = append(summaries, ReportSummary{
				ID:           key[len(keyPrefix) : len(key)-len(".json")],
				LastModified: aws.ToTime(obj.LastModified),
				Size:         aws.ToInt64(obj.Size),
			})
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastModified.After(summaries[j].LastModified)
	})
	return summaries, nil
}

func objectKey(id string) string {
	return keyPrefix + id + ".json"
}
