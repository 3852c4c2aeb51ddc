package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaService stores submitted photos and videos in a DigitalOcean
// Spaces bucket and hands back public URLs for the submission log.
type MediaService struct {
	client    *s3.Client
	bucket    string
	region    string
	MediaRoot string
}

func NewMediaService(key, secret, region, bucket, mediaRoot string) *MediaService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &MediaService{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		region:    region,
		MediaRoot: strings.Trim(mediaRoot, "/"),
	}
}

// UploadSubmissionMedia streams one attachment into the bucket under
// <root>/<hunt>/<team>/<uuid><ext> and returns its public URL.
func (s *MediaService) UploadSubmissionMedia(ctx context.Context, huntID, teamID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s/%s/%s%s", s.MediaRoot, huntID, teamID, uuid.New().String(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// DeleteSubmissionMedia removes a previously uploaded object by its
// public URL. Unknown URLs are reported, not ignored.
func (s *MediaService) DeleteSubmissionMedia(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/", s.bucket, s.region)
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	key := strings.TrimPrefix(url, prefix)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete media %s: %w", key, err)
	}
	return nil
}

func (s *MediaService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

func (s *MediaService) GetBucket() string {
	return s.bucket
}

func (s *MediaService) GetRegion() string {
	return s.region
}
