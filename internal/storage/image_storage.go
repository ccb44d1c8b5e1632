package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/baliyoga/baliyoga-backend/config"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
)

// ImageStorage mirrors listing photos into S3 under the deterministic cached
// image paths, so the site serves stable copies instead of hotlinking source
// URLs that rot.
type ImageStorage struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	baseURL    string
}

func NewImageStorage(cfg appconfig.S3Config) *ImageStorage {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		} else {
			awsCfg = loaded
		}
	}

	return &ImageStorage{
		client:     s3.NewFromConfig(awsCfg),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucket:     cfg.Bucket,
		baseURL:    cfg.BaseURL,
	}
}

// CacheImage downloads one source image and stores it under the listing's
// deterministic path, returning the public URL of the stored copy.
func (s *ImageStorage) CacheImage(ctx context.Context, listingID string, imageIndex int, category slug.Category, sourceURL string) (string, error) {
	key := slug.CachedImagePath(listingID, imageIndex, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	logger.Debug("Cached listing image", map[string]interface{}{
		"listing_id": listingID,
		"key":        key,
	})
	return s.PublicURL(key), nil
}

// CacheListingImages mirrors every image of a listing, skipping failures so a
// broken source URL does not block the rest.
func (s *ImageStorage) CacheListingImages(ctx context.Context, listingID string, category slug.Category, sourceURLs []string) []string {
	stored := make([]string, 0, len(sourceURLs))
	for i, sourceURL := range sourceURLs {
		url, err := s.CacheImage(ctx, listingID, i, category, sourceURL)
		if err != nil {
			logger.Warn("Skipping image that failed to cache", map[string]interface{}{
				"listing_id": listingID,
				"index":      i,
				"error":      err.Error(),
			})
			continue
		}
		stored = append(stored, url)
	}
	return stored
}

// PublicURL returns the serving URL for a stored key.
func (s *ImageStorage) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
