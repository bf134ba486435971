package s3

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cookbook-service/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken = ""
	photoPrefix          = "recipes"

	errFailedCreateAWSSessionFmt           = "failed to create AWS session: %w"
	errFailedGeneratePresignedUploadURLFmt = "failed to generate presigned upload URL: %w"
	errFailedDeleteObjectFmt               = "failed to delete object: %w"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PhotoUpload is a presigned PUT the client performs directly against S3.
type PhotoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PhotoURL  string    `json:"photo"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client stores recipe photos in a single bucket.
type Client struct {
	svc                *s3.S3
	bucket             string
	region             string
	presignedURLExpiry time.Duration
	now                func() time.Time
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:                s3.New(sess),
		bucket:             cfg.PhotoBucket,
		region:             cfg.Region,
		presignedURLExpiry: cfg.PhotoURLExpiry,
		now:                time.Now,
	}, nil
}

// PresignPhotoUpload returns a presigned PUT for a new photo of recipeID.
// Each call gets a fresh key so browsers never serve a stale image.
func (c *Client) PresignPhotoUpload(ctx context.Context, recipeID uuid.UUID, contentType string) (*PhotoUpload, error) {
	key := PhotoKey(recipeID, uuid.New(), contentType)

	req, _ := c.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf(errFailedGeneratePresignedUploadURLFmt, err)
	}

	return &PhotoUpload{
		UploadURL: url,
		PhotoURL:  c.PublicURL(key),
		Key:       key,
		ExpiresAt: c.now().Add(c.presignedURLExpiry),
	}, nil
}

// DeletePhoto removes the photo of recipeID stored at photoURL. URLs that
// point outside recipes/<recipeID>/ in this bucket are ignored.
func (c *Client) DeletePhoto(ctx context.Context, recipeID uuid.UUID, photoURL string) error {
	key, ok := c.OwnedPhotoKey(recipeID, photoURL)
	if !ok {
		return nil
	}

	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

// OwnedPhotoKey returns the object key of photoURL when it names a photo
// stored under recipeID's prefix.
func (c *Client) OwnedPhotoKey(recipeID uuid.UUID, photoURL string) (string, bool) {
	key, ok := c.KeyFromURL(photoURL)
	if !ok || path.Clean(key) != key {
		return "", false
	}
	rest, ok := strings.CutPrefix(key, recipePrefix(recipeID))
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return key, true
}

func (c *Client) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", c.bucket, c.region)
}

func (c *Client) PublicURL(key string) string {
	return c.baseURL() + key
}

func (c *Client) KeyFromURL(photoURL string) (string, bool) {
	key, ok := strings.CutPrefix(photoURL, c.baseURL())
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func recipePrefix(recipeID uuid.UUID) string {
	return photoPrefix + "/" + recipeID.String() + "/"
}

// PhotoKey builds recipes/<recipe>/<photo><ext>.
func PhotoKey(recipeID, photoID uuid.UUID, contentType string) string {
	ext := photoExtensions[contentType]
	return path.Join(photoPrefix, recipeID.String(), photoID.String()+ext)
}
