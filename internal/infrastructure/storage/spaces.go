package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"strings"
	"time"

	"hirehub/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Spaces stores CVs in an S3 compatible bucket (DigitalOcean Spaces by default).
type Spaces struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger *log.Logger

	now func() time.Time
}

func NewSpaces(cfg config.SpacesConfig, prefix string, logger *log.Logger) (*Spaces, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, errors.New("spaces credentials are required")
	}
	if cfg.BucketName == "" {
		return nil, errors.New("spaces bucket name is required")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("create spaces session: %w", err)
	}

	if logger != nil {
		logger.Printf("[Storage] Spaces client initialized: bucket=%s endpoint=%s", cfg.BucketName, endpoint)
	}

	return newSpacesWithClient(s3.New(sess), cfg.BucketName, prefix, logger), nil
}

func newSpacesWithClient(client s3iface.S3API, bucket, prefix string, logger *log.Logger) *Spaces {
	return &Spaces{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
		now:    time.Now,
	}
}

func (s *Spaces) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if r == nil {
		return "", ErrEmptyUpload
	}

	body, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	key := path.Join(s.prefix, ObjectName(s.now(), originalName))
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPrivate),
	})
	if err != nil {
		return "", fmt.Errorf("upload to spaces: %w", err)
	}

	if s.logger != nil {
		s.logger.Printf("[Storage] Stored upload: bucket=%s key=%s", s.bucket, key)
	}
	return key, nil
}

func (s *Spaces) Remove(ctx context.Context, relPath string) error {
	key := strings.Trim(strings.TrimSpace(relPath), "/")
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from spaces: %w", err)
	}
	return nil
}
