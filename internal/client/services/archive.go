package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/logging"
)

var ErrArchiveDisabled = errors.New("cv archive is not configured")

const archiveLinkTTL = time.Hour

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (*v4.PresignedHTTPRequest, error) {
		return s3.NewPresignClient(c).PresignGetObject(ctx, in, s3.WithPresignExpires(ttl))
	}
)

// ArchiveConfig points at an S3-compatible bucket. An empty Bucket disables
// archiving.
type ArchiveConfig struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Archived describes an uploaded CV.
type Archived struct {
	Bucket string
	Key    string
	Size   int64
	URL    string
}

type ArchiveService struct {
	api client.AdminAPI
	cfg ArchiveConfig
	log logging.Logger
	now func() time.Time
}

func NewArchiveService(api client.AdminAPI, cfg ArchiveConfig, log logging.Logger) *ArchiveService {
	if log == nil {
		log = logging.Nop()
	}
	return &ArchiveService{api: api, cfg: cfg, log: log, now: time.Now}
}

// Enabled reports whether a bucket is configured.
func (s *ArchiveService) Enabled() bool {
	return s.cfg.Bucket != ""
}

// ArchiveKey is the object key of a session's CV:
// cv/<yyyy>/<mm>/<session_id>/<file name>.
func ArchiveKey(t time.Time, sessionID, fileName string) string {
	return path.Join("cv", fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())), sessionID, fileName)
}

func (s *ArchiveService) getS3Client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Archive downloads the session's CV from the backend, stores it in the
// bucket and returns a time-limited download link.
func (s *ArchiveService) Archive(ctx context.Context, sess models.CandidateSession) (Archived, error) {
	if !s.Enabled() {
		return Archived{}, ErrArchiveDisabled
	}
	if !sess.HasCV() {
		return Archived{}, fmt.Errorf("session %s: %w", sess.SessionID, ErrNoCV)
	}

	name := models.CVFileName(*sess.CVPath)
	var buf bytes.Buffer
	if _, err := s.api.DownloadCV(ctx, name, &buf); err != nil {
		return Archived{}, fmt.Errorf("download cv: %w", err)
	}

	c, err := s.getS3Client(ctx)
	if err != nil {
		return Archived{}, fmt.Errorf("s3 client: %w", err)
	}

	key := ArchiveKey(s.now(), sess.SessionID, name)
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := int64(buf.Len())

	err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		Metadata:      map[string]string{"session-id": sess.SessionID},
	})
	if err != nil {
		return Archived{}, fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := presignGetObject(c, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, archiveLinkTTL)
	if err != nil {
		return Archived{}, fmt.Errorf("presign %s: %w", key, err)
	}

	s.log.Info(ctx, "cv archived", "session_id", sess.SessionID, "bucket", s.cfg.Bucket, "key", key, "size", size)
	return Archived{Bucket: s.cfg.Bucket, Key: key, Size: size, URL: req.URL}, nil
}
