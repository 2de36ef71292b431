package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"zdenci/exporter/pkg/export"
)

// MinioConfig configures uploads to an S3-compatible bucket.
type MinioConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Prefix       string
	Region       string
	Secure       bool
	CreateBucket bool
}

// objectStore is the subset of *minio.Client used for uploads.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioDeliverer uploads payloads as objects named
// <prefix>/<timestamp>-<filename>.
type MinioDeliverer struct {
	store  objectStore
	cfg    MinioConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewMinioDeliverer connects to cfg.Endpoint.
func NewMinioDeliverer(cfg MinioConfig, logger *slog.Logger) (*MinioDeliverer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newMinioDeliverer(client, cfg, logger), nil
}

func newMinioDeliverer(store objectStore, cfg MinioConfig, logger *slog.Logger) *MinioDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinioDeliverer{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("component", "delivery.minio", "bucket", cfg.Bucket),
	}
}

// EnsureBucket creates the bucket when CreateBucket is set and it does not
// exist yet.
func (d *MinioDeliverer) EnsureBucket(ctx context.Context) error {
	exists, err := d.store.BucketExists(ctx, d.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", d.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	if !d.cfg.CreateBucket {
		return fmt.Errorf("bucket %q does not exist", d.cfg.Bucket)
	}
	if err := d.store.MakeBucket(ctx, d.cfg.Bucket, minio.MakeBucketOptions{Region: d.cfg.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", d.cfg.Bucket, err)
	}
	d.logger.Info("bucket created")
	return nil
}

// ObjectName returns the object key for a payload.
func (d *MinioDeliverer) ObjectName(p *export.Payload) string {
	name := d.now().UTC().Format("20060102T150405Z") + "-" + p.Filename
	if d.cfg.Prefix == "" {
		return name
	}
	return path.Join(d.cfg.Prefix, name)
}

// Deliver implements export.Deliverer and returns an s3:// URL.
func (d *MinioDeliverer) Deliver(ctx context.Context, p *export.Payload) (string, error) {
	object := d.ObjectName(p)

	info, err := d.store.PutObject(ctx, d.cfg.Bucket, object,
		bytes.NewReader(p.Data), int64(p.Size()),
		minio.PutObjectOptions{
			ContentType:        p.ContentType(),
			ContentDisposition: "attachment; filename=" + p.Filename,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}

	d.logger.Debug("payload uploaded", "object", object, "size", info.Size, "etag", info.ETag)
	return fmt.Sprintf("s3://%s/%s", d.cfg.Bucket, object), nil
}
