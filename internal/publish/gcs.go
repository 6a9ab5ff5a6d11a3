// Package publish copies a finished report to Google Cloud Storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/Veraticus/ageing-report/internal/common"
)

// DefaultTimeout bounds one upload.
const DefaultTimeout = 2 * time.Minute

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNoBucket is returned when a publisher is built without a bucket.
var ErrNoBucket = errors.New("no bucket configured")

// objectOpener returns a writer for bucket/object. Closing it finalizes the upload.
type objectOpener func(ctx context.Context, bucket, object, contentType string) (io.WriteCloser, func() error, error)

// GCSPublisher implements service.Publisher for Google Cloud Storage. It
// authenticates with Application Default Credentials.
type GCSPublisher struct {
	open    objectOpener
	logger  *slog.Logger
	Bucket  string
	Object  string
	Timeout time.Duration
}

// NewGCSPublisher creates a publisher for bucket. object names the uploaded
// object; empty means the local file name, a trailing slash makes it a prefix.
func NewGCSPublisher(bucket, object string, logger *slog.Logger) (*GCSPublisher, error) {
	bucket = strings.Trim(strings.TrimPrefix(strings.TrimSpace(bucket), "gs://"), "/")
	if bucket == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, ErrNoBucket)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GCSPublisher{
		Bucket:  bucket,
		Object:  object,
		Timeout: DefaultTimeout,
		logger:  logger,
		open:    openGCSObject,
	}, nil
}

// ObjectName resolves the object name used for localPath.
func (p *GCSPublisher) ObjectName(localPath string) string {
	base := filepath.Base(localPath)
	switch {
	case p.Object == "":
		return base
	case strings.HasSuffix(p.Object, "/"):
		return path.Join(p.Object, base)
	default:
		return p.Object
	}
}

// Publish implements service.Publisher and returns the gs:// URI of the upload.
func (p *GCSPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("open report %q: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	object := p.ObjectName(localPath)
	contentType := ""
	if strings.EqualFold(filepath.Ext(localPath), ".xlsx") {
		contentType = xlsxContentType
	}

	w, release, err := p.open(ctx, p.Bucket, object, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: create storage client: %w", common.ErrOutputUnwritable, err)
	}
	defer func() {
		if release != nil {
			if err := release(); err != nil {
				p.logger.Warn("failed to close storage client", "error", err)
			}
		}
	}()

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: copy report to gs://%s/%s: %w", common.ErrOutputUnwritable, p.Bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: finalize upload: %w", common.ErrOutputUnwritable, err)
	}

	uri := fmt.Sprintf("gs://%s/%s", p.Bucket, object)
	p.logger.Info("report published", "uri", uri)
	return uri, nil
}

func openGCSObject(ctx context.Context, bucket, object, contentType string) (io.WriteCloser, func() error, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	return w, client.Close, nil
}
