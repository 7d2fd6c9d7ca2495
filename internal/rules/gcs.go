package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/cleared-dev/categorizer/internal/model"
)

// GCSSource reads a rule table from a Google Cloud Storage object using
// Application Default Credentials.
type GCSSource struct {
	Bucket  string
	Object  string
	Sheet   string
	Timeout time.Duration
	// MaxBytes caps the download; zero means DefaultMaxSourceBytes.
	MaxBytes int64
}

// parseGCSURI splits gs://bucket/path/to/object.
func parseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// Fetch downloads and parses the object.
func (s *GCSSource) Fetch(ctx context.Context) (*model.Table, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: creating storage client: %w", model.ErrSourceUnavailable, err)
	}
	defer client.Close()

	rc, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %s: %w", model.ErrSourceUnavailable, s, err)
	}
	defer rc.Close()

	data, err := readAtMost(rc, s.MaxBytes, s.String())
	if err != nil {
		return nil, err
	}
	return parseRuleData(s.String(), data, s.Sheet)
}

func (s *GCSSource) String() string { return "gs://" + s.Bucket + "/" + s.Object }
