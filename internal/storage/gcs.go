package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const uploadTimeout = 5 * time.Minute

// GCSStore implements the Store interface for Google Cloud Storage.
type GCSStore struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSStore creates a new GCSStore instance. With an empty credentialsFile
// it falls back to application default credentials.
func NewGCSStore(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStore, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStore{
		client:       client,
		bucket:       bucketName,
		objectPrefix: objectPrefix,
	}, nil
}

func (s *GCSStore) objectName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if s.objectPrefix != "" && !strings.HasPrefix(name, s.objectPrefix+"/") {
		name = s.objectPrefix + "/" + name
	}
	return name
}

// Publish uploads a local file to the bucket and returns the object name.
func (s *GCSStore) Publish(ctx context.Context, localPath, objectName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	object := s.objectName(objectName)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(wc, f); err != nil {
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return object, nil
}

// Open returns a reader for a published object.
func (s *GCSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucket).Object(s.objectName(ref)).NewReader(ctx)
}

// Exists checks if an object exists in the bucket.
func (s *GCSStore) Exists(ctx context.Context, ref string) bool {
	_, err := s.client.Bucket(s.bucket).Object(s.objectName(ref)).Attrs(ctx)
	return err == nil
}

// List returns object names in the bucket matching prefix.
func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{
		Prefix: s.objectName(prefix),
	})

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		results = append(results, attrs.Name)
	}

	return results, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
