package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStager stages files as objects <prefix>/<job id>/<name> in a bucket.
type ObjectStager struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStager creates a stager writing to bucket through client.
func NewObjectStager(client storage.Client, bucket, prefix string) *ObjectStager {
	return &ObjectStager{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStager) jobPrefix(jobID string) string {
	return path.Join(s.prefix, path.Base(jobID)) + "/"
}

// Stage uploads r. Its size is unknown, so the client streams it in parts.
func (s *ObjectStager) Stage(ctx context.Context, jobID, name string, r io.Reader) (string, error) {
	key := s.jobPrefix(jobID) + path.Base(name)
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Open downloads a staged object.
func (s *ObjectStager) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return obj, nil
}

// Cleanup removes every object under the job prefix.
func (s *ObjectStager) Cleanup(ctx context.Context, jobID string) error {
	found := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.jobPrefix(jobID),
		Recursive: true,
	})

	var listErr error
	objects := make(chan minio.ObjectInfo)
	listed := make(chan struct{})
	go func() {
		defer close(listed)
		defer close(objects)
		for obj := range found {
			if obj.Err != nil {
				listErr = obj.Err
				continue
			}
			select {
			case objects <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err))
	}
	<-listed
	if listErr != nil {
		errs = append(errs, fmt.Errorf("failed to list job objects: %w", listErr))
	}
	return errors.Join(errs...)
}

// Jobs lists the job prefixes directly under the staging prefix.
func (s *ObjectStager) Jobs(ctx context.Context) ([]string, error) {
	root := strings.TrimSuffix(s.prefix, "/") + "/"
	var ids []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: root}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list staged jobs: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		ids = append(ids, path.Base(obj.Key))
	}
	return ids, nil
}
