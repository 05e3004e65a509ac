// Package storage wraps the MinIO Go client behind a small interface, so job
// inputs can be staged on S3 compatible object storage and the staging code can
// be tested against the mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
