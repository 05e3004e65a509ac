package staging

import (
	"context"
	"fmt"
	"io"

	"reconciler/core/storage"
)

// Stager keeps the input files of a job between upload and processing.
type Stager interface {
	// Stage stores r as name in the working area of jobID and returns its path.
	Stage(ctx context.Context, jobID, name string, r io.Reader) (string, error)
	// Open returns the content of a path previously returned by Stage.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Cleanup removes the whole working area of jobID.
	Cleanup(ctx context.Context, jobID string) error
	// Jobs lists the ids of jobs that currently have a working area.
	Jobs(ctx context.Context) ([]string, error)
}

// New creates the Stager selected by cfg.Driver. The object driver stages into
// bucket through client.
func New(cfg Config, client storage.Client, bucket string) (Stager, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalStager(cfg.LocalRoot), nil
	case DriverObject:
		if client == nil {
			return nil, fmt.Errorf("object staging requires a storage client")
		}
		return NewObjectStager(client, bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown staging driver %q", cfg.Driver)
	}
}
