package checks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reconciler/core/staging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stagedJobs(t *testing.T, ids ...string) (*staging.LocalStager, string) {
	t.Helper()
	root := t.TempDir()
	s := staging.NewLocalStager(root)
	for _, id := range ids {
		_, err := s.Stage(context.Background(), id, "source.csv", strings.NewReader("id\n1\n"))
		require.NoError(t, err)
	}
	return s, root
}

func TestCheckStaging(t *testing.T) {
	s, _ := stagedJobs(t, "running", "completed", "failed", "deleted")

	known := map[string]bool{"running": true, "completed": false, "failed": true}
	lookup := func(_ context.Context, id string) (bool, bool, error) {
		keep, ok := known[id]
		return ok, keep, nil
	}

	report, err := CheckStaging(context.Background(), s, lookup)
	require.NoError(t, err)
	assert.Equal(t, 4, report.StagedJobs)
	assert.Equal(t, []string{"completed", "deleted"}, report.Orphaned)
}

func TestCheckStaging_LookupFails(t *testing.T) {
	s, _ := stagedJobs(t, "job-1")
	lookup := func(context.Context, string) (bool, bool, error) {
		return false, false, errors.New("database gone")
	}

	_, err := CheckStaging(context.Background(), s, lookup)
	assert.ErrorContains(t, err, "database gone")
}

func TestFixStaging(t *testing.T) {
	s, root := stagedJobs(t, "keep", "drop")

	require.NoError(t, FixStaging(context.Background(), s, zap.NewNop(), []string{"drop"}))

	_, err := os.Stat(filepath.Join(root, "drop"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "keep"))
	assert.NoError(t, err)
}
