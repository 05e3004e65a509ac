package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.BodyLimitMB)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "local", cfg.Staging.Driver)
	assert.Equal(t, 100, cfg.Queue.Capacity)
	assert.Equal(t, 5*time.Second, cfg.Queue.SubmitTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Queue.StaleAfter)
	assert.Equal(t, "@every 5m", cfg.Queue.SweepSchedule)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("QUEUE_CAPACITY", "7")
	t.Setenv("QUEUE_POLL_TIMEOUT", "250ms")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Queue.Capacity)
	assert.Equal(t, 250*time.Millisecond, cfg.Queue.PollTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_API_KEY") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Server.ApiKey)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRuleset(t *testing.T) {
	yaml := `name: payments
match_key: id
fields:
  - name: id
    data_type: string
    required: true
  - name: amount
    data_type: Float
  - name: note
`
	schema, err := LoadRuleset(writeFile(t, "rules.yaml", yaml))
	require.NoError(t, err)

	assert.Equal(t, &reconcile.Schema{
		Name:     "payments",
		MatchKey: "id",
		Fields: []reconcile.FieldDefinition{
			{Name: "id", Type: reconcile.FieldString, Required: true},
			{Name: "amount", Type: reconcile.FieldFloat},
			{Name: "note", Type: reconcile.FieldString},
		},
	}, schema)
}

func TestLoadRuleset_JSON(t *testing.T) {
	path := writeFile(t, "rules.json", `{"name":"r","match_key":"ref","fields":[{"name":"ref","data_type":"integer"}]}`)

	schema, err := LoadRuleset(path)
	require.NoError(t, err)
	assert.Equal(t, reconcile.FieldInteger, schema.Fields[0].Type)
}

func TestLoadRuleset_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing match key", `{"name":"r"}`, "match_key is required"},
		{"unknown type", `{"match_key":"id","fields":[{"name":"id","data_type":"money"}]}`, "unknown data type"},
		{"duplicate field", `{"match_key":"id","fields":[{"name":"id"},{"name":"id"}]}`, "duplicate field"},
		{"unnamed field", `{"match_key":"id","fields":[{"data_type":"string"}]}`, "has no name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRuleset(writeFile(t, "rules.json", tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
