package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Pagination.PageSize)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, "data/media", cfg.Storage.LocalDir)
	assert.Equal(t, "ads", cfg.Storage.KeyPrefix)
	assert.Equal(t, 60, cfg.Storage.URLTTLMinutes)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ADBOARD_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("ADBOARD_PAGINATION_PAGESIZE", "25")
	t.Setenv("ADBOARD_LOG_LEVEL", "DEBUG")
	t.Setenv("ADBOARD_STORAGE_DRIVER", "s3")
	t.Setenv("ADBOARD_STORAGE_BUCKET", "ads-images")
	t.Setenv("ADBOARD_STORAGE_KEYPREFIX", "/listing/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Pagination.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, "ads-images", cfg.Storage.Bucket)
	assert.Equal(t, "listing", cfg.Storage.KeyPrefix)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero page size", map[string]string{"ADBOARD_PAGINATION_PAGESIZE": "0"}},
		{"negative page size", map[string]string{"ADBOARD_PAGINATION_PAGESIZE": "-3"}},
		{"unknown storage driver", map[string]string{"ADBOARD_STORAGE_DRIVER": "ftp"}},
		{"s3 without bucket", map[string]string{"ADBOARD_STORAGE_DRIVER": "s3"}},
		{"unknown log level", map[string]string{"ADBOARD_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
