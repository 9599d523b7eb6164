package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
)

// isolate gives each test a fresh viper and an empty home directory.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"CONFIG", "KEYCRM_TOKEN", "KEYCRM_BASE_URL", "STRAPI_TOKEN", "STRAPI_BASE_URL",
		"SYNC_BATCH_SIZE", "SYNC_SCOPE", "LOG_LEVEL", "FORMAT",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultKeyCRMBase, config.KeyCRMBaseURL)
	assert.Equal(t, constants.DefaultStrapiBase, config.StrapiBaseURL)
	assert.Equal(t, "all", config.Sync.Scope)
	assert.Equal(t, 10, config.Sync.BatchSize)
	assert.Equal(t, 3*time.Second, config.Sync.BatchPause)
	assert.Equal(t, 50, config.Sync.OfferLimit)
	assert.Equal(t, 5, config.Sync.MaxAttempts)
	assert.Equal(t, time.Second, config.Sync.RetryDelay)
	assert.Equal(t, int64(1), config.Sync.RelationOffset)
	assert.Equal(t, "skip", config.Sync.EmptyStock)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.LogLevel)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("KEYCRM_TOKEN", "crm-token")
	t.Setenv("STRAPI_BASE_URL", "https://cms.example.com")
	t.Setenv("SYNC_BATCH_SIZE", "25")
	t.Setenv("SYNC_BATCH_PAUSE", "500ms")
	t.Setenv("SYNC_RELATION_OFFSET", "0")
	t.Setenv("SYNC_EMPTY_STOCK", "create")
	t.Setenv("SYNC_REQUESTS_PER_SECOND", "2.5")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "crm-token", config.KeyCRMToken)
	assert.Equal(t, "https://cms.example.com", config.StrapiBaseURL)
	assert.Equal(t, 25, config.Sync.BatchSize)
	assert.Equal(t, 500*time.Millisecond, config.Sync.BatchPause)
	assert.Equal(t, int64(0), config.Sync.RelationOffset)
	assert.Equal(t, "create", config.Sync.EmptyStock)
	assert.InDelta(t, 2.5, config.Sync.RequestsPerSecond, 0.001)
}

func TestLoadConfigFile(t *testing.T) {
	home := isolate(t)
	content := "keycrm_token: from-file\nsync:\n  batch_size: 7\n  scope: categories\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".catalogsync.yaml"), []byte(content), 0o600))
	t.Setenv("SYNC_BATCH_SIZE", "9")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.KeyCRMToken)
	assert.Equal(t, "categories", config.Sync.Scope)
	assert.Equal(t, 9, config.Sync.BatchSize, "environment wins over the file")
	assert.Equal(t, filepath.Join(home, ".catalogsync.yaml"), config.ConfigFile)
}

func TestLoadConfigExplicitFileMissing(t *testing.T) {
	home := isolate(t)

	_, err := LoadConfigFile(filepath.Join(home, "missing.yaml"))
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format, "empty flag keeps configured format")
	assert.Equal(t, "info", config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "debug")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}
