package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TENADMIN_API_URL", "https://api.example.com")
	t.Setenv("TENADMIN_LOCALE", "ar")
	t.Setenv("TENADMIN_TIMEOUT", "45s")
	t.Setenv("TENADMIN_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, i18n.Arabic, cfg.Locale)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(cfg.DataDir, "session.json"), cfg.TokenFile)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("TENADMIN_API_URL", "")
	t.Setenv("TENADMIN_DATA_DIR", t.TempDir())

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TENADMIN_API_URL")
}

func TestStandardDefaultLiterals(t *testing.T) {
	t.Parallel()

	d := StandardDefaults()
	assert.Equal(t, 123, d.CommercialRecord)
	assert.Equal(t, 1, d.Capacity)
	assert.Equal(t, "767.23", d.SubscriptionPrice)
	assert.Equal(t, "2025-08-01", d.StartDate)
	assert.Equal(t, "2030-01-01", d.EndDate)
	assert.Equal(t, 1, d.ManagerID)
}

func TestDefaultOverridesFromEnv(t *testing.T) {
	t.Setenv("TENADMIN_API_URL", "https://api.example.com")
	t.Setenv("TENADMIN_DATA_DIR", t.TempDir())
	t.Setenv("TENADMIN_DEFAULT_PRICE", "100.00")
	t.Setenv("TENADMIN_DEFAULT_COMMERCIAL_RECORD", "999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "100.00", cfg.Defaults.SubscriptionPrice)
	assert.Equal(t, 999, cfg.Defaults.CommercialRecord)
	assert.Equal(t, "2025-08-01", cfg.Defaults.StartDate)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("TENADMIN_API_URL", "https://api.example.com")
	t.Setenv("TENADMIN_DATA_DIR", t.TempDir())
	t.Setenv("TENADMIN_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestWatchIntervalFloor(t *testing.T) {
	t.Setenv("TENADMIN_API_URL", "https://api.example.com")
	t.Setenv("TENADMIN_DATA_DIR", t.TempDir())
	t.Setenv("TENADMIN_WATCH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.WatchInterval)
}

func TestWatcherFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TENADMIN_LOCALE=en\n"), 0o600))

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(envPath, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(envPath, []byte("TENADMIN_LOCALE=ar\n"), 0o600))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected change notification")
	}
}
