package settings

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"), testLogger())

	th := store.Load(context.Background())

	assert.Equal(t, domain.DefaultThresholds(), th)
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("not json {{"), 0644))

	store := NewStore(path, testLogger())
	th := store.Load(context.Background())

	assert.Equal(t, domain.DefaultThresholds(), th)
}

func TestLoadIncompleteFileReturnsDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing pick count", `{"minute_threshold": 45}`},
		{"missing minutes", `{"picking_count_threshold": 5}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			store := NewStore(path, testLogger())
			th := store.Load(context.Background())

			assert.Equal(t, domain.DefaultThresholds(), th)
		})
	}
}

func TestLoadNegativeValuesReturnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"minute_threshold": -1, "picking_count_threshold": 0}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	store := NewStore(path, testLogger())
	th := store.Load(context.Background())

	assert.Equal(t, domain.DefaultThresholds(), th)
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"minute_threshold": 45.5, "picking_count_threshold": 10}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	store := NewStore(path, testLogger())
	th := store.Load(context.Background())

	assert.Equal(t, 45.5, th.MinuteThreshold)
	assert.Equal(t, int64(10), th.PickCountThreshold)
}

func TestLoadExplicitZeroesAreValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"minute_threshold": 0, "picking_count_threshold": 0}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	store := NewStore(path, testLogger())
	th := store.Load(context.Background())

	assert.Equal(t, 0.0, th.MinuteThreshold)
	assert.Equal(t, int64(0), th.PickCountThreshold)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(path, testLogger())
	ctx := context.Background()

	want := domain.Thresholds{MinuteThreshold: 25, PickCountThreshold: 3}
	require.NoError(t, store.Save(ctx, want))

	assert.Equal(t, want, store.Load(ctx))
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")
	store := NewStore(path, testLogger())

	err := store.Save(context.Background(), domain.DefaultThresholds())

	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSaveWritesBothKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(path, testLogger())

	th := domain.Thresholds{MinuteThreshold: 30, PickCountThreshold: 0}
	require.NoError(t, store.Save(context.Background(), th))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "minute_threshold")
	assert.Contains(t, doc, "picking_count_threshold")
}

func TestSaveReplacesPreviousContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(path, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Thresholds{MinuteThreshold: 60, PickCountThreshold: 9}))
	require.NoError(t, store.Save(ctx, domain.Thresholds{MinuteThreshold: 15, PickCountThreshold: 1}))

	th := store.Load(ctx)
	assert.Equal(t, 15.0, th.MinuteThreshold)
	assert.Equal(t, int64(1), th.PickCountThreshold)
}

func TestNewStoreNilLoggerDefaults(t *testing.T) {
	store := NewStore("settings.json", nil)

	assert.NotNil(t, store.logger)
	assert.Equal(t, "settings.json", store.Path())
}
