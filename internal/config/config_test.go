package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.DefaultLayout(), cfg.Layout)
	assert.Equal(t, "shift", cfg.FocusModifier)
	assert.False(t, cfg.Redis.Enabled())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "dagview.yaml",
			content: `
addr: ":9090"
log:
  level: debug
redis:
  addr: "localhost:6379"
  ttl: 2h
layout:
  rankdir: TB
`,
		},
		{
			name: "toml",
			file: "dagview.toml",
			content: `
addr = ":9090"
[log]
level = "debug"
[redis]
addr = "localhost:6379"
ttl = "2h"
[layout]
rankdir = "TB"
`,
		},
		{
			name:    "json",
			file:    "dagview.json",
			content: `{"addr": ":9090", "log": {"level": "debug"}, "redis": {"addr": "localhost:6379", "ttl": "2h"}, "layout": {"rankdir": "TB"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(write(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, ":9090", cfg.Addr)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format, "unset fields keep defaults")
			assert.True(t, cfg.Redis.Enabled())
			assert.Equal(t, "dagview:view:", cfg.Redis.Prefix)

			ttl, err := cfg.Redis.TTLDuration()
			require.NoError(t, err)
			assert.Equal(t, 2*time.Hour, ttl)

			assert.Equal(t, "TB", cfg.Layout.RankDir)
			assert.Equal(t, 30, cfg.Layout.FitViewPadding)
			assert.True(t, cfg.Layout.SortByCombo)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(write(t, "bad.yaml", "addr: [unclosed"))
	assert.Error(t, err)

	_, err = Load(write(t, "ttl.yaml", "redis:\n  ttl: soon\n"))
	assert.ErrorContains(t, err, "invalid redis ttl")

	_, err = Load(write(t, "format.yaml", "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "unknown log format")
}
