package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Config
		wantErr string
	}{
		{
			name:  "empty document",
			input: "",
			want:  DefaultConfig(),
		},
		{
			name: "all fields",
			input: `include: ["*.pss", "*.psi"]
exclude: [gen]
max_errors: 20
poll_interval: 250ms
`,
			want: &Config{
				Include:      []string{"*.pss", "*.psi"},
				Exclude:      []string{"gen"},
				MaxErrors:    20,
				PollInterval: 250 * time.Millisecond,
			},
		},
		{
			name:  "empty exclude list is kept",
			input: "exclude: []\n",
			want: &Config{
				Include:      []string{"*.pss"},
				Exclude:      []string{},
				PollInterval: time.Second,
			},
		},
		{name: "unknown key", input: "includes: [x]\n", wantErr: "includes"},
		{name: "negative max errors", input: "max_errors: -1\n", wantErr: "max_errors"},
		{name: "bad pattern", input: "include: ['[']\n", wantErr: "include pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ReadConfig(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("max_errors: 3\n"), 0o644))
	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MaxErrors)
	require.Len(t, cfg.ParseOptions(), 2)
}

func TestConfigMatching(t *testing.T) {
	cfg := DefaultConfig()
	require.True(t, cfg.Matches("/src/top.pss"))
	require.False(t, cfg.Matches("/src/top.pss.bak"))
	require.True(t, cfg.SkipDir(".git"))
	require.True(t, cfg.SkipDir("node_modules"))
	require.False(t, cfg.SkipDir("src"))
}
