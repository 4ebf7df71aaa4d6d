// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/deliver/internal/issue"
	"github.com/invowk/deliver/internal/testutil"
	"github.com/invowk/deliver/pkg/cmdtree"
)

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	if opts.ConfigDirPath == "" && opts.ConfigFilePath == "" {
		opts.ConfigDirPath = t.TempDir()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	return NewProvider().Load(context.Background(), opts)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.DefaultConflict != cmdtree.KindUniqueOrFail {
		t.Errorf("DefaultConflict = %q, want %q", cfg.DefaultConflict, cmdtree.KindUniqueOrFail)
	}
	if cfg.LogLevel != LogLevelInfo || cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Theme != "charm" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "config.cue", `
search_paths: ["/opt/agents", "/srv/agents"]
default_conflict: "drop-with-warning"
ui: {
	verbose: true
	theme: "dracula"
}
`)

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if !slices.Equal(cfg.SearchPaths, []string{"/opt/agents", "/srv/agents"}) {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
	if cfg.DefaultConflict != cmdtree.KindDropWithWarning {
		t.Errorf("DefaultConflict = %q", cfg.DefaultConflict)
	}
	if !cfg.UI.Verbose || cfg.UI.Theme != "dracula" {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, LogLevelInfo)
	}
	if cfg.EffectiveLogLevel() != LogLevelDebug {
		t.Errorf("EffectiveLogLevel() = %q, want debug when verbose", cfg.EffectiveLogLevel())
	}
}

func TestLoad_LocalFileFallback(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	path := testutil.MustWriteFile(t, work, LocalConfigFile, `log_level: "warn"`+"\n")

	cfg, err := load(t, LoadOptions{WorkDir: work})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path || cfg.LogLevel != LogLevelWarn {
		t.Errorf("Load() = source %q level %q, want %q warn", cfg.Source, cfg.LogLevel, path)
	}
}

func TestLoad_ConfigDirWinsOverLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	work := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `log_level: "error"`+"\n")
	testutil.MustWriteFile(t, work, LocalConfigFile, `log_level: "warn"`+"\n")

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir, WorkDir: work})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != LogLevelError {
		t.Errorf("LogLevel = %q, want error from the config dir", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing bool
		want    string
	}{
		{name: "missing explicit file", missing: true, want: "config file not found"},
		{name: "syntax error", content: "log_level: {\n", want: "config.cue"},
		{name: "value outside schema", content: `default_conflict: "merge"` + "\n", want: "default_conflict"},
		{name: "unknown field", content: `colour: "red"` + "\n", want: "colour"},
		{name: "empty search path", content: `search_paths: [""]` + "\n", want: "search_paths"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.cue")
			if !tt.missing {
				path = testutil.MustWriteFile(t, filepath.Dir(path), "config.cue", tt.content)
			}

			_, err := load(t, LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error type = %T, want *issue.ActionableError", err)
			}
			if ae.Issue != issue.ConfigLoadFailedId || !ae.HasSuggestions() {
				t.Errorf("ActionableError = %+v, want issue and suggestions", ae)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "DELIVER_LOG_LEVEL", "debug"))
	t.Cleanup(testutil.MustSetenv(t, "DELIVER_UI_ACCESSIBLE", "true"))

	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `log_level: "warn"`+"\n")

	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want the environment to win", cfg.LogLevel)
	}
	if !cfg.UI.Accessible {
		t.Error("UI.Accessible = false, want true from DELIVER_UI_ACCESSIBLE")
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "DELIVER_DEFAULT_CONFLICT", "merge"))

	_, err := load(t, LoadOptions{})
	if !errors.Is(err, cmdtree.ErrInvalidResolutionKind) {
		t.Errorf("Load() error = %v, want ErrInvalidResolutionKind", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.SearchPaths = []string{"/opt/agents"}
	want.DefaultConflict = cmdtree.KindPromptForChoice
	want.UI.Accessible = true

	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := load(t, LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(want))
	}
	if !slices.Equal(got.SearchPaths, want.SearchPaths) || got.DefaultConflict != want.DefaultConflict || got.UI != want.UI {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	testutil.MustWriteFile(t, dir, "config.cue", `log_level: "error"`+"\n")
	if _, err := CreateDefaultConfig(false); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	cfg, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != LogLevelError {
		t.Errorf("existing config was overwritten without force")
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if ok, errs := cfg.IsValid(); !ok {
		t.Fatalf("DefaultConfig().IsValid() = %v", errs)
	}

	cfg.LogLevel = "loud"
	cfg.UI.ColorScheme = "neon"
	ok, errs := cfg.IsValid()
	if ok || len(errs) != 2 {
		t.Fatalf("IsValid() = %v, %v; want two errors", ok, errs)
	}
	if !errors.Is(errs[0], ErrInvalidLogLevel) || !errors.Is(errs[1], ErrInvalidColorScheme) {
		t.Errorf("errors = %v", errs)
	}
}
