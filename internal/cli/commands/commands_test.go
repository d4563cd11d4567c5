package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/confreport/internal/cli/config"
	"github.com/leapstack-labs/confreport/internal/cli/testutil"
	"github.com/leapstack-labs/confreport/internal/report"
	itestutil "github.com/leapstack-labs/confreport/internal/testutil"
	"github.com/leapstack-labs/confreport/pkg/configtables"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	// A nil slice makes cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandsUseDefaultsWithoutRoot(t *testing.T) {
	cfgPath, specPath := testutil.SetupFixtures(t, testutil.ValidConfig)

	out, err := runCommand(t, NewTablesCommand(), cfgPath, specPath)
	require.NoError(t, err)

	// A buffer is not a terminal, so auto mode renders markdown tables.
	assert.Contains(t, out, "| Port | 8443 |")
	testutil.AssertNoANSI(t, out)
}

func TestNewCommandContext(t *testing.T) {
	config.ResetConfig()
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	cc := NewCommandContext(cmd)
	assert.Equal(t, config.Default(), cc.Cfg)
	assert.NotNil(t, cc.Logger)
	assert.NotNil(t, cc.Renderer)
	assert.False(t, cc.Renderer.IsTTY())
}

func TestReportOptions(t *testing.T) {
	tests := []struct {
		name     string
		renderer *testutil.TestRenderer
		style    string
		wantErr  bool
	}{
		{name: "text", renderer: testutil.NewTestRendererText(), style: "double"},
		{name: "markdown", renderer: testutil.NewTestRendererMarkdown(), style: "light"},
		{name: "unknown style", renderer: testutil.NewTestRendererText(), style: "fancy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Style = tt.style
			cfg.Marker = "#"
			cc := &CommandContext{Cfg: cfg, Logger: itestutil.NewTestLogger(t), Renderer: tt.renderer.Renderer}

			opts, err := cc.ReportOptions()
			if tt.wantErr {
				var typeErr *configtables.InvalidTableTypeError
				require.ErrorAs(t, err, &typeErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "#", opts.Marker)
			assert.Equal(t, config.DefaultDelimiter, opts.Delimiter)
			assert.Equal(t, config.DefaultTreePrefix, opts.TreePrefix)
			assert.True(t, opts.IncludeMissing)
			assert.False(t, opts.IncludeValid)
			assert.IsType(t, &configtables.PrettyRenderer{}, opts.Renderer)
		})
	}
}

func TestCheck_TextOutput(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantErr  error
		contains []string
		absent   []string
	}{
		{
			name:     "valid prints tables",
			config:   testutil.ValidConfig,
			contains: []string{"General Info", "auth, cache", "OK: Configuration is valid."},
			absent:   []string{"Configuration errors"},
		},
		{
			name:     "invalid prints the error tree",
			config:   testutil.InvalidConfig,
			wantErr:  ErrInvalidConfig,
			contains: []string{"Configuration errors", "⤷ port: the value \"80\" is too small."},
			absent:   []string{"General Info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath, specPath := testutil.SetupFixtures(t, tt.config)
			tr := testutil.NewTestRendererText()
			cc := &CommandContext{Cfg: config.Default(), Logger: itestutil.NewTestLogger(t), Renderer: tr.Renderer}

			err := cc.check(context.Background(), cfgPath, specPath)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, tr.Output(), want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, tr.Output(), unwanted)
			}
		})
	}
}

func TestPrintTables_Empty(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	cc := &CommandContext{Cfg: config.Default(), Renderer: tr.Renderer}

	cc.printTables(&report.Report{})
	assert.Equal(t, "No tables to show.\n", tr.Output())
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := testutil.WriteFixture(t, dir, "config.yaml", "a: 1\n")
	other := testutil.WriteFixture(t, dir, "other.yaml", "b: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, itestutil.NewTestLogger(t), []string{watched}, func() {
			calls.Add(1)
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("b: 2\n"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("a: 2\n"), 0o600))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change to the watched file was not reported")
	}

	// Rapid writes settle into a single call.
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "config.yaml")
	err := watchFiles(context.Background(), itestutil.NewTestLogger(t), []string{missing}, func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
