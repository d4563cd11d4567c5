package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/confreport/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut []string
	}{
		{
			name:    "release",
			info:    BuildInfo{Version: "0.1.0", Commit: "abc1234", BuildDate: "2026-01-02"},
			wantOut: []string{"confreport v0.1.0", "commit abc1234, built 2026-01-02"},
		},
		{
			name:    "dev build",
			info:    BuildInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"},
			wantOut: []string{"confreport vdev", "commit unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, NewVersionCommand(tt.info))
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	_, err := runCommand(t, NewVersionCommand(BuildInfo{Version: "1.0.0"}), "extra")
	require.Error(t, err)
}

func TestPrintVersion_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	info := BuildInfo{Version: "1.2.3", Commit: "deadbeef", BuildDate: "2026-03-04"}

	require.NoError(t, printVersion(tr.Renderer, info))

	var got map[string]string
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"version":    "1.2.3",
		"commit":     "deadbeef",
		"build_date": "2026-03-04",
	}, got)
}

func TestPrintVersion_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	require.NoError(t, printVersion(tr.Renderer, BuildInfo{Version: "1.2.3", Commit: "c", BuildDate: "d"}))

	assert.Equal(t, "confreport v1.2.3\ncommit c, built d\n", tr.Output())
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
