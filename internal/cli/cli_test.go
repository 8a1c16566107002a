package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipeini/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErrCode  int // 0 means no error expected
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy path with all flags",
			args: []string{
				"-config", "/test/pipeline.ini",
				"--render",
				"--format=yaml",
				"--output=/test/out.yaml",
				"--env=COSMOSIS_SRC_DIR=/opt/cosmosis",
				"--env=RUN_NAME=chain-a",
				"--no-os-env",
				"--strict",
				"--log-level=debug",
				"--log-format=json",
			},
			expectedConfig: &app.Config{
				ConfigPath:   "/test/pipeline.ini",
				Render:       true,
				Format:       "yaml",
				OutputPath:   "/test/out.yaml",
				EnvOverrides: []string{"COSMOSIS_SRC_DIR=/opt/cosmosis", "RUN_NAME=chain-a"},
				NoOSEnv:      true,
				Strict:       true,
				LogLevel:     "debug",
				LogFormat:    "json",
			},
		},
		{
			name: "Shorthand flag and defaults",
			args: []string{"-c", "/short/pipeline.ini"},
			expectedConfig: &app.Config{
				ConfigPath: "/short/pipeline.ini",
				Format:     "ini",
				LogLevel:   "info",
				LogFormat:  "text",
			},
		},
		{
			name: "Positional argument for path",
			args: []string{"/positional/pipeline.ini"},
			expectedConfig: &app.Config{
				ConfigPath: "/positional/pipeline.ini",
				Format:     "ini",
				LogLevel:   "info",
				LogFormat:  "text",
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "No path prints usage and exits",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "CONFIG_PATH"), "Expected usage text to be printed")
			},
		},
		{
			name:          "Invalid log level",
			args:          []string{"-c", "x.ini", "--log-level=loud"},
			expectErrCode: 2,
		},
		{
			name:          "Invalid log format",
			args:          []string{"-c", "x.ini", "--log-format=xml"},
			expectErrCode: 2,
		},
		{
			name:          "Invalid render format",
			args:          []string{"-c", "x.ini", "--format=toml"},
			expectErrCode: 2,
		},
		{
			name:          "Output without render",
			args:          []string{"-c", "x.ini", "--output=/tmp/out.ini"},
			expectErrCode: 2,
		},
		{
			name:          "Lint combined with watch",
			args:          []string{"-c", "configs/", "--lint", "--watch"},
			expectErrCode: 2,
		},
		{
			name:          "Watch combined with render",
			args:          []string{"-c", "x.ini", "--watch", "--render"},
			expectErrCode: 2,
		},
		{
			name:          "Watch combined with plan",
			args:          []string{"-c", "x.ini", "--watch", "--plan"},
			expectErrCode: 2,
		},
		{
			name:          "Malformed env override",
			args:          []string{"-c", "x.ini", "--env=NOEQUALS"},
			expectErrCode: 2,
		},
		{
			name:          "Unknown flag",
			args:          []string{"--definitely-not-a-flag"},
			expectErrCode: 2,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			config, shouldExit, err := Parse(tc.args, out)

			if tc.expectErrCode != 0 {
				require.Error(t, err)
				exitErr, ok := err.(*ExitError)
				require.True(t, ok, "expected an *ExitError, got %T", err)
				assert.Equal(t, tc.expectErrCode, exitErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectExit, shouldExit)
			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, config); diff != "" {
					t.Fatalf("unexpected config (-want +got):\n%s", diff)
				}
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
