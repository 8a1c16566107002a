package inifile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	t.Parallel()

	input := `
[runtime]
sampler = test
root = /opt/pipeline

; a full-line comment
# another comment style
[pipeline]
modules = camb halofit
quiet : T
`
	doc, err := Parse(strings.NewReader(input), "test.ini")
	require.NoError(t, err)

	assert.Equal(t, []string{"runtime", "pipeline"}, doc.Names())

	runtime, ok := doc.Section("runtime")
	require.True(t, ok)
	assert.Equal(t, []string{"sampler", "root"}, runtime.Keys())
	assert.Equal(t, "test", runtime.Value("sampler"))
	assert.Equal(t, "/opt/pipeline", runtime.Value("root"))

	pipeline, ok := doc.Section("pipeline")
	require.True(t, ok)
	assert.Equal(t, "camb halofit", pipeline.Value("modules"))
	assert.Equal(t, "T", pipeline.Value("quiet"), "colon separator should work")
}

func TestParse_KeyFolding(t *testing.T) {
	t.Parallel()

	input := `
[DEFAULT]
2PT_FILE = data/2pt.fits
`
	doc, err := Parse(strings.NewReader(input), "test.ini")
	require.NoError(t, err)

	defaults := doc.Defaults()
	require.NotNil(t, defaults)
	assert.Equal(t, "data/2pt.fits", defaults.Value("2pt_file"))
	assert.Equal(t, "data/2pt.fits", defaults.Value("2PT_FILE"), "lookup folds too")
	assert.Equal(t, []string{"2pt_file"}, defaults.Keys())
}

func TestParse_Continuations(t *testing.T) {
	t.Parallel()

	input := `
[pipeline]
modules = consistency
    camb
	halofit
values = values.ini
`
	doc, err := Parse(strings.NewReader(input), "test.ini")
	require.NoError(t, err)

	section, ok := doc.Section("pipeline")
	require.True(t, ok)
	assert.Equal(t, "consistency\ncamb\nhalofit", section.Value("modules"))
	assert.Equal(t, "values.ini", section.Value("values"))
}

func TestParse_BlankLineEndsValue(t *testing.T) {
	t.Parallel()

	input := `
[pipeline]
modules = consistency

    camb = orphan
`
	_, err := Parse(strings.NewReader(input), "test.ini")
	require.Error(t, err)
	assert.ErrorContains(t, err, "continuation line without a preceding entry")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		wantMsg string
		wantLn  int
	}{
		{
			name:    "duplicate section",
			input:   "[camb]\nfile = a.py\n[camb]\n",
			wantMsg: `duplicate section "camb"`,
			wantLn:  3,
		},
		{
			name:    "duplicate key",
			input:   "[camb]\nfile = a.py\nFILE = b.py\n",
			wantMsg: `duplicate key "file"`,
			wantLn:  3,
		},
		{
			name:    "entry before section",
			input:   "file = a.py\n",
			wantMsg: "entry before any section header",
			wantLn:  1,
		},
		{
			name:    "unterminated header",
			input:   "[camb\n",
			wantMsg: "missing closing ']'",
			wantLn:  1,
		},
		{
			name:    "junk after header",
			input:   "[camb] extra\n",
			wantMsg: "unexpected text after section header",
			wantLn:  1,
		},
		{
			name:    "empty section name",
			input:   "[  ]\n",
			wantMsg: "empty section name",
			wantLn:  1,
		},
		{
			name:    "no separator",
			input:   "[camb]\njust some words\n",
			wantMsg: "expected 'key = value'",
			wantLn:  2,
		},
		{
			name:    "empty key",
			input:   "[camb]\n= value\n",
			wantMsg: "empty key",
			wantLn:  2,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tc.input), "bad.ini")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantMsg)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "bad.ini", parseErr.File)
			assert.Equal(t, tc.wantLn, parseErr.Line)
		})
	}
}

func TestParse_ValueKeepsInterpolationSyntax(t *testing.T) {
	t.Parallel()

	input := `
[camb]
file = ${COSMOSIS_SRC_DIR}/boltzmann/camb.py
data = %(2PT_FILE)s
`
	doc, err := Parse(strings.NewReader(input), "test.ini")
	require.NoError(t, err)

	section, _ := doc.Section("camb")
	assert.Equal(t, "${COSMOSIS_SRC_DIR}/boltzmann/camb.py", section.Value("file"))
	assert.Equal(t, "%(2PT_FILE)s", section.Value("data"))
}

func TestSection_Set(t *testing.T) {
	t.Parallel()

	doc := NewDocument("mem")
	s, err := doc.AddSection("camb")
	require.NoError(t, err)

	s.Set("file", "a.py")
	s.Set("mode", "all")
	s.Set("FILE", "b.py") // replaces in place, keeps position

	assert.Equal(t, []string{"file", "mode"}, s.Keys())
	assert.Equal(t, "b.py", s.Value("file"))
}
