package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "espalier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeSettings(t, `
path_articy_json: export.json
path_target_dir: game/articy
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "export.json", s.PathArticyJSON)
	assert.Equal(t, "articy_", s.FilePrefix)
	assert.Equal(t, "base.rpy", s.BaseFileName)
	assert.Equal(t, "label_", s.LabelPrefix)
	assert.Equal(t, "end", s.EndLabel)
	assert.True(t, s.MenuDisplayTextBox)
	assert.True(t, s.MarkdownTextStyles)
	assert.True(t, s.RepeatMenuText)
}

func TestLoadOverrides(t *testing.T) {
	path := writeSettings(t, `
path_articy_json: export.json
path_target_dir: game/articy
file_prefix: story_
menu_display_text_box: false
renpy_box: CodeBox
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "story_", s.FilePrefix)
	assert.False(t, s.MenuDisplayTextBox)
	assert.True(t, s.MarkdownTextStyles, "untouched keys keep their defaults")
	assert.Equal(t, map[string]bool{"CodeBox": true}, s.RawBoxTypes())
}

func TestLoadEnvWins(t *testing.T) {
	t.Setenv("ESPALIER_TARGET_DIR", "/tmp/out")
	t.Setenv("ESPALIER_DEBUG", "true")

	path := writeSettings(t, `
path_articy_json: export.json
path_target_dir: game/articy
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", s.PathTargetDir)
	assert.True(t, s.Debug)
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeSettings(t, `file_prefix: x_`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path_articy_json")
	assert.Contains(t, err.Error(), "path_target_dir")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMarkerPrefixes(t *testing.T) {
	s := Defaults()
	s.BeginningsLogLines = `# TODO, "show screen, fancy", FIXME`

	assert.Equal(t, []string{"# todo", "show screen, fancy", "fixme"}, s.MarkerPrefixes())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "a, b ,c", []string{"a", "b", "c"}},
		{"empty entries dropped", "a,,b,", []string{"a", "b"}},
		{"quoted comma", `"a, b", c`, []string{"a, b", "c"}},
		{"escaped quote", `"say \"hi\"", x`, []string{`say "hi"`, "x"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestSplitTop(t *testing.T) {
	parts := SplitTop(`speaker="a=b"`, '=')
	require.Len(t, parts, 2)
	assert.Equal(t, "speaker", parts[0])
	assert.Equal(t, `"a=b"`, parts[1])

	assert.Equal(t, []string{"bare"}, SplitTop("bare", '='))
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "plain", Unquote("plain"))
	assert.Equal(t, "a b", Unquote(`"a b"`))
	assert.Equal(t, `he said "no"`, Unquote(`"he said \"no\""`))
	assert.Equal(t, `"`, Unquote(`"`))
}
