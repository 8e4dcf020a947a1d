package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalExport = `{
  "Packages": [{"Models": [
    {"Type": "FlowFragment", "Properties": {
      "Id": "0x01", "DisplayName": "Chapter 1",
      "InputPins": [{"Id": "in-0x01", "Owner": "0x01",
        "Connections": [{"Target": "0x02", "TargetPin": "in-0x02"}]}],
      "OutputPins": [{"Id": "out-0x01", "Owner": "0x01"}]}},
    {"Type": "DialogueFragment", "Properties": {
      "Id": "0x02", "Parent": "0x01", "Text": "Hello.",
      "InputPins": [{"Id": "in-0x02", "Owner": "0x02"}],
      "OutputPins": [{"Id": "out-0x02", "Owner": "0x02"}]}}
  ]}],
  "Hierarchy": {"Id": "p", "Type": "Project", "Children": [
    {"Id": "f", "Type": "Flow", "Children": [{"Id": "0x01", "Type": "FlowFragment"}]}]},
  "GlobalVariables": [],
  "ObjectDefinitions": []
}`

func projectSettings(t *testing.T) (settingsPath, targetDir string) {
	t.Helper()
	dir := t.TempDir()
	export := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(export, []byte(minimalExport), 0o644))
	targetDir = filepath.Join(dir, "game", "generated")
	settingsPath = writeSettings(t, fmt.Sprintf(
		"path_articy_json: %s\npath_target_dir: %s\n", export, targetDir))
	return settingsPath, targetDir
}

func TestRunCompile_EndToEnd(t *testing.T) {
	settings, target := projectSettings(t)

	require.NoError(t, RunCompile(RunOptions{SettingsPath: settings}))

	base, err := os.ReadFile(filepath.Join(target, "articy_base.rpy"))
	require.NoError(t, err)
	assert.Contains(t, string(base), "label start:")
	assert.Contains(t, string(base), "jump label_0x01")

	chapter, err := os.ReadFile(filepath.Join(target, "chapter_1", "articy_chapter_1.rpy"))
	require.NoError(t, err)
	assert.Contains(t, string(chapter), "label label_0x02:")
	assert.Contains(t, string(chapter), `"Hello."`)

	_, err = os.Stat(filepath.Join(target, "articy_log.txt"))
	assert.NoError(t, err)
}

func TestRunValidate_WritesNothing(t *testing.T) {
	settings, target := projectSettings(t)

	require.NoError(t, RunValidate(RunOptions{SettingsPath: settings}))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err), "validate must not create the target directory")
}

func TestRunCompile_BadExport(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(export, []byte("{not json"), 0o644))
	settings := writeSettings(t, fmt.Sprintf(
		"path_articy_json: %s\npath_target_dir: %s\n", export, filepath.Join(dir, "out")))

	err := RunCompile(RunOptions{SettingsPath: settings})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse export")
}
