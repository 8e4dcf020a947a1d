package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalier-dev/espalier/pkg/config"
)

func testParser(t *testing.T) *directiveParser {
	t.Helper()
	set := config.Defaults()
	return newDirectiveParser(&set)
}

func TestDirectivesDefaults(t *testing.T) {
	d, msgs := testParser(t).Parse("")
	require.Empty(t, msgs)

	assert.Empty(t, d.Label)
	assert.Empty(t, d.Speaker)
	assert.False(t, d.HasChoiceIndex)
	assert.True(t, d.DisplayTextBox)
	assert.True(t, d.RepeatMenuText)
	assert.True(t, d.Markdown)
	assert.True(t, d.BracesImg)
}

func TestDirectivesParse(t *testing.T) {
	raw := `label=intro_scene, speaker="The King, Offstage", choice_index=2, markdown=false`
	d, msgs := testParser(t).Parse(raw)
	require.Empty(t, msgs)

	assert.Equal(t, "intro_scene", d.Label)
	assert.Equal(t, "The King, Offstage", d.Speaker)
	assert.Equal(t, 2, d.ChoiceIndex)
	assert.True(t, d.HasChoiceIndex)
	assert.False(t, d.Markdown)
}

func TestDirectivesBareBool(t *testing.T) {
	set := config.Defaults()
	set.RepeatMenuText = false
	d, msgs := newDirectiveParser(&set).Parse("repeat_menu_text")
	require.Empty(t, msgs)

	assert.True(t, d.RepeatMenuText)
}

func TestDirectivesBeforeAfter(t *testing.T) {
	d, msgs := testParser(t).Parse(`before=@ happy, after=with vpunch`)
	require.Empty(t, msgs)

	assert.Equal(t, "@ happy", d.Before)
	assert.Equal(t, "with vpunch", d.After)
}

func TestDirectivesUnknownKey(t *testing.T) {
	d, msgs := testParser(t).Parse("label=x, wobble=3")
	require.Len(t, msgs, 1)

	assert.Contains(t, msgs[0], `unknown directive "wobble"`)
	assert.Equal(t, "x", d.Label, "known keys still apply")
}

func TestDirectivesBadValues(t *testing.T) {
	d, msgs := testParser(t).Parse("choice_index=first, markdown=maybe, label")
	require.Len(t, msgs, 3)

	assert.Contains(t, msgs[0], `"first" is not a number`)
	assert.Contains(t, msgs[1], `"maybe" is not a boolean`)
	assert.Contains(t, msgs[2], `directive "label" requires a value`)
	assert.False(t, d.HasChoiceIndex)
	assert.True(t, d.Markdown, "failed coercion keeps the default")
}
