package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertExpression(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"booleans", "visited == true", "visited == True"},
		{"false literal", "flag == false", "flag == False"},
		{"literal inside identifier untouched", "truely_odd == 1", "truely_odd == 1"},
		{"and", "a && b", "a and b"},
		{"or", "a||b", "a or b"},
		{"negation", "!flag", "not flag"},
		{"inequality preserved", "a != b", "a != b"},
		{"negated group", "!(a && b)", "not (a and b)"},
		{"double negation", "!!flag", "not not flag"},
		{"mixed", "!done && tries != 3 || last == true", "not done and tries != 3 or last == True"},
		{"whitespace trimmed", "  x > 1  ", "x > 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertExpression(tt.in))
		})
	}
}

func TestInstructions(t *testing.T) {
	assert.Equal(t,
		[]string{"x = True", "y = y + 1"},
		Instructions("x = true; y = y + 1"))

	assert.Equal(t, []string{"x = 1"}, Instructions("x = 1;"))
	assert.Nil(t, Instructions("  ;  "))
	assert.Nil(t, Instructions(""))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", singleLine("a\r\nb\n  c  "))
	assert.Equal(t, "", singleLine("  \r\n "))
}
