package domain

import "strings"

// VariableSet is one namespace of global variables from the export.
type VariableSet struct {
	Namespace   string
	Description string
	Variables   []Variable
}

// ScriptName is the namespace as generated script spells it: first letter
// lowercased. Dynamic character names and the variable file agree on it.
func (s VariableSet) ScriptName() string {
	if s.Namespace == "" {
		return ""
	}
	return strings.ToLower(s.Namespace[:1]) + s.Namespace[1:]
}

// Variable is a single declared variable. Type is one of the export's
// "Boolean", "Integer" or "String"; Value is the default literal as text.
type Variable struct {
	Name        string
	Type        string
	Value       string
	Description string
}
