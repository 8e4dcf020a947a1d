package domain

// Entity is a character (or other named actor) defined in the export.
type Entity struct {
	ID          string
	DisplayName string

	// NameVariable holds a "set.variable" reference when the display name is
	// driven by a game variable; empty means the static DisplayName is used.
	NameVariable string

	// Params are extra keyword arguments passed through to the generated
	// character definition, collected from the entity's template features.
	Params map[string]string
}
