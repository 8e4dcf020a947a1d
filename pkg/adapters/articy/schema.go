package articy

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// export is the outer envelope of an articy:draft JSON export.
type export struct {
	Packages []struct {
		Models []model `json:"Models"`
	} `json:"Packages"`
	Hierarchy         hierarchyNode      `json:"Hierarchy"`
	GlobalVariables   []variableSet      `json:"GlobalVariables"`
	ObjectDefinitions []objectDefinition `json:"ObjectDefinitions"`
}

// model carries one flow object. Properties is heterogeneous per type and
// decoded separately; Template holds the custom feature values.
type model struct {
	Type       string                    `json:"Type"`
	Properties map[string]any            `json:"Properties"`
	Template   map[string]map[string]any `json:"Template"`
}

type hierarchyNode struct {
	ID       string          `json:"Id"`
	Type     string          `json:"Type"`
	Children []hierarchyNode `json:"Children"`
}

type variableSet struct {
	Namespace   string `json:"Namespace"`
	Description string `json:"Description"`
	Variables   []struct {
		Variable    string `json:"Variable"`
		Type        string `json:"Type"`
		Value       any    `json:"Value"`
		Description string `json:"Description"`
	} `json:"Variables"`
}

type objectDefinition struct {
	Type  string `json:"Type"`
	Class string `json:"Class"`
}

// modelProperties is the typed view of a model's Properties bag. Fields a
// given type does not carry simply stay zero.
type modelProperties struct {
	ID              string `mapstructure:"Id"`
	Parent          string `mapstructure:"Parent"`
	DisplayName     string `mapstructure:"DisplayName"`
	Text            string `mapstructure:"Text"`
	MenuText        string `mapstructure:"MenuText"`
	StageDirections string `mapstructure:"StageDirections"`
	Speaker         string `mapstructure:"Speaker"`
	Expression      string `mapstructure:"Expression"`
	Target          string `mapstructure:"Target"`

	InputPins  []pinSchema `mapstructure:"InputPins"`
	OutputPins []pinSchema `mapstructure:"OutputPins"`
}

type pinSchema struct {
	ID          string             `mapstructure:"Id"`
	Owner       string             `mapstructure:"Owner"`
	Text        string             `mapstructure:"Text"`
	Connections []connectionSchema `mapstructure:"Connections"`
}

type connectionSchema struct {
	Label     string `mapstructure:"Label"`
	Target    string `mapstructure:"Target"`
	TargetPin string `mapstructure:"TargetPin"`
}

// decodeProperties maps one Properties bag into the typed view. Weak typing
// absorbs exports that serialize ids as numbers.
func decodeProperties(props map[string]any) (modelProperties, error) {
	var out modelProperties
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(props); err != nil {
		return out, fmt.Errorf("decode properties: %w", err)
	}
	return out, nil
}

// stringValue normalizes a JSON scalar into its text form.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
