package standard

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

// DefaultID is the standard used when a lookup does not match any known id.
const DefaultID = "us"

//go:embed standards.yaml
var standardsYAML []byte

// PhotoStandard describes one jurisdiction's photo requirements. Values are
// physical measurements in the standard's unit ("mm" or "inch").
type PhotoStandard struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Country       string   `yaml:"country" json:"country"`
	Width         float64  `yaml:"width" json:"width"`
	Height        float64  `yaml:"height" json:"height"`
	Unit          string   `yaml:"unit" json:"unit"`
	HeadMin       float64  `yaml:"head_min" json:"head_min"`
	HeadMax       float64  `yaml:"head_max" json:"head_max"`
	EyeFromBottom float64  `yaml:"eye_from_bottom" json:"eye_from_bottom"`
	Background    string   `yaml:"background" json:"background"`
	BackgroundRGB [3]uint8 `yaml:"background_rgb" json:"background_rgb"`
	Note          string   `yaml:"note" json:"note,omitempty"`
}

type standardsTable struct {
	Standards []PhotoStandard `yaml:"standards"`
}

var (
	ordered  []PhotoStandard
	registry map[string]PhotoStandard
)

func init() {
	var t standardsTable
	if err := yaml.Unmarshal(standardsYAML, &t); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded standards.yaml: " + err.Error())
	}
	ordered = t.Standards
	registry = make(map[string]PhotoStandard, len(ordered))
	for _, s := range ordered {
		registry[s.ID] = s
	}
	if _, ok := registry[DefaultID]; !ok {
		panic("standards.yaml does not define the default standard " + DefaultID)
	}
}

// Lookup returns the standard for the given id. Unknown ids fall back to the
// default standard rather than failing.
func Lookup(id string) PhotoStandard {
	if s, ok := registry[id]; ok {
		return s
	}
	return registry[DefaultID]
}

// Known reports whether id maps to a registered standard.
func Known(id string) bool {
	_, ok := registry[id]
	return ok
}

// All returns every registered standard in table order.
func All() []PhotoStandard {
	out := make([]PhotoStandard, len(ordered))
	copy(out, ordered)
	return out
}
