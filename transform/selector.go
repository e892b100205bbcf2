package transform

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/madseq/lang"
)

// Selector is one serialized slicing rule.
//
// The zero value matches every element and leaves it whole. Name and Type are
// mutually exclusive, as are Density and Slice; [NewElementTransform] rejects
// a selector specifying both keys of either pair.
type Selector struct {
	// Name matches elements whose name equals this value (case-insensitive).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Type matches elements whose base type equals this value.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// UseAt honors an explicit at argument when computing the element's
	// entry position. Defaults to true.
	UseAt *bool `json:"use_at,omitempty" yaml:"use_at,omitempty"`

	// Density derives the slice count from the element length as
	// ceil(abs(L * Density)). Requires a numeric length.
	Density *float64 `json:"density,omitempty" yaml:"density,omitempty"`

	// Slice is a fixed slice count. Defaults to 1.
	Slice *int `json:"slice,omitempty" yaml:"slice,omitempty"`

	// Makethin converts matched elements to thin multipole kicks instead of
	// rescaling them in place.
	Makethin bool `json:"makethin,omitempty" yaml:"makethin,omitempty"`

	// Template emits one named template definition plus by-name references
	// instead of fully specified inline copies.
	Template bool `json:"template,omitempty" yaml:"template,omitempty"`

	// Style distributes slices as "uniform" (default) inline copies or as a
	// single parametrized "loop" construct.
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

// LoadSelectors reads an ordered selector list from a JSON or YAML file,
// chosen by file extension. YAML is a superset of JSON, so both formats
// decode through the same parser.
func LoadSelectors(path string) ([]Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	var sel []Selector

	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("path", path),
			slog.String("format", selectorFormat(path)),
		)
	}

	return sel, nil
}

func selectorFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}

	return "yaml"
}
