// Package layout loads the report layout: which ticket stages become rows
// and where each value is drawn on the template image.
package layout

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Point is a pixel position, origin top-left.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Anchor positions the date label relative to the top-right corner.
type Anchor struct {
	Right int `yaml:"right"`
	Top   int `yaml:"top"`
}

// Layout is the static report configuration.
type Layout struct {
	DateAnchor Anchor           `yaml:"date_anchor"`
	Stages     []string         `yaml:"stages"`
	Cells      map[string]Point `yaml:"cells"`
}

// Default returns the built-in layout.
func Default() (*Layout, error) {
	return parse(defaultYAML)
}

// Load reads a layout file. An empty path returns the built-in layout.
func Load(path string) (*Layout, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "layout: read %s", path)
	}
	return parse(data)
}

func parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, eris.Wrap(err, "layout: parse")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks that at least one stage is configured and that no stage
// label is blank.
func (l *Layout) Validate() error {
	if len(l.Stages) == 0 {
		return eris.New("layout: no stages configured")
	}
	for i, s := range l.Stages {
		if strings.TrimSpace(s) == "" {
			return eris.Errorf("layout: stage %d is blank", i)
		}
	}
	return nil
}

// Cell returns the position for a metric key.
func (l *Layout) Cell(key string) (Point, bool) {
	p, ok := l.Cells[key]
	return p, ok
}

// DatePosition returns where the date label starts on an image of the given
// width.
func (l *Layout) DatePosition(width int) Point {
	return Point{X: width - l.DateAnchor.Right, Y: l.DateAnchor.Top}
}
