package less

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"themec/color"
)

var (
	ErrUndefinedVariable    = errors.New("undefined variable")
	ErrCyclicReference      = errors.New("cyclic variable reference")
	ErrInvalidResolvedValue = errors.New("resolved value is not a recognized color")
)

// VariableMap keeps variables in order of first definition. Redefinition
// replaces value but keeps position.
type VariableMap struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewVariableMap returns empty map.
func NewVariableMap() *VariableMap {
	return &VariableMap{m: orderedmap.NewOrderedMap[string, string]()}
}

// BuildVariableMap collects variable declarations from sources. Sources are
// processed in order, so later sources override earlier ones.
func BuildVariableMap(log *zap.Logger, sources ...string) *VariableMap {
	if log == nil {
		log = zap.NewNop()
	}

	vars := NewVariableMap()
	for i, src := range sources {
		for n, line := range strings.Split(src, "\n") {
			line = strings.TrimRight(line, "\r")
			if len(line) == 0 || line[0] != Sigil || !strings.Contains(line, ":") {
				continue
			}
			d, err := ScanDeclaration(line)
			if err != nil {
				log.Debug("Skipping line", zap.Int("source", i), zap.Int("line", n+1), zap.Error(err))
				continue
			}
			d.Line = n + 1
			if err := vars.Declare(d); err != nil {
				log.Debug("Dropping variable", zap.String("name", d.Name), zap.Int("source", i), zap.Int("line", d.Line), zap.Error(err))
			}
		}
	}
	return vars
}

// Declare adds declaration to the map. References are dereferenced against
// already known variables and must end up at valid color, otherwise
// declaration is rejected and map is left unchanged.
func (v *VariableMap) Declare(d Declaration) error {
	if !d.IsReference() {
		v.m.Set(d.Name, d.Value)
		return nil
	}
	value, err := v.Resolve(d.Value)
	if err != nil {
		return err
	}
	if !color.IsValid(value) {
		return fmt.Errorf("%w: %s -> %q", ErrInvalidResolvedValue, d.Value, value)
	}
	v.m.Set(d.Name, value)
	return nil
}

// Resolve follows chain of references starting with name and returns first
// value which is not a name of another variable.
func (v *VariableMap) Resolve(name string) (string, error) {
	visited := make(map[string]struct{})
	for cur := name; ; {
		if _, ok := visited[cur]; ok {
			return "", fmt.Errorf("%w: %s", ErrCyclicReference, name)
		}
		visited[cur] = struct{}{}

		value, ok := v.m.Get(cur)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUndefinedVariable, cur)
		}
		if !v.m.Has(value) {
			return value, nil
		}
		cur = value
	}
}

// Set stores value as is.
func (v *VariableMap) Set(name, value string) {
	v.m.Set(name, value)
}

func (v *VariableMap) Get(name string) (string, bool) {
	return v.m.Get(name)
}

func (v *VariableMap) Has(name string) bool {
	return v.m.Has(name)
}

func (v *VariableMap) Len() int {
	return v.m.Len()
}

// Names returns variable names in definition order.
func (v *VariableMap) Names() []string {
	names := make([]string, 0, v.m.Len())
	for name := range v.m.Keys() {
		names = append(names, name)
	}
	return names
}

// All iterates over variables in definition order.
func (v *VariableMap) All() iter.Seq2[string, string] {
	return v.m.AllFromFront()
}

// Source renders map back as LESS declarations, one per line.
func (v *VariableMap) Source() string {
	var sb strings.Builder
	for name, value := range v.m.AllFromFront() {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString(";\n")
	}
	return sb.String()
}

// MarshalYAML keeps definition order.
func (v *VariableMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for name, value := range v.m.AllFromFront() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}
