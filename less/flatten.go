package less

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrImportCycle is returned when file imports itself, directly or not.
var ErrImportCycle = errors.New("import cycle")

// DefaultImportPrefix marks imports resolved under package root.
const DefaultImportPrefix = "~"

var reImport = regexp.MustCompile(`^@import[^'"]*['"]([^'"]*)['"]`)

// ImportTarget returns quoted path from import line.
func ImportTarget(line string) (string, bool) {
	m := reImport.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Flattener inlines imported files into single source text. It is intended
// for variable files, so imports are only recognized at the beginning of a
// line and whole lines are replaced.
type Flattener struct {
	Fs          afero.Fs
	PackageRoot string
	Log         *zap.Logger
}

// Flatten returns content of entry with all imports replaced by content of
// imported files, recursively.
// Flattener is not modified, so it may be shared between goroutines.
func (f *Flattener) Flatten(entry string) (string, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}
	return f.flatten(filepath.Clean(entry), nil, log)
}

func (f *Flattener) flatten(name string, chain []string, log *zap.Logger) (string, error) {
	if slices.Contains(chain, name) {
		return "", fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(slices.Clone(chain), name), " -> "))
	}

	src, err := ReadSource(f.Fs, name)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", name, err)
	}

	chain = append(slices.Clip(chain), name)
	dir := filepath.Dir(name)

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "@import") {
			continue
		}
		target, ok := ImportTarget(line)
		if !ok {
			log.Debug("Unrecognized import, left as is", zap.String("file", name), zap.Int("line", i+1))
			continue
		}
		imported, err := f.flatten(ImportPath(dir, target, DefaultImportPrefix, f.PackageRoot), chain, log)
		if err != nil {
			return "", err
		}
		lines[i] = imported
	}
	return strings.Join(lines, "\n"), nil
}
