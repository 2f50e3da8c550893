package less

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Ext is the extension of LESS source files.
const Ext = ".less"

// ReadSource reads LESS source file, removing BOM if present and normalizing
// line endings.
func ReadSource(fs afero.Fs, name string) (string, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return "", err
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("unable to decode %s: %w", name, err)
	}
	return strings.ReplaceAll(string(text), "\r\n", "\n"), nil
}

// ImportPath returns file system path for import target found in file
// located in dir. Targets starting with prefix are looked up under
// packageRoot.
func ImportPath(dir, target, prefix, packageRoot string) string {
	if !strings.HasSuffix(target, Ext) && !strings.HasSuffix(target, ".css") {
		target += Ext
	}
	if len(prefix) > 0 && strings.HasPrefix(target, prefix) {
		return filepath.Join(packageRoot, strings.TrimPrefix(target, prefix))
	}
	return filepath.Join(dir, target)
}
