package less

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"themec/common"
)

// ErrUnsupported is returned by renderer for language features it does not
// implement.
var ErrUnsupported = errors.New("unsupported construct")

// RenderOptions describes environment of the source being rendered.
type RenderOptions struct {
	// Filename of the source, relative imports are resolved against its
	// directory. Could be empty for synthetic sources.
	Filename string
	// Paths are searched for imports not found next to the source.
	Paths []string
	// ImportPrefix marks imports resolved under PackageRoot.
	ImportPrefix string
	PackageRoot  string
}

// Renderer turns LESS source into CSS.
type Renderer interface {
	Render(ctx context.Context, src string, opts RenderOptions) (string, error)
}

// NewRenderer returns renderer of requested kind. Command is only used by
// external renderer.
func NewRenderer(kind common.RendererKind, command string, fs afero.Fs, log *zap.Logger) (Renderer, error) {
	switch kind {
	case common.RendererKindBuiltin:
		return NewBuiltin(fs, log), nil
	case common.RendererKindExec:
		return NewExec(command, log)
	default:
		return nil, fmt.Errorf("unknown renderer kind %q", kind)
	}
}
