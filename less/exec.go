package less

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// Exec renders sources with external lessc compatible command. Source is
// passed on stdin, result is expected on stdout.
type Exec struct {
	argv []string
	log  *zap.Logger
}

// NewExec parses command line, for example "npx lessc --js".
func NewExec(command string, log *zap.Logger) (*Exec, error) {
	if log == nil {
		log = zap.NewNop()
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("unable to parse renderer command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("renderer command is empty")
	}
	return &Exec{argv: argv, log: log.Named("lessc")}, nil
}

// Args returns arguments passed to the command for given options.
func (x *Exec) Args(opts RenderOptions) []string {
	args := append([]string(nil), x.argv[1:]...)

	paths := make([]string, 0, len(opts.Paths)+1)
	if len(opts.Filename) > 0 {
		paths = append(paths, filepath.Dir(opts.Filename))
	}
	paths = append(paths, opts.Paths...)
	if len(paths) > 0 {
		args = append(args, "--include-path="+strings.Join(paths, string(os.PathListSeparator)))
	}
	if len(opts.ImportPrefix) > 0 && len(opts.PackageRoot) > 0 {
		// requires less-plugin-npm-import
		args = append(args, "--npm-import=prefix="+opts.ImportPrefix)
	}
	return append(args, "-")
}

// Render implements Renderer.
func (x *Exec) Render(ctx context.Context, src string, opts RenderOptions) (string, error) {
	args := x.Args(opts)

	cmd := exec.CommandContext(ctx, x.argv[0], args...)
	if len(opts.Filename) > 0 {
		cmd.Dir = filepath.Dir(opts.Filename)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	x.log.Debug("Running", zap.String("cmd", x.argv[0]), zap.Strings("args", args), zap.String("dir", cmd.Dir))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); len(msg) > 0 {
			return "", fmt.Errorf("%s failed: %w: %s", x.argv[0], err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", x.argv[0], err)
	}
	return stdout.String(), nil
}
