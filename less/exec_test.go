package less_test

import (
	"context"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"

	"themec/common"
	"themec/less"
)

func TestExec_Args(t *testing.T) {
	x, err := less.NewExec(`npx lessc --js --global-var="theme=dark mode"`, nil)
	if err != nil {
		t.Fatalf("NewExec() error = %v", err)
	}

	args := x.Args(less.RenderOptions{
		Filename:     "/p/styles/a.less",
		Paths:        []string{"/lib"},
		ImportPrefix: "~",
		PackageRoot:  "/p/node_modules",
	})
	want := []string{"lessc", "--js", "--global-var=theme=dark mode", "--include-path=/p/styles:/lib", "--npm-import=prefix=~", "-"}
	if !slices.Equal(args, want) {
		t.Errorf("Args() = %q, want %q", args, want)
	}
}

func TestExec_Render(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell available")
	}

	x, err := less.NewExec("sh -c cat --", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewExec() error = %v", err)
	}
	out, err := x.Render(context.Background(), ".a { b: c; }", less.RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != ".a { b: c; }" {
		t.Errorf("Render() = %q", out)
	}

	x, _ = less.NewExec(`sh -c "echo boom >&2; exit 3" --`, zaptest.NewLogger(t))
	if _, err = x.Render(context.Background(), "", less.RenderOptions{}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Render() error = %v, want stderr in message", err)
	}
}

func TestNewExec_Empty(t *testing.T) {
	if _, err := less.NewExec("  ", nil); err == nil {
		t.Error("NewExec() must reject empty command")
	}
	if _, err := less.NewExec(`lessc "unterminated`, nil); err == nil {
		t.Error("NewExec() must reject unbalanced quotes")
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := less.NewRenderer(common.RendererKindBuiltin, "", afero.NewMemMapFs(), nil)
	if err != nil {
		t.Fatalf("NewRenderer(builtin) error = %v", err)
	}
	if _, ok := r.(*less.Builtin); !ok {
		t.Errorf("NewRenderer(builtin) = %T", r)
	}
	r, err = less.NewRenderer(common.RendererKindExec, "lessc", nil, nil)
	if err != nil {
		t.Fatalf("NewRenderer(exec) error = %v", err)
	}
	if _, ok := r.(*less.Exec); !ok {
		t.Errorf("NewRenderer(exec) = %T", r)
	}
	if _, err := less.NewRenderer(common.RendererKind(42), "", nil, nil); err == nil {
		t.Error("NewRenderer() must reject unknown kind")
	}
}
