package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReportClose_Archive(t *testing.T) {
	dir := t.TempDir()

	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	logFile := filepath.Join(dir, "run.log")
	if err := os.WriteFile(logFile, []byte("log line"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"/theme/vars.less":      "@brand-color: #0052d9;",
		"/theme/base/base.less": "@radius: 3px;",
	} {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rpt.Store("final.log", logFile)
	rpt.Store("absent.log", filepath.Join(dir, "absent.log"))
	rpt.StoreData("theme/custom-theme.css", []byte(":root{}"))
	if err := rpt.StoreCopy(fs, "variables", "/theme"); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	if err := rpt.StoreCopy(fs, "entry.less", "/theme/vars.less"); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}

	// snapshot is taken at the time of a call
	if err := afero.WriteFile(fs, "/theme/vars.less", []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, rpt.Name())
	want := map[string]string{
		"final.log":                "log line",
		"theme/custom-theme.css":   ":root{}",
		"variables/vars.less":      "@brand-color: #0052d9;",
		"variables/base/base.less": "@radius: 3px;",
		"entry.less":               "@brand-color: #0052d9;",
	}
	for name, content := range want {
		if got, ok := files[name]; !ok || got != content {
			t.Errorf("report entry %s = %q (present %v), want %q", name, got, ok, content)
		}
	}
	if _, ok := files["absent.log"]; ok {
		t.Error("absent file should not be archived")
	}
	if !strings.Contains(files["MANIFEST"], "absent.log") {
		t.Errorf("MANIFEST misses stored entry:\n%s", files["MANIFEST"])
	}
}

func TestReportStoreCopy_Missing(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy(afero.NewMemMapFs(), "x", "/missing"); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy(afero.NewMemMapFs(), "a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name of nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
