package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	arc, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer arc.Close()

	res := make(map[string]string)
	for _, f := range arc.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		res[f.Name] = string(data)
	}
	return res
}

func newReport(t *testing.T) (*Report, string) {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: dest}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	return r, dest
}

func TestReportStoreCopy_Snapshot(t *testing.T) {
	r, dest := newReport(t)

	src := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(src, []byte("href: a.xhtml\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := r.StoreCopy("scene/scene.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	if err := os.WriteFile(src, []byte("href: b.xhtml\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test file: %v", err)
	}
	if err := r.StoreCopy("scene/scene.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	if err := r.StoreCopy("scene", filepath.Dir(src)); err == nil {
		t.Errorf("StoreCopy() of a directory should fail")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, dest)
	if files["scene/scene.yaml"] != "href: a.xhtml\n" {
		t.Errorf("unexpected first snapshot: %q", files["scene/scene.yaml"])
	}
	if files["scene/scene-2.yaml"] != "href: b.xhtml\n" {
		t.Errorf("unexpected second snapshot: %q", files["scene/scene-2.yaml"])
	}
}

func TestReportStore_LinkedReadOnClose(t *testing.T) {
	r, dest := newReport(t)

	dir := t.TempDir()
	log := filepath.Join(dir, "decor.log")
	if err := os.WriteFile(log, []byte("started\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	r.Store("final.log", log)
	r.Store("panic.log", filepath.Join(dir, "missing.log"))
	if err := os.WriteFile(log, []byte("started\nfinished\n"), 0644); err != nil {
		t.Fatalf("failed to append test file: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, dest)
	if files["final.log"] != "started\nfinished\n" {
		t.Errorf("linked file should be read on close, got %q", files["final.log"])
	}
	if _, ok := files["panic.log"]; ok {
		t.Errorf("missing linked file should be skipped")
	}
	if !strings.Contains(files["MANIFEST"], "panic.log") {
		t.Errorf("manifest should list every stored entry:\n%s", files["MANIFEST"])
	}
}

func TestEntryName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"output/changes.yaml", "output/changes.yaml"},
		{`output\layout.xhtml`, "output/layout.xhtml"},
		{"../../etc/passwd", "etc/passwd"},
		{"/abs/name", "abs/name"},
		{`out<put>?.txt`, "output.txt"},
		{"..", "_bad_entry_name_"},
	}
	for _, tt := range tests {
		if got := entryName(tt.in); got != tt.want {
			t.Errorf("entryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReportStoreYAML(t *testing.T) {
	r, dest := newReport(t)
	if err := r.StoreYAML("changes-10.yaml", map[string]int{"added": 1}); err != nil {
		t.Fatalf("StoreYAML() error: %v", err)
	}
	if err := r.StoreYAML("changes-2.yaml", map[string]int{"removed": 2}); err != nil {
		t.Fatalf("StoreYAML() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, dest)
	if files["changes-10.yaml"] != "added: 1\n" {
		t.Errorf("unexpected content: %q", files["changes-10.yaml"])
	}
	manifest := files["MANIFEST"]
	if strings.Index(manifest, "changes-2.yaml") > strings.Index(manifest, "changes-10.yaml") {
		t.Errorf("manifest is not in natural order:\n%s", manifest)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report should return nil, got: %v", err)
	}
	if err := r.StoreYAML("x", 1); err != nil {
		t.Errorf("StoreYAML() on nil report should return nil, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report should be empty")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close() with nil file should return nil, got: %v", err)
	}
}
