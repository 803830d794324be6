package config

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"epubdeco/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report writing to configured destination or, when
// it cannot be created, to a temporary file.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

// entry is either a snapshot of data taken when it was stored or a link to
// a file read when report is closed (logs, metrics).
type entry struct {
	source string
	stamp  time.Time
	data   []byte
	linked bool
}

// Report collects scene inputs, command outputs, logs and metrics of a run
// into a zip archive. Not safe for concurrent use. Nil Report is valid and
// stores nothing.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store links file which is still being written, it is read when report is
// closed. Missing files are skipped.
func (r *Report) Store(name, file string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	r.add(name, entry{source: file, linked: true})
}

// StoreData saves data under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.add(name, entry{source: "-", stamp: time.Now(), data: bytes.Clone(data)})
}

// StoreYAML marshals v and saves result under requested name.
func (r *Report) StoreYAML(name string, v any) error {
	if r == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to marshal %s for report: %w", name, err)
	}
	r.StoreData(name, data)
	return nil
}

// StoreCopy takes snapshot of a regular file, later changes of the file do
// not affect report.
func (r *Report) StoreCopy(name, file string) error {
	if r == nil {
		return nil
	}
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to store %q in report: not a regular file", file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	r.add(name, entry{source: file, stamp: info.ModTime(), data: data})
	return nil
}

// add keeps every stored entry, repeated names get numeric suffix.
func (r *Report) add(name string, e entry) {
	name = entryName(name)
	unique := name
	for n := 2; ; n++ {
		if _, exists := r.entries[unique]; !exists {
			break
		}
		ext := path.Ext(name)
		unique = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
	}
	r.entries[unique] = e
}

// entryName makes slash separated relative archive path out of name.
func entryName(name string) string {
	name = strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(`<>":|?*`, sym) {
			return -1
		}
		if sym == '\\' {
			return '/'
		}
		return sym
	}, name)
	name = strings.TrimLeft(path.Clean("/"+name), "/.")
	if len(name) == 0 {
		return "_bad_entry_name_"
	}
	return name
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names := slices.Collect(maps.Keys(r.entries))
	sort.Sort(natural.StringSlice(names))

	var manifest bytes.Buffer
	now := time.Now()
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), name, e.source)
	}

	err := saveFile(arc, "MANIFEST", now, &manifest)
	for _, name := range names {
		if err != nil {
			break
		}
		e := r.entries[name]
		if !e.linked {
			err = saveFile(arc, name, e.stamp, bytes.NewReader(e.data))
			continue
		}
		err = saveLinked(arc, name, e.source)
	}
	return multierr.Append(err, arc.Close())
}

func saveLinked(arc *zip.Writer, name, file string) error {
	f, err := os.Open(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return saveFile(arc, name, info.ModTime(), f)
}

func saveFile(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	return nil
}
