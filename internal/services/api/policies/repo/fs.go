// Package repo provides flat-file storage for policy documents.
// Policies are small operator-managed JSON files; a directory of them keeps
// the store inspectable and editable without tooling
package repo

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	perr "birdwatch/internal/platform/errors"
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Stat describes one stored policy file
type Stat struct {
	Name      string
	SizeBytes int64
	UpdatedAt time.Time
}

// FS stores policy documents as <dir>/<name>.json
type FS struct {
	dir string
}

// NewFS constructs an FS store rooted at dir
func NewFS(dir string) *FS { return &FS{dir: dir} }

func (f *FS) path(name string) (string, error) {
	if !nameRe.MatchString(name) || strings.Contains(name, "..") {
		return "", perr.Newf(perr.ErrorCodeInvalidArgument, "invalid policy name %q", name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

// Save writes a policy document atomically
func (f *FS) Save(name string, data []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "policy dir create failed")
	}
	tmp, err := os.CreateTemp(f.dir, "."+name+".*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "policy temp file failed")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "policy write failed")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "policy close failed")
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "policy rename failed")
	}
	return nil
}

// Read returns the raw document for name
func (f *FS) Read(name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Newf(perr.ErrorCodeNotFound, "policy %q not found", name)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "policy read failed")
	}
	return b, nil
}

// List returns stats for every stored policy, sorted by name
func (f *FS) List() ([]Stat, error) {
	ents, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "policy dir read failed")
	}
	var out []Stat
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Stat{
			Name:      strings.TrimSuffix(e.Name(), ".json"),
			SizeBytes: fi.Size(),
			UpdatedAt: fi.ModTime().UTC(),
		})
	}
	return out, nil
}
