package persist

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/errs"
	"github.com/vk/devconsole/internal/variable"
)

// Finder resolves persisted names back to live variables.
type Finder interface {
	FindVariableByName(name string) (*variable.Variable, bool)
}

// Store is the file-backed variable store.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store backed by the file at path. A nil logger uses slog.Default().
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: ctxlog.OrDefault(logger).With("component", "persist", "path", path),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Archivable reports whether v belongs in the store.
func Archivable(v *variable.Variable) bool {
	return !v.IsDefault() && !v.HasFlag(variable.NoArchive)
}

// Save writes every archivable variable, in the given order. Errors are
// logged and returned; the previous file is left untouched on failure.
func (s *Store) Save(vars []*variable.Variable) error {
	records := make([]Record, 0, len(vars))
	for _, v := range vars {
		if Archivable(v) {
			records = append(records, Record{Name: v.Name(), Value: v.Value()})
		}
	}

	if err := s.writeAtomic(records); err != nil {
		err = errs.E(errs.Persistence, "persist.Save", err)
		s.logger.Error("Failed to save console variables.", "error", err)
		return err
	}
	s.logger.Debug("Console variables saved.", "count", len(records))
	return nil
}

func (s *Store) writeAtomic(records []Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Load applies stored values to the variables found by finder. Each applied
// variable goes through SetValue, so observers fire as usual, and is then
// passed to onLoaded (which may be nil). It returns the number applied.
//
// Records naming an unknown variable, or an enum value that is no longer a
// member, are skipped with a warning. A missing file is an empty store. Other failures are logged and the load
// stops; records applied before the failure stay applied.
func (s *Store) Load(finder Finder, onLoaded func(*variable.Variable)) int {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("No saved console variables.")
			return 0
		}
		s.logger.Error("Failed to open console variable store.", "error", errs.E(errs.Persistence, "persist.Load", err))
		return 0
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		s.logger.Error("Console variable store is unreadable.", "error", errs.E(errs.Persistence, "persist.Load", err), "records_read", len(records))
	}

	applied := 0
	for _, rec := range records {
		v, ok := finder.FindVariableByName(rec.Name)
		if !ok {
			s.logger.Warn("Skipping saved value for unknown variable.", "name", rec.Name)
			continue
		}
		if v.Type() == variable.Enum && !v.IsMember(rec.Value) {
			s.logger.Warn("Skipping saved value that is no longer an enum member.", "name", rec.Name, "value", rec.Value)
			continue
		}
		v.SetValue(rec.Value)
		if onLoaded != nil {
			onLoaded(v)
		}
		applied++
	}
	s.logger.Debug("Console variables loaded.", "applied", applied, "records", len(records))
	return applied
}

// Remove deletes the backing file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.E(errs.Persistence, "persist.Remove", err)
	}
	return nil
}
