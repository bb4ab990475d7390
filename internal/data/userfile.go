package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

// UserFile persists the credential store as a single JSON document.
//
// Two on-disk shapes are accepted on read: the canonical list form
// {"usuarios":[{...}]} and the legacy map form {"<username>": {...}}.
// Both normalize to models.UserStore; writes always produce the list form.
type UserFile struct {
	path string
	mu   sync.Mutex
}

func NewUserFile(path string) *UserFile {
	return &UserFile{path: path}
}

// Path returns the backing file location.
func (f *UserFile) Path() string { return f.path }

// Load reads and normalizes the credential file. A missing file is not an
// error: it yields an empty store. So does any unrecognized document shape.
func (f *UserFile) Load() (*models.UserStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *UserFile) load() (*models.UserStore, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &models.UserStore{Usuarios: []*models.UserRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	return normalize(raw), nil
}

// normalize maps either accepted document shape onto the canonical store.
func normalize(raw []byte) *models.UserStore {
	empty := &models.UserStore{Usuarios: []*models.UserRecord{}}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Top level is not an object (list, scalar, garbage).
		return empty
	}

	if list, ok := doc["usuarios"]; ok {
		var store models.UserStore
		if err := json.Unmarshal(list, &store.Usuarios); err != nil {
			return empty
		}
		if store.Usuarios == nil {
			store.Usuarios = []*models.UserRecord{}
		}
		return &store
	}

	// Legacy map form: each key is a username, each value a fields object.
	store := &models.UserStore{Usuarios: []*models.UserRecord{}}
	for username, fields := range doc {
		rec := &models.UserRecord{Username: username}
		// A non-object value still produces a record carrying the username.
		_ = json.Unmarshal(fields, rec)
		rec.Username = username
		store.Usuarios = append(store.Usuarios, rec)
	}
	return store
}

// Save overwrites the credential file with the canonical list form. The
// document is staged in a temp file and renamed into place so a concurrent
// reader never observes a half-written file.
func (f *UserFile) Save(store *models.UserStore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(store)
}

func (f *UserFile) save(store *models.UserStore) error {
	buf, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("stage users file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close users file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}

// Update runs fn against the freshly loaded store and persists the result
// when fn reports a change. The store stays locked for the whole cycle, so
// concurrent in-process mutations do not lose updates. Cross-process
// writers still race (last writer wins), a known limitation of the flat
// file format.
func (f *UserFile) Update(fn func(*models.UserStore) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	store, err := f.load()
	if err != nil {
		return err
	}
	if !fn(store) {
		return nil
	}
	return f.save(store)
}
