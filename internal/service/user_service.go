package service

import (
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mili4400/FinanzApp-Cloud/internal/data"
	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

// ErrUserExists is returned when provisioning a username that is already
// taken.
var ErrUserExists = errors.New("user already exists")

// UserService owns the credential file: authentication, ticker history and
// provisioning all go through it.
type UserService struct {
	store *data.UserFile
}

func NewUserService(store *data.UserFile) *UserService {
	return &UserService{store: store}
}

// Authenticate checks the submitted password for username. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) bool {
	store, err := s.store.Load()
	if err != nil {
		log.Printf("load users for auth: %v", err)
		return false
	}
	u := store.Find(username)
	if u == nil {
		return false
	}
	return verifyPassword(u.Password, password)
}

// verifyPassword accepts either a bcrypt hash (the "$2" prefix) or a
// legacy plaintext value. Plaintext records are insecure and kept only for
// compatibility with existing credential files.
func verifyPassword(stored, provided string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
	}
	return stored == provided
}

// Lookup returns the record for username, or nil.
func (s *UserService) Lookup(username string) *models.UserRecord {
	store, err := s.store.Load()
	if err != nil {
		log.Printf("load users: %v", err)
		return nil
	}
	return store.Find(username)
}

// RecordAccess puts ticker at the front of the user's history unless it is
// already present anywhere in the list; repeated access does not promote
// it. The list never exceeds models.MaxHistory entries. A persistence
// failure is logged and swallowed so it cannot interrupt the data flow
// that triggered it.
func (s *UserService) RecordAccess(username, ticker string) {
	err := s.store.Update(func(store *models.UserStore) bool {
		u := store.Find(username)
		if u == nil {
			return false
		}
		for _, t := range u.Historial {
			if t == ticker {
				return false
			}
		}
		u.Historial = append([]string{ticker}, u.Historial...)
		if len(u.Historial) > models.MaxHistory {
			u.Historial = u.Historial[:models.MaxHistory]
		}
		return true
	})
	if err != nil {
		log.Printf("record ticker history for %s: %v", username, err)
	}
}

// History returns the stored ticker list verbatim; unknown users get an
// empty list.
func (s *UserService) History(username string) []string {
	u := s.Lookup(username)
	if u == nil || u.Historial == nil {
		return []string{}
	}
	return u.Historial
}

// AddUser provisions a new record with a bcrypt-hashed password and
// persists it. The username must not already exist.
func (s *UserService) AddUser(username, password, language string) error {
	if language == "" {
		language = "es"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	var exists bool
	err = s.store.Update(func(store *models.UserStore) bool {
		if store.Find(username) != nil {
			exists = true
			return false
		}
		store.Usuarios = append(store.Usuarios, &models.UserRecord{
			Username:  username,
			Password:  string(hash),
			Historial: []string{},
			Language:  language,
		})
		return true
	})
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}
	return nil
}
