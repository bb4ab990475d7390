package models

// UserRecord is one entry of the credential file. Password holds either a
// bcrypt hash (recognizable by its "$2" prefix) or a legacy plaintext value.
type UserRecord struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Historial []string `json:"historial"`
	Language  string   `json:"language,omitempty"`
}

// MaxHistory bounds the per-user ticker history length.
const MaxHistory = 50

// UserStore is the canonical in-memory form of the credential file.
type UserStore struct {
	Usuarios []*UserRecord `json:"usuarios"`
}

// Find returns the record for username, or nil.
func (s *UserStore) Find(username string) *UserRecord {
	for _, u := range s.Usuarios {
		if u.Username == username {
			return u
		}
	}
	return nil
}
