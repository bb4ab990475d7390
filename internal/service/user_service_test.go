package service

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mili4400/FinanzApp-Cloud/internal/data"
	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

func newUserService(t *testing.T, records ...*models.UserRecord) *UserService {
	t.Helper()
	store := data.NewUserFile(filepath.Join(t.TempDir(), "users.json"))
	if len(records) > 0 {
		require.NoError(t, store.Save(&models.UserStore{Usuarios: records}))
	}
	return NewUserService(store)
}

func TestAuthenticatePlaintext(t *testing.T) {
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: "secret"})

	assert.True(t, svc.Authenticate("a", "secret"))
	assert.False(t, svc.Authenticate("a", "wrong"))
	assert.False(t, svc.Authenticate("b", "x"))
}

func TestAuthenticateBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: string(hash)})

	assert.True(t, svc.Authenticate("a", "secret"))
	assert.False(t, svc.Authenticate("a", "wrong"))
}

func TestAuthenticateEmptyStoredPasswordFails(t *testing.T) {
	svc := newUserService(t, &models.UserRecord{Username: "a"})
	assert.False(t, svc.Authenticate("a", ""))
}

func TestAuthenticateMalformedBcryptHashFails(t *testing.T) {
	// Carries the bcrypt marker but is not a valid hash; verification must
	// fail rather than fall back to plaintext comparison.
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: "$2-not-a-hash"})
	assert.False(t, svc.Authenticate("a", "$2-not-a-hash"))
}

func TestRecordAccessInsertsAtFront(t *testing.T) {
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: "x"})

	svc.RecordAccess("a", "AAPL.US")
	svc.RecordAccess("a", "MSFT.US")

	assert.Equal(t, []string{"MSFT.US", "AAPL.US"}, svc.History("a"))
}

func TestRecordAccessRepeatIsNoOp(t *testing.T) {
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: "x"})

	svc.RecordAccess("a", "AAPL.US")
	svc.RecordAccess("a", "MSFT.US")
	// Repeat access keeps the existing position.
	svc.RecordAccess("a", "AAPL.US")

	assert.Equal(t, []string{"MSFT.US", "AAPL.US"}, svc.History("a"))
}

func TestRecordAccessBoundsHistory(t *testing.T) {
	svc := newUserService(t, &models.UserRecord{Username: "a", Password: "x"})

	for i := 0; i < models.MaxHistory+10; i++ {
		svc.RecordAccess("a", fmt.Sprintf("T%03d.US", i))
	}

	history := svc.History("a")
	require.Len(t, history, models.MaxHistory)
	// Most recent first; the oldest entries fell off the tail.
	assert.Equal(t, fmt.Sprintf("T%03d.US", models.MaxHistory+9), history[0])

	seen := make(map[string]bool)
	for _, tk := range history {
		assert.False(t, seen[tk], "duplicate ticker %s", tk)
		seen[tk] = true
	}
}

func TestRecordAccessUnknownUserIsNoOp(t *testing.T) {
	svc := newUserService(t)
	svc.RecordAccess("ghost", "AAPL.US")
	assert.Empty(t, svc.History("ghost"))
}

func TestHistoryUnknownUserIsEmpty(t *testing.T) {
	svc := newUserService(t)
	assert.Equal(t, []string{}, svc.History("nobody"))
}

func TestAddUserHashesPassword(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.AddUser("ana", "secret", "en"))

	rec := svc.Lookup("ana")
	require.NotNil(t, rec)
	assert.True(t, len(rec.Password) > 0 && rec.Password[:2] == "$2", "password should be bcrypt-hashed")
	assert.Equal(t, "en", rec.Language)
	assert.True(t, svc.Authenticate("ana", "secret"))
}

func TestAddUserRejectsDuplicate(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.AddUser("ana", "secret", ""))
	assert.ErrorIs(t, svc.AddUser("ana", "other", ""), ErrUserExists)
}
