package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
)

type fakeAuth struct {
	calls int
	token string
	err   error
}

func (f *fakeAuth) Register(context.Context, string, string, string) (string, error) {
	f.calls++
	return f.token, f.err
}

func (f *fakeAuth) Login(context.Context, string, string) (string, error) {
	f.calls++
	return f.token, f.err
}

func (f *fakeAuth) Me(context.Context) (domain.User, error) {
	return domain.User{ID: 1, Username: "ada"}, f.err
}

type memSession struct {
	token   string
	cleared bool
}

func (m *memSession) Token() (string, error) {
	if m.token == "" {
		return "", domain.ErrNoSession
	}
	return m.token, nil
}
func (m *memSession) Save(token string) error { m.token = token; return nil }
func (m *memSession) Clear() error { m.token, m.cleared = "", true; return nil }

func TestRegister_ShortPasswordRejectedBeforeNetwork(t *testing.T) {
	api := &fakeAuth{token: "jwt"}
	uc := &AuthUseCase{Log: zap.NewNop(), API: api, Sessions: &memSession{}}

	err := uc.Register(t.Context(), "ada", "ada@example.com", "12345")
	require.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Zero(t, api.calls)
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"ok", "ada", "ada@example.com", "longenough", nil},
		{"short username", "ab", "ada@example.com", "longenough", ErrInvalidUsername},
		{"long username", strings.Repeat("a", 101), "ada@example.com", "longenough", ErrInvalidUsername},
		{"bad email", "ada", "not-an-email", "longenough", ErrInvalidEmail},
		{"exactly eight", "ada", "ada@example.com", "12345678", nil},
		{"seven", "ada", "ada@example.com", "1234567", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.username, tc.email, tc.password)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	store := loadedStore(t)
	sess := &memSession{}
	api := &fakeAuth{token: "jwt"}
	uc := &AuthUseCase{Log: zap.NewNop(), API: api, Sessions: sess, Store: store}

	require.NoError(t, uc.Register(t.Context(), "ada", "ada@example.com", "longenough"))
	assert.Equal(t, "jwt", sess.token)
	assert.Empty(t, store.Snapshot().Projects, "new session starts empty")

	require.NoError(t, uc.Login(t.Context(), "ada", "longenough"))
	assert.Equal(t, 2, api.calls)

	require.NoError(t, uc.Logout())
	assert.True(t, sess.cleared)
	_, err := sess.Token()
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	api := &fakeAuth{}
	uc := &AuthUseCase{Log: zap.NewNop(), API: api, Sessions: &memSession{}}
	assert.Error(t, uc.Login(t.Context(), "", "x"))
	assert.Zero(t, api.calls)
}
