package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/auth"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/sites-hotels-dashboard/pkg/jwt"
)

type stubAuthenticator struct {
	res *ports.BackendLogin
	err error
}

func (s stubAuthenticator) Login(context.Context, string, string) (*ports.BackendLogin, error) {
	return s.res, s.err
}

type noopSource struct{}

func (noopSource) FetchMetrics(context.Context, filter.State) (entity.Metrics, error) {
	return entity.Metrics{}, nil
}

type noopBackend struct{}

func (noopBackend) MetricsFor(ports.BackendTokens) ports.MetricsSource { return noopSource{} }

var jwtCfg = auth.JWTConfig{Secret: "s", ExpMinutes: 30, Issuer: "test"}

func newUseCase(a ports.Authenticator) (*auth.AuthUseCase, *session.Manager) {
	m := session.NewManager(memory.NewFilterRepository(), noopBackend{}, nil, zerolog.Nop())
	return auth.NewAuthUseCase(a, m, jwtCfg), m
}

func TestLogin_AbreSesionYEmiteToken(t *testing.T) {
	uc, m := newUseCase(stubAuthenticator{res: &ports.BackendLogin{
		AccessToken: "acc", RefreshToken: "ref",
		User: entity.User{ID: "9", Email: "inv@sites.co", Name: "Ana", Role: entity.RoleInversionista, Active: true},
	}})
	defer m.CloseAll()

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: " inv@sites.co ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1800, resp.ExpiresIn)
	assert.Equal(t, "Ana", resp.User.Name)

	claims, err := pkgjwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	sess, err := m.Get("9")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, claims.SessionID)
	assert.Equal(t, entity.RoleInversionista, claims.Role)
}

func TestLogin_Rechazos(t *testing.T) {
	ctx := context.Background()

	uc, _ := newUseCase(stubAuthenticator{})
	_, err := uc.Login(ctx, dto.LoginRequest{Email: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	uc, _ = newUseCase(stubAuthenticator{err: domain.ErrUnauthorized})
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	uc, m := newUseCase(stubAuthenticator{res: &ports.BackendLogin{User: entity.User{ID: "1", Role: "", Active: true}}})
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, m.Len())

	uc, _ = newUseCase(stubAuthenticator{res: &ports.BackendLogin{User: entity.User{ID: "1", Role: entity.RoleAdmin}}})
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "usuario inactivo")
}

func TestLogout(t *testing.T) {
	uc, m := newUseCase(stubAuthenticator{res: &ports.BackendLogin{
		AccessToken: "acc", User: entity.User{ID: "9", Role: entity.RoleAdmin, Active: true},
	}})
	ctx := context.Background()
	_, err := uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, "9"))
	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, uc.Logout(ctx, "9"), domain.ErrSessionNotFound)
}
