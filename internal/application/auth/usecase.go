package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/session"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login contra el backend y apertura de la sesión del tablero.
type AuthUseCase struct {
	authenticator ports.Authenticator
	sessions      *session.Manager
	jwtCfg        JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(authenticator ports.Authenticator, sessions *session.Manager, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{authenticator: authenticator, sessions: sessions, jwtCfg: jwtCfg}
}

// Login valida credenciales en el backend, abre la sesión (restaurando el
// último filtro) y emite el JWT de la BFF.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}

	res, err := uc.authenticator.Login(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	user := res.User
	if !user.Active {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	if user.Role == "" {
		return nil, fmt.Errorf("%w: tipo de usuario no reconocido", domain.ErrForbidden)
	}

	sess, err := uc.sessions.Open(ctx, user, res.Tokens())
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, sess.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		_ = uc.sessions.Close(ctx, user.ID)
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      toUserResponse(user),
	}, nil
}

// Logout cierra la sesión: el filtro vuelve a sus valores por defecto.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	return uc.sessions.Close(ctx, userID)
}

func toUserResponse(u entity.User) dto.UserResponse {
	name := u.FullName()
	if name == "" {
		name = u.Email
	}
	return dto.UserResponse{ID: u.ID, Email: u.Email, Name: name, Role: u.Role}
}
