package ports

import (
	"context"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
)

// BackendLogin resultado de un login exitoso contra el backend.
type BackendLogin struct {
	AccessToken  string
	RefreshToken string
	User         entity.User
}

// Tokens par de tokens del usuario en el backend.
func (l BackendLogin) Tokens() BackendTokens {
	return BackendTokens{Access: l.AccessToken, Refresh: l.RefreshToken}
}

// Authenticator valida credenciales contra el servicio de usuarios.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*BackendLogin, error)
}
