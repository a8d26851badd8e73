// Package auth проверяет учётные данные администратора и выпускает токены доступа.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/wellness-events/internal/lib/jwt"
	"github.com/magabrotheeeer/wellness-events/internal/lib/password"
)

// ErrInvalidCredentials возвращается при неверном имени или пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session выданный токен администратора.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Service аутентифицирует единственного администратора из конфигурации.
type Service struct {
	username     string
	passwordHash string
	jwtMaker     jwt.Maker
}

// NewAuthService создаёт Service.
func NewAuthService(username, passwordHash string, jwtMaker jwt.Maker) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		jwtMaker:     jwtMaker,
	}
}

// Login проверяет имя и пароль и выпускает токен с ролью admin.
func (s *Service) Login(_ context.Context, username, rawPassword string) (*Session, error) {
	const op = "auth.Login"
	if s.username == "" || s.passwordHash == "" {
		return nil, fmt.Errorf("%s: admin account is not configured: %w", op, ErrInvalidCredentials)
	}

	// Пароль проверяется и при неверном имени, чтобы время ответа не зависело от него.
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := password.CompareHash(s.passwordHash, rawPassword)
	if !nameOK || passErr != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(s.username, jwt.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{Token: token, Username: s.username, Role: jwt.RoleAdmin}, nil
}
