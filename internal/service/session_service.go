package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"codecore/internal/domain"
)

// SessionService establece y destruye sesiones de servidor. El token es
// opaco; el transporte (cookie) lo decide la capa HTTP.
type SessionService struct {
	store TokenStore
	ttl   time.Duration
}

var ErrSessionInvalid = errors.New("session invalid")

func NewSessionService(store TokenStore, ttl time.Duration) *SessionService {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &SessionService{
		store: store,
		ttl:   ttl,
	}
}

// TTL devuelve la vigencia de las sesiones emitidas.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Establish crea una sesión nueva para la cuenta y devuelve su token.
func (s *SessionService) Establish(account domain.Account) (string, error) {
	if account.ID == "" {
		return "", ErrSessionInvalid
	}
	token := uuid.NewString()
	if err := s.store.Store(token, account.ID, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve devuelve el id de cuenta asociado a un token de sesión vigente.
func (s *SessionService) Resolve(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrSessionInvalid
	}
	accountID, ok, err := s.store.Get(token)
	if err != nil {
		return "", err
	}
	if !ok || accountID == "" {
		return "", ErrSessionInvalid
	}
	return accountID, nil
}

// Destroy invalida el token de sesión; destruir una sesión inexistente no
// es un error.
func (s *SessionService) Destroy(token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.store.Revoke(token)
}
