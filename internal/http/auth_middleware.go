package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"codecore/internal/domain"
	"codecore/internal/service"
)

const (
	authAccountKey = "auth_account"
	authSessionKey = "auth_session_token"
)

// AuthMiddleware resuelve la identidad actual de cada request: primero por
// cookie de sesión, después por access token Bearer.
type AuthMiddleware struct {
	cookieName string
	sessions   *service.SessionService
	jwtServ    *service.JWTService
	accounts   *service.AccountService
}

func NewAuthMiddleware(cookieName string, sessions *service.SessionService, jwtServ *service.JWTService, accounts *service.AccountService) *AuthMiddleware {
	return &AuthMiddleware{
		cookieName: cookieName,
		sessions:   sessions,
		jwtServ:    jwtServ,
		accounts:   accounts,
	}
}

// Require corta con 401 si no hay identidad autenticada.
func (m *AuthMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := m.resolve(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional resuelve la identidad si existe y sigue en cualquier caso.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (domain.Account, string, bool) {
	if account, ok := GetAuthAccount(c); ok {
		token, _ := GetSessionToken(c)
		return account, token, true
	}

	if m.sessions != nil {
		if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
			if accountID, err := m.sessions.Resolve(token); err == nil {
				if account, err := m.accounts.GetAccount(c.Request.Context(), accountID); err == nil && account.IsActive {
					c.Set(authAccountKey, account)
					c.Set(authSessionKey, token)
					return account, token, true
				}
			}
		}
	}

	if m.jwtServ != nil {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
			raw := strings.TrimSpace(header[len("Bearer "):])
			if claims, err := m.jwtServ.ParseAccessToken(raw); err == nil {
				if account, err := m.accounts.GetAccount(c.Request.Context(), claims.AccountID); err == nil && account.IsActive {
					c.Set(authAccountKey, account)
					return account, "", true
				}
			}
		}
	}

	return domain.Account{}, "", false
}

// GetAuthAccount obtiene la cuenta autenticada desde el contexto.
func GetAuthAccount(c *gin.Context) (domain.Account, bool) {
	val, ok := c.Get(authAccountKey)
	if !ok {
		return domain.Account{}, false
	}
	account, ok := val.(domain.Account)
	return account, ok
}

// GetSessionToken obtiene el token de sesión usado por el request actual.
func GetSessionToken(c *gin.Context) (string, bool) {
	val, ok := c.Get(authSessionKey)
	if !ok {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
