package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codecore/internal/domain"
	"codecore/internal/service"
)

// CookieSettings describe la cookie de sesión que emite el backend.
type CookieSettings struct {
	Name   string
	MaxAge int
	Secure bool
}

// AccountHandler mantiene dependencias para endpoints de cuentas.
type AccountHandler struct {
	logger      *zap.Logger
	accountServ *service.AccountService
	sessions    *service.SessionService
	cookie      CookieSettings
}

// NewAccountHandler crea una instancia de AccountHandler con dependencias necesarias.
func NewAccountHandler(logger *zap.Logger, accountServ *service.AccountService, sessions *service.SessionService, cookie CookieSettings) *AccountHandler {
	return &AccountHandler{
		logger:      logger,
		accountServ: accountServ,
		sessions:    sessions,
		cookie:      cookie,
	}
}

func (h *AccountHandler) respondFieldErrors(c *gin.Context, message string, err error) bool {
	var fieldErrs service.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "errors": fieldErrs})
		return true
	}
	return false
}

func (h *AccountHandler) establishSession(c *gin.Context, account domain.Account) error {
	token, err := h.sessions.Establish(account)
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	return nil
}

// Register maneja POST /api/users/register/.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		PhoneNumber     string `json:"phone_number"`
		BirthDate       string `json:"birth_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	account, err := h.accountServ.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		BirthDate:       req.BirthDate,
	})
	if err != nil {
		if h.respondFieldErrors(c, "registration failed", err) {
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register user"})
		return
	}

	// Registrarse implica quedar logueado.
	if err := h.establishSession(c, account); err != nil {
		h.logger.Error("establish session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not establish session"})
		return
	}
	h.accountServ.RecordLogin(c.Request.Context(), account.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    service.PresentAccount(account),
	})
}

// Login maneja POST /api/users/login/.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	account, err := h.accountServ.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials),
			errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrAccountDeactivated):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "login failed",
				"errors":  gin.H{"non_field_errors": []string{err.Error()}},
			})
			return
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
			return
		}
	}

	if err := h.establishSession(c, account); err != nil {
		h.logger.Error("establish session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not establish session"})
		return
	}
	h.accountServ.RecordLogin(c.Request.Context(), account.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    service.PresentAccount(account),
	})
}

// Logout maneja POST /api/users/logout/.
func (h *AccountHandler) Logout(c *gin.Context) {
	if token, ok := GetSessionToken(c); ok {
		if err := h.sessions.Destroy(token); err != nil {
			h.logger.Error("destroy session failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
			return
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Profile maneja GET /api/users/profile/.
func (h *AccountHandler) Profile(c *gin.Context) {
	account, ok := GetAuthAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": service.PresentAccount(account)})
}

// UpdateProfile maneja PUT y PATCH /api/users/profile/update/.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	account, ok := GetAuthAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	partial := c.Request.Method == http.MethodPatch
	updated, err := h.accountServ.UpdateProfile(c.Request.Context(), account, input, partial)
	if err != nil {
		if h.respondFieldErrors(c, "profile update failed", err) {
			return
		}
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		h.logger.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"user":    service.PresentAccount(updated),
	})
}

// AuthStatus maneja GET /api/users/auth-status/. Nunca falla.
func (h *AccountHandler) AuthStatus(c *gin.Context) {
	if account, ok := GetAuthAccount(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"is_authenticated": true,
			"user":             service.PresentAccount(account),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_authenticated": false,
		"user":             nil,
	})
}
