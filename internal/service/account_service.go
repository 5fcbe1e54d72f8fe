package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"codecore/internal/domain"
	"codecore/internal/repository"
)

// AccountService coordina reglas de negocio para cuentas de usuario.
type AccountService struct {
	logger        *zap.Logger
	accounts      repository.AccountRepository
	defaultAvatar string
}

func NewAccountService(logger *zap.Logger, accounts repository.AccountRepository, defaultAvatar string) *AccountService {
	return &AccountService{
		logger:        logger,
		accounts:      accounts,
		defaultAvatar: defaultAvatar,
	}
}

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrAccountNotFound    = errors.New("account not found")
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	PhoneNumber     string
	BirthDate       string
}

// Register valida el alta de una cuenta nueva y la persiste con el
// password hasheado. Todos los errores de campo se reportan juntos.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}

	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.PhoneNumber)

	errs := FieldErrors{}
	checkUsername(errs, username)
	checkEmail(errs, email)
	checkPassword(errs, input.Password)
	checkName(errs, "first_name", firstName)
	checkName(errs, "last_name", lastName)
	checkPhoneNumber(errs, phone)
	birthDate := parseBirthDate(errs, input.BirthDate)
	if input.Password != "" && input.Password != input.PasswordConfirm {
		errs.add(nonFieldKey, msgPasswordsMismatch)
	}
	if len(errs) > 0 {
		return domain.Account{}, errs
	}

	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return domain.Account{}, FieldErrors{"username": {msgUsernameTaken}}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashBytes),
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phone,
		BirthDate:    birthDate,
		AvatarURL:    s.defaultAvatar,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// La unicidad la garantiza la base; dos registros concurrentes con el
		// mismo username terminan aquí.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, FieldErrors{"username": {msgUsernameTaken}}
		}
		return domain.Account{}, err
	}

	return account, nil
}

func passwordMatches(account domain.Account, password string) bool {
	if account.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) == nil
}

// Authenticate resuelve el identificador como username y, si esa cuenta no
// existe o su password no coincide, como email: el email de una cuenta puede
// coincidir con el username de otra. La cuenta desactivada se reporta sólo
// con password correcto.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Account{}, ErrMissingCredentials
	}

	account, err := s.accounts.GetByUsername(ctx, identifier)
	if err == nil && passwordMatches(account, password) {
		if !account.IsActive {
			return domain.Account{}, ErrAccountDeactivated
		}
		return account, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, err
	}

	account, err = s.accounts.GetByEmail(ctx, normalizeEmail(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, err
	}
	if !passwordMatches(account, password) {
		return domain.Account{}, ErrInvalidCredentials
	}
	if !account.IsActive {
		return domain.Account{}, ErrAccountDeactivated
	}
	return account, nil
}

// GetAccount busca una cuenta por id.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, err
}

// RecordLogin actualiza la marca de último ingreso; el fallo no es fatal.
func (s *AccountService) RecordLogin(ctx context.Context, id string) {
	if err := s.accounts.TouchLastLogin(ctx, id, time.Now().UTC()); err != nil && s.logger != nil {
		s.logger.Warn("touch last login failed", zap.Error(err), zap.String("account_id", id))
	}
}

// UpdateProfileInput usa punteros para distinguir campos presentes del JSON.
// Los campos de sólo lectura (id, fechas, flags) no existen aquí y por eso
// se ignoran en silencio si llegan en el request.
type UpdateProfileInput struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	BirthDate   *string `json:"birth_date"`
	AvatarURL   *string `json:"avatar_url"`
}

// UpdateProfile aplica cambios sobre una cuenta existente. Con partial=true
// sólo toca los campos presentes; si no, es un reemplazo completo donde
// username y email son obligatorios y los opcionales ausentes se limpian
// (el avatar vuelve al default).
func (s *AccountService) UpdateProfile(ctx context.Context, account domain.Account, input UpdateProfileInput, partial bool) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}

	errs := FieldErrors{}
	updated := account

	if input.Username != nil {
		updated.Username = strings.TrimSpace(*input.Username)
		checkUsername(errs, updated.Username)
	} else if !partial {
		errs.add("username", msgFieldRequired)
	}

	if input.Email != nil {
		updated.Email = normalizeEmail(*input.Email)
		checkEmail(errs, updated.Email)
	} else if !partial {
		errs.add("email", msgFieldRequired)
	}

	if input.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*input.FirstName)
		checkName(errs, "first_name", updated.FirstName)
	} else if !partial {
		updated.FirstName = ""
	}

	if input.LastName != nil {
		updated.LastName = strings.TrimSpace(*input.LastName)
		checkName(errs, "last_name", updated.LastName)
	} else if !partial {
		updated.LastName = ""
	}

	if input.PhoneNumber != nil {
		updated.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
		checkPhoneNumber(errs, updated.PhoneNumber)
	} else if !partial {
		updated.PhoneNumber = ""
	}

	if input.BirthDate != nil {
		updated.BirthDate = parseBirthDate(errs, *input.BirthDate)
	} else if !partial {
		updated.BirthDate = nil
	}

	if input.AvatarURL != nil {
		updated.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	} else if !partial {
		updated.AvatarURL = s.defaultAvatar
	}

	if len(errs) > 0 {
		return domain.Account{}, errs
	}

	if updated.Username != account.Username {
		if _, err := s.accounts.GetByUsername(ctx, updated.Username); err == nil {
			return domain.Account{}, FieldErrors{"username": {msgUsernameTaken}}
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, err
		}
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.accounts.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, FieldErrors{"username": {msgUsernameTaken}}
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return updated, nil
}
