package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldErrors acumula errores de validación por campo, al estilo de un
// formulario: todas las violaciones se reportan juntas.
type FieldErrors map[string][]string

// nonFieldKey agrupa errores que no pertenecen a un campo concreto.
const nonFieldKey = "non_field_errors"

func (e FieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e))
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

const (
	msgPasswordsMismatch = "passwords do not match"
	msgFieldRequired     = "this field is required"
	msgUsernameTaken     = "a user with that username already exists"
)

var (
	usernameRe  = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	priceRe     = regexp.MustCompile(`^\d{1,7}(\.\d{1,2})?$`)
	birthLayout = "2006-01-02"
)

func checkUsername(errs FieldErrors, username string) {
	if username == "" {
		errs.add("username", msgFieldRequired)
		return
	}
	if len(username) > 150 {
		errs.add("username", "ensure this field has no more than 150 characters")
	}
	if !usernameRe.MatchString(username) {
		errs.add("username", "enter a valid username: letters, digits and @/./+/-/_ only")
	}
}

func checkEmail(errs FieldErrors, email string) {
	if email == "" {
		errs.add("email", msgFieldRequired)
		return
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		errs.add("email", "enter a valid email address")
	}
}

func checkPassword(errs FieldErrors, password string) {
	if password == "" {
		errs.add("password", msgFieldRequired)
		return
	}
	if utf8.RuneCountInString(password) < 8 {
		errs.add("password", "ensure this field has at least 8 characters")
	}
}

func checkName(errs FieldErrors, field, value string) {
	if len(value) > 150 {
		errs.add(field, "ensure this field has no more than 150 characters")
	}
}

func checkPhoneNumber(errs FieldErrors, phone string) {
	if len(phone) > 20 {
		errs.add("phone_number", "ensure this field has no more than 20 characters")
	}
}

// parseBirthDate valida y convierte una fecha YYYY-MM-DD; vacía significa sin valor.
func parseBirthDate(errs FieldErrors, value string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := time.Parse(birthLayout, strings.TrimSpace(value))
	if err != nil {
		errs.add("birth_date", "date has wrong format, use YYYY-MM-DD")
		return nil
	}
	return &parsed
}

func checkCoursePrice(errs FieldErrors, price string) {
	if price == "" {
		errs.add("price", msgFieldRequired)
		return
	}
	if !priceRe.MatchString(price) {
		errs.add("price", "enter a valid price with up to 2 decimal places")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
