package service

import (
	"encoding/json"
	"testing"
	"time"

	"codecore/internal/domain"
)

func TestPresentAccountExcludesSecrets(t *testing.T) {
	now := time.Now().UTC()
	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	account := domain.Account{
		ID:           "acc-1",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$secret",
		FirstName:    "Alice",
		LastName:     "Liddell",
		PhoneNumber:  "+100000000",
		BirthDate:    &birth,
		AvatarURL:    "/media/avatars/default.png",
		IsActive:     true,
		IsVerified:   true,
		IsStaff:      true,
		IsSuperuser:  true,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	raw, err := json.Marshal(PresentAccount(account))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, forbidden := range []string{
		"password", "password_hash", "is_active", "is_verified",
		"is_staff", "is_superuser", "last_login_at",
	} {
		if _, ok := fields[forbidden]; ok {
			t.Errorf("field %q must never serialize", forbidden)
		}
	}
	if fields["username"] != "alice" {
		t.Errorf("expected username alice, got %v", fields["username"])
	}
	if fields["full_name"] != "Alice Liddell" {
		t.Errorf("expected full name, got %v", fields["full_name"])
	}
	if fields["birth_date"] != "1990-05-01" {
		t.Errorf("expected formatted birth date, got %v", fields["birth_date"])
	}
}

func TestPresentAccountFullNameFallback(t *testing.T) {
	profile := PresentAccount(domain.Account{Username: "bob", FirstName: "Bob"})
	if profile.FullName != "bob" {
		t.Fatalf("expected username fallback, got %q", profile.FullName)
	}
	if profile.BirthDate != nil {
		t.Fatalf("expected null birth date, got %v", *profile.BirthDate)
	}
}
