package utils

import (
	"strings"
	"testing"
)

// BcryptHasher обязан удовлетворять интерфейсу PasswordHasher
var _ PasswordHasher = (*BcryptHasher)(nil)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "" || hash == "correct horse battery" {
		t.Fatalf("hash must be non-empty and different from the password, got %q", hash)
	}

	// Правильный пароль проходит проверку
	if !hasher.Verify("correct horse battery", hash) {
		t.Error("Verify rejected the correct password")
	}

	// Неправильный пароль не проходит
	if hasher.Verify("wrong password", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestBcryptHasherSalted(t *testing.T) {
	hasher := NewBcryptHasher()

	// Два хеша одного пароля различаются из-за соли
	first, err := hasher.Hash("same-password-123")
	if err != nil {
		t.Fatal(err)
	}
	second, err := hasher.Hash("same-password-123")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestVerifyDummy(t *testing.T) {
	hasher := NewBcryptHasher()

	// Холостая проверка не должна паниковать и ничего не подтверждает
	hasher.VerifyDummy("any password")
	hasher.VerifyDummy("")
}

func TestGenerateRandomDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		digits, err := GenerateRandomDigits(10)
		if err != nil {
			t.Fatalf("GenerateRandomDigits returned error: %v", err)
		}
		if len(digits) != 10 {
			t.Fatalf("expected 10 digits, got %q", digits)
		}
		// Первая цифра никогда не ноль: диапазон [10^9, 10^10)
		if digits[0] == '0' {
			t.Fatalf("leading zero in %q", digits)
		}
		if strings.Trim(digits, "0123456789") != "" {
			t.Fatalf("non-digit characters in %q", digits)
		}
	}
}

func TestGenerateRandomDigitsInvalidCount(t *testing.T) {
	if _, err := GenerateRandomDigits(0); err == nil {
		t.Error("expected error for zero digit count")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two tokens must differ")
	}
}
