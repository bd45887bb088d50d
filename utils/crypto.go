package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher — абстракция над алгоритмом хеширования паролей.
// Реализация обязана быть односторонней, с солью и намеренно медленной.
// VerifyDummy выполняет проверку такой же стоимости без реального хеша,
// чтобы отсутствие учетной записи не было видно по времени ответа.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyDummy(password string)
}

// BcryptHasher реализует PasswordHasher через bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создает BcryptHasher со стандартной стоимостью
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash создает хеш пароля. Соль генерируется bcrypt на каждый вызов.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hashed), nil
}

// Verify проверяет пароль против хеша. Сравнение внутри bcrypt
// выполняется за постоянное время.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash — хеш случайного пароля. Используется при аутентификации
// несуществующего пользователя, чтобы выровнять время ответа.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// VerifyDummy выполняет холостую проверку пароля
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// GenerateRandomDigits генерирует равномерно распределенное число
// в диапазоне [10^(n-1), 10^n) из криптографического источника
func GenerateRandomDigits(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("digit count must be positive")
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	r, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to draw random number: %v", err)
	}

	return new(big.Int).Add(low, r).String(), nil
}

// GenerateSecureToken генерирует безопасный токен
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %v", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
