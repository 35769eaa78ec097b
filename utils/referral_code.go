package utils

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateReferralCode выдаёт 6-символьный код (строчные буквы и цифры).
// Уникальность обеспечивает UNIQUE-ограничение в БД: при коллизии
// регистрация просто генерирует код заново.
func GenerateReferralCode() (string, error) {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
