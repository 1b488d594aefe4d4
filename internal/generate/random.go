package generate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"

	"affwp-generate/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxReferralAmount = 20
	passwordLength    = 24
	passwordAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_[]{}<>~`+=,.;:/?|"
)

// passwordCost задает стоимость bcrypt; тесты понижают ее до bcrypt.MinCost
var passwordCost = bcrypt.DefaultCost

// randomAmount возвращает случайную сумму в [0, 20], округленную до точности валюты
func randomAmount(r *mrand.Rand, decimals int32) decimal.Decimal {
	return decimal.NewFromFloat(r.Float64() * maxReferralAmount).Round(decimals)
}

// randomStatus выбирает статус реферала равновероятно
func randomStatus(r *mrand.Rand) models.ReferralStatus {
	return models.ReferralStatuses[r.Intn(len(models.ReferralStatuses))]
}

// sessionSalt возвращает случайную соль запуска в [min, max]
func sessionSalt(r *mrand.Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}

// strongPassword генерирует криптостойкий пароль и возвращает его bcrypt-хеш
func strongPassword() (string, error) {
	buf := make([]byte, passwordLength)
	limit := big.NewInt(int64(len(passwordAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("ошибка генерации пароля: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}

	hash, err := bcrypt.GenerateFromPassword(buf, passwordCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	return string(hash), nil
}

// parseStatus проверяет явно заданный статус реферала без учета регистра
func parseStatus(value string) (models.ReferralStatus, error) {
	status := models.ReferralStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", usageErrorf("неизвестный статус %q, допустимы: paid, unpaid, pending, rejected", value)
	}
	return status, nil
}
