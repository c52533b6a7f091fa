// Package validation содержит функции валидации входных данных.
package validation

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/mmeshcher/gymstore/internal/model"
)

// OTPLength задаёт длину кода подтверждения доставки.
const OTPLength = 4

// IsValidID проверяет, что строка является UUID-идентификатором.
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// IsValidOTP проверяет, что код состоит ровно из четырёх цифр.
func IsValidOTP(otp string) bool {
	if len(otp) != OTPLength {
		return false
	}
	for _, ch := range otp {
		if !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

// MissingAddressFields возвращает имена обязательных полей адреса, которые не заполнены.
func MissingAddressFields(a model.Address) []string {
	var missing []string
	if strings.TrimSpace(a.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(a.BuildingName) == "" {
		missing = append(missing, "buildingName")
	}
	if strings.TrimSpace(a.Mobile) == "" {
		missing = append(missing, "mobile")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	return missing
}

// IsValidAddressType проверяет тип адреса. Пустой тип допустим.
func IsValidAddressType(t model.AddressType) bool {
	switch t {
	case "", model.AddressHome, model.AddressWork:
		return true
	}
	return false
}

// IsValidRating проверяет, что оценка лежит в диапазоне от 1 до 5.
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// NormalizeEmail приводит адрес почты к нижнему регистру и обрезает пробелы.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail выполняет упрощённую проверку адреса почты.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
