// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// MinPasswordLength — минимальная длина пароля при регистрации.
const MinPasswordLength = 6

// IsValidEmail выполняет базовую проверку синтаксиса email-адреса.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t\r\n")
}

// IsValidPassword проверяет, что пароль удовлетворяет минимальным требованиям.
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}
