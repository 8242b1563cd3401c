package handlers

import (
	"errors"
	"net/mail"
	"strings"
)

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("Invalid email address.")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters.")
	}
	return nil
}

func validateRequired(value string, label string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(label + " is required.")
	}
	return nil
}
