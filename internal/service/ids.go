package service

import (
	"strings"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

func requireID(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return validationErr("%s is required", name)
	}
	return nil
}
