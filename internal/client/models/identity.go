package models

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/aihr/internal/common"
)

var uzPhone = regexp.MustCompile(`^\+998\d{9}$`)

// Fields reported by ValidationError.
const (
	FieldIdentity = "identity"
	FieldPhone    = "phone"
	FieldFile     = "file"
)

// Identity is what the candidate enters on the upload step.
type Identity struct {
	Name  string
	Phone string
	Email string
}

// ValidationError names the first input that blocked the upload step.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// ValidPhone reports whether phone is "+998" followed by exactly 9 digits.
func ValidPhone(phone string) bool {
	return uzPhone.MatchString(phone)
}

// ValidateUpload checks the upload step in the order the candidate sees the
// messages: missing identity fields, phone format, CV file.
func ValidateUpload(id Identity, cvFile string) error {
	if id.Name == "" || id.Phone == "" || id.Email == "" {
		return &ValidationError{Field: FieldIdentity}
	}
	if !ValidPhone(id.Phone) {
		return &ValidationError{Field: FieldPhone}
	}
	if cvFile == "" {
		return &ValidationError{Field: FieldFile}
	}
	return nil
}
