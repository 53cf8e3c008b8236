package utils

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
)

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	// Bangladesh NID numbers are 10, 13 or 17 digits.
	nidRe = regexp.MustCompile(`^(\d{10}|\d{13}|\d{17})$`)
)

// ValidateRegistration checks all submitted registration fields before any
// state is created. Returns a VALIDATION_FAILED AppError naming the first
// offending field.
func ValidateRegistration(name, email, password, phone, nid string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	if err := ValidateNID(nid); err != nil {
		return err
	}
	return nil
}

func ValidateName(name string) error {
	if len(name) < 3 || len(name) > 20 {
		return apperrors.Validation("Name must be between 3 and 20 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" || !emailRe.MatchString(email) {
		return apperrors.Validation("Invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return apperrors.Validation("Password must be at least 6 characters")
	}
	return nil
}

// ValidatePhone accepts Bangladesh mobile numbers, with or without the +880
// country prefix.
func ValidatePhone(phone string) error {
	num, err := phonenumbers.Parse(phone, "BD")
	if err != nil || !phonenumbers.IsValidNumberForRegion(num, "BD") {
		return apperrors.Validation("Please provide a valid Bangladesh phone number")
	}
	return nil
}

func ValidateNID(nid string) error {
	if !nidRe.MatchString(nid) {
		return apperrors.Validation("Please provide a valid Bangladesh NID number")
	}
	return nil
}
