package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	shopRegex  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]*\.myshopify\.com$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateShopDomain checks if a shop identifier is a myshopify domain.
func ValidateShopDomain(shop string) error {
	if shop == "" {
		return fmt.Errorf("shop is required")
	}
	if !shopRegex.MatchString(shop) {
		return fmt.Errorf("invalid shop domain: %s", shop)
	}
	return nil
}

// ValidateFraction checks that a value is a fraction in [0, 1].
func ValidateFraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
	}
	return nil
}
