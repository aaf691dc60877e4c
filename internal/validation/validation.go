// Package validation provides field-level validation helpers shared by the
// handlers. Validation order everywhere is: required fields, then format,
// then uniqueness against the database.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex     = regexp.MustCompile(`^\+?[0-9\s\-().]{7,20}$`)
	subdomainRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidateEmail checks email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePhone checks phone number format. Accepts an optional leading plus
// and common separators.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone format: %s", phone)
	}
	return nil
}

// ValidateSubdomain checks that a subdomain is lowercase alphanumeric with
// single hyphen separators.
func ValidateSubdomain(subdomain string) error {
	if !subdomainRegex.MatchString(subdomain) {
		return fmt.Errorf("invalid subdomain: %s", subdomain)
	}
	return nil
}

// Slugify derives a subdomain slug from a display name:
// lowercase, non-alphanumeric runs collapsed to single hyphens,
// leading/trailing hyphens trimmed. "Acme Law" becomes "acme-law".
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
