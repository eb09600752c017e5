package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the DD/MM/YYYY format shared with the mobile app.
const DateLayout = "02/01/2006"

const maxQRPayloadLength = 500

var (
	citizenIDPattern = regexp.MustCompile(`^\d{12}$`)
	passcodePattern  = regexp.MustCompile(`^\d{4,6}$`)
	namePattern      = regexp.MustCompile(`^[a-zA-ZÀ-ỹ\s.\-']+$`)

	ValidGenders = []string{"Male", "Female", "Other", "Nam", "Nữ", "Khác"}

	ValidRelationships = []string{
		"Head", "Spouse", "Child", "Parent", "Sibling", "Grandparent",
		"Grandchild", "Other", "Chủ hộ", "Vợ/Chồng", "Con", "Cha/Mẹ",
		"Anh/Chị/Em", "Ông/Bà", "Cháu", "Khác",
	}
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// requireFields appends "<label> is required" for each blank value, in order.
func requireFields(errors []string, fields ...[2]string) []string {
	for _, f := range fields {
		if isBlank(f[1]) {
			errors = append(errors, f[0]+" is required")
		}
	}
	return errors
}

func validateCitizenID(id string) string {
	if !citizenIDPattern.MatchString(strings.TrimSpace(id)) {
		return "Citizen ID must be exactly 12 digits"
	}
	return ""
}

func validatePasscode(passcode string) string {
	if !passcodePattern.MatchString(strings.TrimSpace(passcode)) {
		return "Passcode must be 4-6 digits"
	}
	return ""
}

func validateName(name string) string {
	clean := strings.TrimSpace(name)
	if utf8.RuneCountInString(clean) < 2 {
		return "Name must be at least 2 characters"
	}
	if !namePattern.MatchString(clean) {
		return "Name contains invalid characters"
	}
	return ""
}

// validateDate checks a DD/MM/YYYY date of birth against now.
func validateDate(value string, now time.Time) string {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), now.Location())
	if err != nil {
		return "Date must be in DD/MM/YYYY format"
	}
	if date.After(now) {
		return "Date of birth cannot be in the future"
	}
	if now.Sub(date).Hours()/24/365.25 > 150 {
		return "Date of birth is too far in the past"
	}
	return ""
}

func validateAddress(address string) string {
	if utf8.RuneCountInString(strings.TrimSpace(address)) < 5 {
		return "Address must be at least 5 characters"
	}
	return ""
}

func validateGender(gender string) string {
	if !slices.Contains(ValidGenders, gender) {
		return fmt.Sprintf("Gender must be one of: %s", strings.Join(ValidGenders, ", "))
	}
	return ""
}

// ValidateQRPayload returns an error message for an oversized payload, or "".
func ValidateQRPayload(payload string) string {
	return validateQRPayload(payload)
}

func validateQRPayload(payload string) string {
	if utf8.RuneCountInString(strings.TrimSpace(payload)) > maxQRPayloadLength {
		return fmt.Sprintf("QR payload is too long (max %d characters)", maxQRPayloadLength)
	}
	return ""
}

func validateRelationship(relationship string) string {
	if !slices.Contains(ValidRelationships, relationship) {
		return fmt.Sprintf("Relationship must be one of: %s", strings.Join(ValidRelationships, ", "))
	}
	return ""
}

// check appends prefix+msg when msg is non-empty.
func check(errors []string, prefix, msg string) []string {
	if msg == "" {
		return errors
	}
	return append(errors, prefix+msg)
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 || strings.Count(email, "@") > 1 {
		return false
	}
	if strings.ContainsAny(email, " \t") {
		return false
	}

	domain := email[atIndex+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
