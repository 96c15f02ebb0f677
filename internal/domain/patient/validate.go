package patient

import (
	"fmt"
	"strconv"
)

// IsValidName reports whether s is non-empty and has no digit characters.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsValidAge parses s as a non-negative age made only of digits.
func IsValidAge(s string) (int, bool) {
	age, ok := IsValidInteger(s)
	if !ok || age < 0 {
		return 0, false
	}
	return age, true
}

// IsValidGender reports whether s is one of Male, Female or "?".
func IsValidGender(s string) bool {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderUnspecified:
		return true
	}
	return false
}

// IsValidBloodType only checks that s is 1 to 3 bytes long. Content is not
// matched against real blood groups.
func IsValidBloodType(s string) bool {
	n := len(s)
	return n >= 1 && n <= 3
}

// IsValidInteger parses s when it is non-empty and made only of digits.
// Values that overflow int are rejected.
func IsValidInteger(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate applies the field predicates to a complete record. Callers that
// cannot re-prompt (command-line flags) use it before Add.
func Validate(p Patient) error {
	if p.ID < 0 {
		return fmt.Errorf("%w: id must be non-negative", ErrInvalidInput)
	}
	if !IsValidName(p.Name) {
		return fmt.Errorf("%w: name must be non-empty and contain no digits", ErrInvalidInput)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age must be non-negative", ErrInvalidInput)
	}
	if !IsValidGender(string(p.Gender)) {
		return fmt.Errorf("%w: gender must be Male, Female or ?", ErrInvalidInput)
	}
	if !IsValidBloodType(p.BloodType) {
		return fmt.Errorf("%w: blood type must be 1 to 3 characters", ErrInvalidInput)
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
