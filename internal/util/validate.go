package util

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidDifficulty reports whether d is one of the supported trilha tiers.
func ValidDifficulty(d string) bool {
	switch d {
	case "beginner", "intermediate", "advanced":
		return true
	}
	return false
}
