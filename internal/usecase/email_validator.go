package usecase

import "regexp"

// Syntactic check only: local part, a dotted domain and an alphabetic TLD of
// at least two characters. No DNS or mailbox verification.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func IsValidEmail(s string) bool {
	return s != "" && emailRe.MatchString(s)
}
