package domain

import "strings"

// Account identifies a caller, a campaign owner or a reward-credit holder.
type Account string

// ParseAccount trims s and rejects empty identifiers.
func ParseAccount(s string) (Account, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidAccount
	}
	return Account(s), nil
}

func (a Account) String() string { return string(a) }

// IsZero reports whether the account is unset.
func (a Account) IsZero() bool { return a == "" }
