package perms

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeGroupName lowercases a group name and validates it against the
// identifier charset ([a-z0-9_], non-empty).
func NormalizeGroupName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", ErrInvalidName
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return "", ErrInvalidName
		}
	}
	return name, nil
}

// ValidatePermission rejects empty permission strings. Negation ("-x") and
// wildcard ("x.*") are string conventions, not separate fields, so a lone
// "-" or "*" with nothing around it is still rejected.
func ValidatePermission(permission string) error {
	if permission == "" || permission == "-" {
		return ErrInvalidPermission
	}
	if strings.TrimPrefix(permission, "-") == "" {
		return ErrInvalidPermission
	}
	return nil
}

// BareName strips the negation marker, giving the node name a grant and a
// denial of the same permission share.
func BareName(permission string) string {
	return strings.TrimPrefix(permission, "-")
}

// IsDenial reports whether a permission entry is an explicit denial.
func IsDenial(permission string) bool {
	return strings.HasPrefix(permission, "-")
}

// ParseDuration parses admin-facing duration strings like "30m", "1h30m" or
// "2d12h" into a time.Duration. A day unit is accepted on top of the units
// time.ParseDuration knows. Malformed input is an error, never a default.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}

	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i >= 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n < 0 {
			return 0, ErrInvalidDuration
		}
		days = time.Duration(n) * 24 * time.Hour
		s = s[i+1:]
		if s == "" {
			return days, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, ErrInvalidDuration
	}
	return days + d, nil
}
