package errors

import (
	"net/url"
	"strings"
)

// ValidateID validates a backend entity identifier.
// Identifiers are positive integers assigned by the backend; zero is the
// unset value and is rejected.
func ValidateID(kind string, id int64) error {
	if id <= 0 {
		return New(ErrCodeInvalidID, "%s id must be positive, got %d", kind, id)
	}
	return nil
}

// ValidateFloorNumber validates a floor number used in diagram URLs.
// Ground floors are numbered 0; basements are not addressable.
func ValidateFloorNumber(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "floor number must not be negative, got %d", n)
	}
	return nil
}

// ValidateURL validates a base URL for safety.
// It ensures the URL parses, has a host and uses http or https.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
