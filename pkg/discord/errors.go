package discord

import (
	"codedrop/internal/domain"
	"codedrop/internal/ports/output"
)

// ErrorKey maps err to its catalog key ("errors.<code>"), falling back to
// errors.generic for anything that is not a domain error.
func ErrorKey(err error) string {
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.generic"
}

// DomainErrorMessage resolves err to a user-facing message in locale.
func DomainErrorMessage(tr output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	key := ErrorKey(err)
	if msg := tr.T(locale, key, nil); msg != key {
		return msg
	}
	return tr.T(locale, "errors.generic", nil)
}
