package controllable

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSetterName returns the setter name used when a key has no override,
// e.g. "userName" -> "setUserName".
func DefaultSetterName(key string) string {
	return "set" + capitalize(key)
}

// DefaultUpdateHandlerName returns the record entry consulted for a key's
// update handler when none is configured, e.g. "userName" -> "onUpdateUserName".
func DefaultUpdateHandlerName(key string) string {
	return "onUpdate" + capitalize(key)
}

// capitalize upper-cases the first rune only. Casers keep state, so one is
// built per call.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
