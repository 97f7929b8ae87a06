package output

// T renders user-facing messages. The bot speaks one configured locale, so
// callers pass that locale (or "" for the translator default).
type T interface {
	// T renders the message identified by key; data fills template
	// placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
