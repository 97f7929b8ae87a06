package i18n

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func loadCatalog(t *testing.T, name string) map[string]string {
	t.Helper()
	raw, err := localeFS.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	out := map[string]string{}
	if err := toml.Unmarshal(raw, &out); err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return out
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	en := loadCatalog(t, "active.en.toml")
	fr := loadCatalog(t, "active.fr.toml")
	for k := range en {
		if _, ok := fr[k]; !ok {
			t.Errorf("key %q missing from active.fr.toml", k)
		}
	}
	for k := range fr {
		if _, ok := en[k]; !ok {
			t.Errorf("key %q missing from active.en.toml", k)
		}
	}
}

func TestTranslate(t *testing.T) {
	tr := NewTranslator("en")
	tests := []struct {
		name   string
		locale string
		key    string
		data   map[string]any
		want   string
	}{
		{name: "template data", key: "errors.unknown_channel", data: map[string]any{"Channel": "lobby"}, want: "**lobby**"},
		{name: "placeholder kept", key: "setup.default_response", want: "{code}"},
		{name: "french", locale: "fr", key: "setup.cancelled", want: "Configuration annulée"},
		{name: "unknown locale falls back", locale: "de", key: "setup.cancelled", want: "Setup cancelled"},
		{name: "unknown key", key: "nope.missing", want: "nope.missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.T(tt.locale, tt.key, tt.data)
			if !strings.Contains(got, tt.want) {
				t.Errorf("T(%q, %q) = %q, want it to contain %q", tt.locale, tt.key, got, tt.want)
			}
		})
	}
}

func TestErrorKeysExist(t *testing.T) {
	en := loadCatalog(t, "active.en.toml")
	for _, code := range []string{
		"generic", "unknown_channel", "invalid_datetime", "end_before_start", "missing_placeholder",
		"empty_pass", "duplicate_pass", "too_many_attachments", "code_file_unreadable",
	} {
		if _, ok := en["errors."+code]; !ok {
			t.Errorf("errors.%s missing", code)
		}
	}
}
