package locale

import (
	"strings"
	"testing"
)

func TestTranslationCompleteness(t *testing.T) {
	result, err := ValidateTranslations()
	if err != nil {
		t.Fatalf("validation failed to run: %v", err)
	}

	if result.HasErrors() {
		var lines []string
		for _, e := range result.Errors {
			lines = append(lines, e.Error())
		}
		t.Errorf("translation files are inconsistent:\n%s", strings.Join(lines, "\n"))
	}
}

func TestLocalizerResolvesKeys(t *testing.T) {
	for _, lang := range []string{En, Ru} {
		l, err := NewLocalizer(NewLocale(lang))
		if err != nil {
			t.Fatalf("failed to create %s localizer: %v", lang, err)
		}

		if got := l.MustLocalize(ErrorUnauthorized); got == "" {
			t.Errorf("%s: empty translation for %s", lang, ErrorUnauthorized)
		}

		withTemplate := l.MustLocalizeWithTemplate(LeadsMoreLine, "7")
		if !strings.Contains(withTemplate, "7") {
			t.Errorf("%s: template field not substituted in %q", lang, withTemplate)
		}
	}
}
