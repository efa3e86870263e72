package translate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageOverrides covers locale directory names seen in the field that are
// not valid BCP 47 tags or that display with a regional qualifier.
var languageOverrides = map[string]string{
	"cn":  "Chinese",
	"zh":  "Chinese",
	"fil": "Filipino",
	"tl":  "Filipino",
	"no":  "Norwegian",
}

var englishNames = display.English.Languages()

// Language returns the English name of the language of locale, such as
// "French" for "fr" or "Brazilian Portuguese" for "pt-BR". Unknown locales
// are returned unchanged so the prompt still names something.
func Language(locale string) string {
	code := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if name, ok := languageOverrides[strings.ToLower(code)]; ok {
		return name
	}

	tag, err := language.Parse(code)
	if err != nil {
		return locale
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return locale
}
