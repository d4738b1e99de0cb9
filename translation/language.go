package translation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// SourceLanguage is the language all input text is assumed to be written in.
const SourceLanguage = "en"

type Language struct {
	Code        string
	DisplayName string
}

var (
	Spanish = Language{Code: "es", DisplayName: "Spanish"}
	French  = Language{Code: "fr", DisplayName: "French"}
	Korean  = Language{Code: "ko", DisplayName: "Korean"}
)

// DefaultLanguage is preselected in the picker.
var DefaultLanguage = Spanish

var languages = []Language{Spanish, French, Korean}

// Languages returns the supported target languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func ParseLanguage(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, lang := range languages {
		if lang.Code == code {
			return lang, nil
		}
	}
	return Language{}, fmt.Errorf("%w: '%s'", ErrUnsupportedLanguage, code)
}

func (l Language) String() string {
	return l.DisplayName
}
