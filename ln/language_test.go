package ln

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLanguage(t *testing.T) {
	assert.Same(t, NO, GetLanguage(NO.ID))
	assert.Same(t, EN, GetLanguage(EN.ID))
	assert.Same(t, EN, GetLanguage(0))
	assert.Same(t, EN, GetLanguage(42))
}

func TestAll_CoversRegistry(t *testing.T) {
	all := All()
	assert.Len(t, all, len(Languages))
	for _, lang := range all {
		assert.Same(t, lang, Languages[lang.ID])
		assert.NotEmpty(t, lang.LoginFailed)
		assert.NotEmpty(t, lang.HomeOutputPlaceholder)
	}
}
