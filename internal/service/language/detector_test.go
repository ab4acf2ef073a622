package language

import (
	"testing"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectTurkishWithDiacritics(t *testing.T) {
	profile := Detect("Diyet kısıtlamaları olan insanlar için yapay zeka destekli yemek planlayıcı")
	assert.Equal(t, domain.LanguageTurkish, profile.Code)
	assert.True(t, profile.IsPrimary())
}

func TestDetectTurkishWithoutDiacritics(t *testing.T) {
	assert.Equal(t, domain.LanguageTurkish, Detect("bu bir yeni fikir ve kolay").Code)
}

func TestDetectEnglish(t *testing.T) {
	for _, text := range []string{
		"AI-powered meal planner for dietary restrictions",
		"In my city, I want an app that helps people find parking",
		"Ben wants a garden sharing platform",
		"",
	} {
		assert.Equal(t, domain.LanguageEnglish, Detect(text).Code, text)
	}
}

func TestDetectIsConservativeOnSingleSignal(t *testing.T) {
	// One diacritic without any Turkish stop word stays English.
	assert.Equal(t, domain.LanguageEnglish, Detect("A café finder for Zürich tourists").Code)
}

func TestAnalyzeCounts(t *testing.T) {
	s := Analyze("Çok güzel bir uygulama")
	assert.Equal(t, 2, s.Letters)
	assert.Equal(t, 3, s.TurkishWords)
	assert.Greater(t, s.WeightedRatio, 0.1)
	assert.True(t, s.IsPrimary())
}

func TestAnalyzeHandlesTurkishCapitals(t *testing.T) {
	s := Analyze("İÇİN BİR ŞEY")
	assert.Equal(t, 3, s.TurkishWords)
}

func TestAuditFlagsMismatch(t *testing.T) {
	tr := domain.LanguageProfile{Code: domain.LanguageTurkish}

	detected, ok := Audit(tr, "This idea has strong viral potential on Twitter.")
	assert.False(t, ok)
	assert.Equal(t, domain.LanguageEnglish, detected.Code)

	_, ok = Audit(tr, "Bu fikir için çok güzel bir potansiyel var.")
	assert.True(t, ok)

	_, ok = Audit(tr, "", "  ")
	assert.True(t, ok)
}
