package domain

// LanguageCode identifies a supported generation language.
type LanguageCode string

const (
	// LanguageTurkish is the primary target language.
	LanguageTurkish LanguageCode = "tr"
	// LanguageEnglish is used whenever the input is not confidently Turkish.
	LanguageEnglish LanguageCode = "en"
)

// LanguageProfile is derived once per request and steers every prompt builder.
type LanguageProfile struct {
	Code LanguageCode `json:"code"`
}

func (p LanguageProfile) IsPrimary() bool {
	return p.Code == LanguageTurkish
}

// Pick returns tr when the profile is Turkish and en otherwise.
func (p LanguageProfile) Pick(tr, en string) string {
	if p.IsPrimary() {
		return tr
	}
	return en
}
