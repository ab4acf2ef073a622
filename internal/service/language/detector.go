package language

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
)

const turkishLetters = "çğıöşüÇĞİÖŞÜ"

var turkishStopWords = wordSet(
	"ve", "bir", "bu", "şu", "için", "ile", "olan", "gibi", "daha", "çok", "en", "de", "da", "ki",
	"mi", "mu", "mı", "mü", "ben", "sen", "o", "biz", "siz", "onlar", "var", "yok", "iyi", "kötü",
	"büyük", "küçük", "yeni", "eski", "gelen", "giden", "yapan", "eden", "şey", "yer", "zaman",
	"kişi", "insan", "adam", "kadın", "çocuk", "anne", "baba", "ev", "iş", "para", "su", "yemek",
	"içmek", "gitmek", "gelmek", "yapmak", "etmek", "olmak", "vermek", "almak", "görmek", "bilmek",
	"söylemek", "demek", "çalışmak", "oturmak", "kalkmak", "uyumak", "uyanmak", "sevmek", "istemek",
	"gerekli", "lazım", "mümkün", "imkansız", "kolay", "zor", "hızlı", "yavaş", "sıcak", "soğuk",
	"açık", "kapalı", "doğru", "yanlış", "güzel", "çirkin", "temiz", "kirli", "zengin", "fakir",
	"mutlu", "üzgün", "sağlıklı", "hasta", "genç", "yaşlı", "uzun", "kısa", "geniş", "dar",
	"yüksek", "alçak", "ağır", "hafif", "sert", "yumuşak", "tatlı", "acı", "tuzlu", "ekşi",
	"beyaz", "siyah", "kırmızı", "mavi", "yeşil", "sarı", "turuncu", "mor", "pembe", "kahverengi", "gri",
)

var englishStopWords = wordSet(
	"the", "and", "for", "with", "that", "this", "is", "are", "to", "of", "in", "on", "a", "an",
	"it", "be", "by", "or", "as", "at", "from", "will", "can", "who", "what", "which", "their",
	"they", "people", "app", "help", "helps", "users", "platform", "business", "service",
)

// turkishSuffixes is ordered longest first so a token is counted once.
var turkishSuffixes = []string{
	"iyor", "uyor", "üyor", "acak", "ecek", "arak", "erek", "iken",
	"ların", "lerin", "lar", "ler", "dan", "den", "tan", "ten", "nın", "nin", "nun", "nün",
	"dır", "dir", "dur", "dür", "tır", "tir", "tur", "tür", "mış", "miş", "muş", "müş",
	"mak", "mek", "yor", "ken", "ınca", "ince", "unca", "ünce",
}

// Signals are the raw counts behind a detection.
type Signals struct {
	Letters       int
	TurkishWords  int
	EnglishWords  int
	Suffixes      int
	Length        int
	WeightedScore int
	WeightedRatio float64
}

// Analyze counts every language indicator in text.
func Analyze(text string) Signals {
	var s Signals
	s.Length = utf8.RuneCountInString(text)
	for _, r := range text {
		if strings.ContainsRune(turkishLetters, r) {
			s.Letters++
		}
	}

	for _, word := range tokenize(text) {
		turkish := strings.ToLowerSpecial(unicode.TurkishCase, word)
		if _, ok := turkishStopWords[turkish]; ok {
			s.TurkishWords++
		}
		if hasTurkishSuffix(turkish) {
			s.Suffixes++
		}
		if _, ok := englishStopWords[strings.ToLower(word)]; ok {
			s.EnglishWords++
		}
	}

	s.WeightedScore = s.Letters*3 + s.TurkishWords*2 + s.Suffixes
	if s.Length > 0 {
		s.WeightedRatio = float64(s.WeightedScore) / float64(s.Length)
	}
	return s
}

// IsPrimary applies the conservative decision rule. Treating Turkish as English is the
// acceptable error; mixing languages in generated output is not.
func (s Signals) IsPrimary() bool {
	switch {
	case s.Letters > 0 && s.TurkishWords > 0:
		return true
	case s.WeightedRatio > 0.1 && s.TurkishWords > 1:
		return true
	case s.TurkishWords > 2:
		return true
	default:
		return false
	}
}

// Detect labels text as Turkish (primary) or English (fallback).
func Detect(text string) domain.LanguageProfile {
	if Analyze(text).IsPrimary() {
		return domain.LanguageProfile{Code: domain.LanguageTurkish}
	}
	return domain.LanguageProfile{Code: domain.LanguageEnglish}
}

// Audit re-runs detection over generated text. It returns the detected profile and
// whether it agrees with expected; callers only log disagreements.
func Audit(expected domain.LanguageProfile, generated ...string) (domain.LanguageProfile, bool) {
	joined := strings.TrimSpace(strings.Join(generated, " "))
	if joined == "" {
		return expected, true
	}
	detected := Detect(joined)
	return detected, detected.Code == expected.Code
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func hasTurkishSuffix(token string) bool {
	if utf8.RuneCountInString(token) < 5 {
		return false
	}
	for _, suffix := range turkishSuffixes {
		if strings.HasSuffix(token, suffix) {
			return true
		}
	}
	return false
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
