package analysis

import (
	"fmt"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
)

type localized struct {
	tr string
	en string
}

func (l localized) in(lang domain.LanguageProfile) string {
	return lang.Pick(l.tr, l.en)
}

type platformDefaults struct {
	summary           localized
	keyFindings       []localized
	contentSuggestion localized
}

var defaultsByPlatform = map[domain.PlatformKey]platformDefaults{
	domain.PlatformTwitter: {
		summary: localized{
			tr: "Twitter analizi geçici olarak mevcut değil. Genel startup fikirleri için orta seviyede viral potansiyel bekleniyor. Kısa ve etkileyici içerikler Twitter'da daha iyi performans gösterir.",
			en: "Twitter analysis temporarily unavailable. Generally moderate viral potential expected for startup ideas. Short, impactful content performs better on Twitter.",
		},
		keyFindings: []localized{
			{tr: "Viral potansiyel: Orta seviye (genel startup fikirleri için)", en: "Viral potential: Moderate (typical for startup ideas)"},
			{tr: "Hashtag stratejisi: Sektör etiketleri kullanın", en: "Hashtag strategy: Use industry-relevant tags"},
			{tr: "İçerik formatı: Kısa ve net mesajlar tercih edilir", en: "Content format: Short, clear messages preferred"},
		},
		contentSuggestion: localized{
			tr: "280 karakter sınırını göz önünde bulundurarak kısa ve etkileyici tweet'ler hazırlayın. Sektörünüze uygun hashtag'ler kullanın ve görsel içerik ekleyerek etkileşimi artırın.",
			en: "Create short, impactful tweets within the 280-character limit. Use industry-relevant hashtags and add visual content to increase engagement.",
		},
	},
	domain.PlatformReddit: {
		summary: localized{
			tr: "Reddit analizi geçici olarak mevcut değil. Startup fikirleri genellikle Reddit topluluklarında orta seviyede ilgi görür. Detaylı açıklamalar ve samimi yaklaşım önemlidir.",
			en: "Reddit analysis temporarily unavailable. Startup ideas typically receive moderate interest in Reddit communities. Detailed explanations and authentic approach are important.",
		},
		keyFindings: []localized{
			{tr: "Topluluk uyumu: Orta seviye (detaylı açıklama gerekli)", en: "Community fit: Moderate (detailed explanation needed)"},
			{tr: "Subreddit önerileri: r/startups, r/entrepreneur gibi", en: "Subreddit suggestions: r/startups, r/entrepreneur, etc."},
			{tr: "Tartışma potansiyeli: Samimi yaklaşımla artırılabilir", en: "Discussion potential: Can be increased with authentic approach"},
		},
		contentSuggestion: localized{
			tr: "Fikrinizi detaylı bir şekilde açıklayın, hangi problemi çözdüğünü belirtin ve topluluktan geri bildirim isteyin. r/startups, r/entrepreneur gibi ilgili subreddit'lerde paylaşın.",
			en: "Explain your idea in detail, specify what problem it solves, and ask for community feedback. Share in relevant subreddits like r/startups, r/entrepreneur.",
		},
	},
	domain.PlatformLinkedIn: {
		summary: localized{
			tr: "LinkedIn analizi geçici olarak mevcut değil. İş fikirleri LinkedIn'de genellikle orta seviyede profesyonel ilgi görür. B2B odaklı yaklaşım ve iş değeri vurgusu önemlidir.",
			en: "LinkedIn analysis temporarily unavailable. Business ideas typically receive moderate professional interest on LinkedIn. B2B-focused approach and business value emphasis are important.",
		},
		keyFindings: []localized{
			{tr: "Profesyonel uygunluk: Orta seviye (iş değeri vurgusu gerekli)", en: "Professional relevance: Moderate (business value emphasis needed)"},
			{tr: "Hedef kitle: Girişimciler ve sektör uzmanları", en: "Target audience: Entrepreneurs and industry experts"},
			{tr: "Ağ değeri: Profesyonel bağlantılar kurma potansiyeli", en: "Network value: Potential for professional connections"},
		},
		contentSuggestion: localized{
			tr: "Profesyonel bir dil kullanarak fikrinizin iş değerini vurgulayın. Sektör uzmanlarından görüş alın ve potansiyel ortaklık fırsatlarını araştırın.",
			en: "Use professional language to emphasize your idea's business value. Seek insights from industry experts and explore potential partnership opportunities.",
		},
	},
}

// FailureReason explains, in the request language, why a platform analysis fell back.
// An empty string means no specific reason applies and the generic summary is used.
func FailureReason(key domain.PlatformKey, lang domain.LanguageProfile, kind errors.InferenceKind) string {
	name := key.DisplayName()
	switch kind {
	case errors.InferenceNone:
		return ""
	case errors.InferenceRateLimit:
		return lang.Pick(
			fmt.Sprintf("%s analizi geçici olarak kullanılamıyor (hız sınırı). Lütfen birkaç dakika sonra tekrar deneyin.", name),
			fmt.Sprintf("%s analysis temporarily unavailable (rate limit). Please try again in a few minutes.", name),
		)
	case errors.InferenceNetwork, errors.InferenceTimeout:
		return lang.Pick(
			fmt.Sprintf("%s analizi için ağ bağlantısı sorunu. Lütfen tekrar deneyin.", name),
			fmt.Sprintf("Network connection issue for %s analysis. Please try again.", name),
		)
	case errors.InferenceAuth:
		return lang.Pick(
			fmt.Sprintf("%s analizi geçici olarak kullanılamıyor (kimlik doğrulama sorunu).", name),
			fmt.Sprintf("%s analysis temporarily unavailable (authentication issue).", name),
		)
	default:
		return lang.Pick(
			fmt.Sprintf("%s analizi şu anda mevcut değil. Lütfen daha sonra tekrar deneyin.", name),
			fmt.Sprintf("%s analysis currently unavailable. Please try again later.", name),
		)
	}
}

// DefaultPlatformAnalysis is the deterministic neutral analysis used whenever the model
// could not produce one. The summary carries the localized failure reason when known.
func DefaultPlatformAnalysis(key domain.PlatformKey, lang domain.LanguageProfile, kind errors.InferenceKind) domain.PlatformAnalysis {
	defaults, ok := defaultsByPlatform[key]
	if !ok {
		defaults = defaultsByPlatform[domain.PlatformTwitter]
	}

	findings := make([]string, 0, len(defaults.keyFindings))
	for _, f := range defaults.keyFindings {
		findings = append(findings, f.in(lang))
	}

	summary := FailureReason(key, lang, kind)
	if summary == "" {
		summary = defaults.summary.in(lang)
	}

	return domain.PlatformAnalysis{
		PlatformName:      key.DisplayName(),
		Score:             constants.ScoreRange.PlatformNeutral,
		Summary:           summary,
		KeyFindings:       findings,
		ContentSuggestion: defaults.contentSuggestion.in(lang),
	}
}

// ContentSuggestions holds the four ready-to-post drafts.
type ContentSuggestions struct {
	Tweet       string
	RedditTitle string
	RedditBody  string
	LinkedIn    string
}

// DefaultContentSuggestions templates post drafts from the idea text itself.
func DefaultContentSuggestions(idea string, lang domain.LanguageProfile) ContentSuggestions {
	tweet := util.Excerpt(idea, constants.SuggestionExcerpt.Tweet)
	title := util.Excerpt(idea, constants.SuggestionExcerpt.RedditTitle)
	linkedin := util.Excerpt(idea, constants.SuggestionExcerpt.LinkedIn)

	if lang.IsPrimary() {
		return ContentSuggestions{
			Tweet:       fmt.Sprintf("🚀 Yeni bir fikir üzerinde çalışıyorum: \"%s...\" \n\nBu konuda deneyimi olan var mı? Görüşlerinizi merak ediyorum! 💭\n\n#startup #girişim #fikir #validasyon", tweet),
			RedditTitle: fmt.Sprintf("[Fikir Paylaşımı] %s... - Topluluktan geri bildirim arıyorum", title),
			RedditBody:  fmt.Sprintf("Merhaba r/startups topluluğu!\n\nŞu fikir üzerinde çalışıyorum ve sizin görüşlerinizi almak istiyorum:\n\n**Fikir:** %s\n\n**Sorularım:**\n- Bu problemi yaşayan var mı?\n- Benzer çözümler kullandınız mı?\n- Hangi özellikler en önemli olurdu?\n\nHer türlü geri bildirime açığım. Teşekkürler!", idea),
			LinkedIn:    fmt.Sprintf("💡 Yeni bir iş fikri geliştiriyorum ve sektör uzmanlarının görüşlerini almak istiyorum:\n\n\"%s...\"\n\nBu alanda deneyimi olan profesyonellerden öneriler ve geri bildirimler bekliyorum. Yorumlarınızı paylaşır mısınız?\n\n#girişimcilik #startup #inovasyon #işfikri", linkedin),
		}
	}

	return ContentSuggestions{
		Tweet:       fmt.Sprintf("🚀 Working on a new idea: \"%s...\"\n\nAnyone with experience in this area? Would love your thoughts! 💭\n\n#startup #idea #validation #feedback", tweet),
		RedditTitle: fmt.Sprintf("[Idea Sharing] %s... - Seeking community feedback", title),
		RedditBody:  fmt.Sprintf("Hi r/startups community!\n\nI'm working on this idea and would love your feedback:\n\n**Idea:** %s\n\n**Questions:**\n- Has anyone experienced this problem?\n- Have you used similar solutions?\n- What features would be most important?\n\nOpen to all feedback. Thanks!", idea),
		LinkedIn:    fmt.Sprintf("💡 Developing a new business idea and seeking insights from industry experts:\n\n\"%s...\"\n\nLooking for suggestions and feedback from professionals with experience in this area. Would you share your thoughts?\n\n#entrepreneurship #startup #innovation #businessidea", linkedin),
	}
}

func unavailableJustification(lang domain.LanguageProfile) string {
	return lang.Pick(
		"Detaylı analiz geçici olarak mevcut değil. Genel pazar değerlendirmesi yapıldı.",
		"Detailed analysis temporarily unavailable. General market assessment provided.",
	)
}

func genericJustification(lang domain.LanguageProfile) string {
	return lang.Pick("Genel değerlendirme", "General assessment")
}
