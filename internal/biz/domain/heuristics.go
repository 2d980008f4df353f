package domain

import "strings"

// DefaultCategory is used when no category keyword matches
const DefaultCategory = "Genel Hukuk"

// categoryKeywords is scanned in order; the first hit wins
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"aile", "Aile Hukuku"},
	{"boşanma", "Aile Hukuku"},
	{"ceza", "Ceza Hukuku"},
	{"ticaret", "Ticaret Hukuku"},
	{"icra", "İcra ve İflas"},
	{"iflas", "İcra ve İflas"},
	{"iş mahkeme", "İş Hukuku"},
	{"idare", "İdare Hukuku"},
	{"miras", "Miras Hukuku"},
}

var urgentKeywords = []string{"acil", "bugün", "hemen"}

// listingKeywords mark text as a probable listing request
var listingKeywords = []string{
	"mahkeme", "duruşma", "dava", "tevkil", "avukat", "vekil",
	"tl", "lira", "ücret", "tarih", "saat",
	"boşanma", "ceza", "ticaret", "icra", "miras",
	"asliye", "adliye", "celse", "müvekkil",
}

const (
	minListingLength   = 20
	minListingKeywords = 2
)

// InferCategoryAndUrgency derives the display category and urgency of a
// proposal from its venue name and the message that produced it.
func InferCategoryAndUrgency(venue, originalMessage string) (string, Urgency) {
	venueLower := normalizeKeyword(venue)
	msgLower := normalizeKeyword(originalMessage)

	category := DefaultCategory
	for _, ck := range categoryKeywords {
		if strings.Contains(venueLower, ck.keyword) || strings.Contains(msgLower, ck.keyword) {
			category = ck.category
			break
		}
	}

	urgency := UrgencyNormal
	if strings.Contains(msgLower, "çok acil") {
		urgency = UrgencyVeryUrgent
	} else {
		for _, kw := range urgentKeywords {
			if strings.Contains(msgLower, kw) {
				urgency = UrgencyUrgent
				break
			}
		}
	}

	return category, urgency
}

// LooksLikeListing is the cheap gate in front of the AI extractor
func LooksLikeListing(text string) bool {
	if len([]rune(strings.TrimSpace(text))) < minListingLength {
		return false
	}

	lower := normalizeKeyword(text)
	hits := 0
	for _, kw := range listingKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= minListingKeywords
}

func normalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
