package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// ListingCommandTag starts a structured listing message
const ListingCommandTag = "#ILAN"

// Field keys of a structured listing
const (
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldCity        = "city"
	FieldDescription = "description"
	FieldCourthouse  = "courthouse"
	FieldPrice       = "price"
	FieldUrgency     = "urgency"
	FieldDate        = "date"
	FieldTime        = "time"
)

// requiredFields are reported in this order when missing
var requiredFields = []string{FieldTitle, FieldCategory, FieldCity, FieldDescription}

// fieldLabels maps field keys to the label shown to the user
var fieldLabels = map[string]string{
	FieldTitle:       "Başlık",
	FieldCategory:    "Kategori",
	FieldCity:        "Şehir",
	FieldDescription: "Açıklama",
	FieldCourthouse:  "Mahkeme",
	FieldPrice:       "Fiyat",
	FieldUrgency:     "Aciliyet",
	FieldDate:        "Tarih",
	FieldTime:        "Saat",
}

type labelPattern struct {
	field string
	re    *regexp.Regexp
}

var labelPatterns = []labelPattern{
	{FieldTitle, labelRegexp("Başlık")},
	{FieldCategory, labelRegexp("Kategori")},
	{FieldCity, labelRegexp("Şehir")},
	{FieldDescription, labelRegexp("Açıklama")},
	{FieldCourthouse, labelRegexp("Mahkeme")},
	{FieldPrice, labelRegexp("Fiyat", "Ücret")},
	{FieldUrgency, labelRegexp("Aciliyet")},
	{FieldDate, labelRegexp("Tarih")},
	{FieldTime, labelRegexp("Saat")},
}

// labelRegexp builds a line-anchored "Label: value" matcher.
// Go's (?i) does not fold the Turkish dotted/dotless i, so every i-like
// rune is expanded into an explicit class.
func labelRegexp(labels ...string) *regexp.Regexp {
	alts := make([]string, 0, len(labels))
	for _, label := range labels {
		var b strings.Builder
		for _, r := range label {
			switch r {
			case 'i', 'ı', 'I', 'İ':
				b.WriteString("[iıIİ]")
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		alts = append(alts, b.String())
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + strings.Join(alts, "|") + `)[ \t]*:[ \t]*(.+?)[ \t]*$`)
}

// IsListingCommand reports whether text starts with the #ILAN tag
func IsListingCommand(text string) bool {
	return hasCommandPrefix(text, ListingCommandTag)
}

// ExtractLabeledFields returns every labelled field found in text, keyed by field
func ExtractLabeledFields(text string) map[string]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	found := make(map[string]string)
	for _, p := range labelPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if p.field == FieldPrice {
			value = normalizePrice(value)
		}
		if value != "" {
			found[p.field] = value
		}
	}
	return found
}

// normalizePrice turns "4.000 TL" into "4000". Values without digits are dropped.
func normalizePrice(value string) string {
	price, ok := domain.ParseLocalizedNumber(value)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// MissingRequiredFields returns the labels of required fields absent from found
func MissingRequiredFields(found map[string]string) []string {
	var missing []string
	for _, field := range requiredFields {
		if _, ok := found[field]; !ok {
			missing = append(missing, fieldLabels[field])
		}
	}
	return missing
}

// ParseListingCommand parses a #ILAN message.
// Returns nil, nil when text is not a listing command and a
// *domain.MissingFieldsError when required fields are absent.
func ParseListingCommand(text string) (*domain.ListingFields, error) {
	if !IsListingCommand(text) {
		return nil, nil
	}

	found := ExtractLabeledFields(text)
	if missing := MissingRequiredFields(found); len(missing) > 0 {
		return nil, &domain.MissingFieldsError{Fields: missing}
	}

	return &domain.ListingFields{
		Title:       found[FieldTitle],
		Category:    found[FieldCategory],
		City:        found[FieldCity],
		Description: found[FieldDescription],
		Courthouse:  found[FieldCourthouse],
		Price:       found[FieldPrice],
		Urgency:     found[FieldUrgency],
		Date:        found[FieldDate],
		Time:        found[FieldTime],
	}, nil
}

// hasCommandPrefix is a case-insensitive prefix match on the trimmed text.
// Only ASCII letters are folded so "#ılan" does not become a command.
func hasCommandPrefix(text, prefix string) bool {
	text = strings.TrimSpace(text)
	if len(text) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if asciiUpper(text[i]) != prefix[i] {
			return false
		}
	}
	return true
}

func asciiUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
