package service

import (
	"regexp"
	"strconv"
	"strings"

	"core/internal/model"

	"go.uber.org/zap"
)

// Budget pattern families, applied over the whole user text with a find-all
// strategy. Among all valid matches from any family, the last one in
// document order wins, so a self-correction ("... pero realmente solo tengo
// 3") overrides the earlier figure.
var (
	budgetKeywords = `(?:presupuesto|budget|hasta|up to|m[áa]ximo|maximum|tengo|i have|solo|only)`

	// "presupuesto 3 millones", "budget 3 million", "hasta 3 mdp"
	budgetMillionsRe = regexp.MustCompile(`(?i)` + budgetKeywords + `\D{0,20}?(\d{1,3})\s*(?:millones|mill[óo]n|millions?|mdp)\b`)

	// "budget 3,000,000", "hasta 3.500.000", "maximo 2500000"
	budgetAbsoluteRe = regexp.MustCompile(`(?i)` + budgetKeywords + `\D{0,20}?(\d{1,3}(?:[.,]\d{3})+|\d{6,8})\b`)

	// "solo tengo 3", "only have 5": bare small integer, read as millions
	budgetBareRe = regexp.MustCompile(`(?i)\b(?:tengo|have|solo|only)\s+(\d{1,2})\b`)
)

var (
	bedroomsNumFirstRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:rec[áa]maras?|habitaciones?|cuartos?|bedrooms?|beds?)\b`)
	bedroomsNumLastRe  = regexp.MustCompile(`(?i)\b(?:rec[áa]maras?|habitaciones?|cuartos?|bedrooms?|beds?)\s*:?\s*(\d{1,2})\b`)

	bathroomsNumFirstRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:ba[ñn]os?|bathrooms?|baths?)\b`)
	bathroomsNumLastRe  = regexp.MustCompile(`(?i)\b(?:ba[ñn]os?|bathrooms?|baths?)\s*:?\s*(\d{1,2})\b`)

	phoneRe = regexp.MustCompile(`\b(\d{10})\b`)
)

// Closed list of recognized cities. Each pattern matches the whole word,
// accent-tolerant; "cdmx" collapses to the same canonical form as the full
// city name.
var cityPatterns = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bmonterrey\b`), "monterrey"},
	{regexp.MustCompile(`(?i)\bguadalajara\b`), "guadalajara"},
	{regexp.MustCompile(`(?i)\b(?:ciudad de m[ée]xico|cdmx)\b`), "ciudad de mexico"},
	{regexp.MustCompile(`(?i)\bquer[ée]taro\b`), "queretaro"},
	{regexp.MustCompile(`(?i)\bcanc[úu]n\b`), "cancun"},
	{regexp.MustCompile(`(?i)\bm[ée]rida\b`), "merida"},
	{regexp.MustCompile(`(?i)\bpuebla\b`), "puebla"},
	{regexp.MustCompile(`(?i)\btijuana\b`), "tijuana"},
}

// Closed list of recognized neighborhoods.
var areaPatterns = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bsan pedro\b`), "san pedro"},
	{regexp.MustCompile(`(?i)\bcumbres\b`), "cumbres"},
	{regexp.MustCompile(`(?i)\bvalle oriente\b`), "valle oriente"},
	{regexp.MustCompile(`(?i)\bcontry\b`), "contry"},
	{regexp.MustCompile(`(?i)\bmitras\b`), "mitras"},
	{regexp.MustCompile(`(?i)\bobispado\b`), "obispado"},
	{regexp.MustCompile(`(?i)\bdel valle\b`), "del valle"},
	{regexp.MustCompile(`(?i)\bcentro\b`), "centro"},
	{regexp.MustCompile(`(?i)\bprovidencia\b`), "providencia"},
	{regexp.MustCompile(`(?i)\bpolanco\b`), "polanco"},
}

// Property type keyword mapping; first keyword match wins, scanned in this
// fixed order.
var propertyTypePatterns = []struct {
	re    *regexp.Regexp
	ptype string
}{
	{regexp.MustCompile(`(?i)\b(?:departamentos?|depas?|apartamentos?|apartments?|apt)\b`), model.PropertyTypeApartment},
	{regexp.MustCompile(`(?i)\b(?:casas?|houses?)\b`), model.PropertyTypeHouse},
	{regexp.MustCompile(`(?i)\b(?:terrenos?|lotes?|land|lots?)\b`), model.PropertyTypeLand},
}

// HeuristicExtractor derives a candidate profile from user-authored text
// using defensive patterns. It never fails; fields with no plausible match
// are simply omitted.
type HeuristicExtractor struct {
	logger *zap.Logger
}

// NewHeuristicExtractor creates a new heuristic extractor
func NewHeuristicExtractor(logger *zap.Logger) *HeuristicExtractor {
	return &HeuristicExtractor{logger: logger}
}

// Extract scans the concatenation of all user-authored turns. Agent turns
// never feed this path.
func (e *HeuristicExtractor) Extract(turns []model.ConversationTurn) *model.CandidateProfile {
	var parts []string
	for _, turn := range turns {
		if turn.Role == model.RoleUser {
			parts = append(parts, turn.Text)
		}
	}
	text := strings.Join(parts, "\n")

	profile := &model.CandidateProfile{}

	if budget, ok := extractBudget(text); ok {
		profile.Budget = &budget
	}
	if city, ok := matchClosedList(text, cityPatterns); ok {
		profile.City = &city
	}
	if area, ok := matchClosedList(text, areaPatterns); ok {
		profile.Area = &area
	}
	if bedrooms, ok := extractRoomCount(text, bedroomsNumFirstRe, bedroomsNumLastRe); ok {
		profile.Bedrooms = &bedrooms
	}
	if bathrooms, ok := extractRoomCount(text, bathroomsNumFirstRe, bathroomsNumLastRe); ok {
		profile.Bathrooms = &bathrooms
	}
	for _, pt := range propertyTypePatterns {
		if pt.re.MatchString(text) {
			ptype := pt.ptype
			profile.PropertyType = &ptype
			break
		}
	}
	if m := phoneRe.FindStringSubmatch(text); m != nil {
		phone := m[1]
		profile.Phone = &phone
	}

	e.logger.Debug("heuristic extraction complete",
		zap.Int("user_turns", len(parts)),
		zap.Bool("empty", profile.IsEmpty()),
	)

	return profile
}

// extractBudget runs every budget pattern family over the whole text and
// keeps the last valid match in document order.
func extractBudget(text string) (float64, bool) {
	var (
		best    float64
		bestPos = -1
		found   bool
	)

	for _, re := range []*regexp.Regexp{budgetMillionsRe, budgetAbsoluteRe, budgetBareRe} {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			// idx[2] is the start of the captured number
			raw := text[idx[2]:idx[3]]
			value, ok := normalizeBudget(raw)
			if !ok {
				continue
			}
			if idx[2] >= bestPos {
				best = value
				bestPos = idx[2]
				found = true
			}
		}
	}

	return best, found
}

// normalizeBudget interprets a raw numeric capture. Small values are read as
// millions; mid-range values are accepted as-is. Everything else (notably
// digit runs that are really phone numbers) is discarded.
func normalizeBudget(raw string) (float64, bool) {
	clean := strings.NewReplacer(",", "", ".", "").Replace(raw)
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case value >= 1 && value <= 100:
		return value * 1_000_000, true
	case value >= 500_000 && value <= 50_000_000:
		return value, true
	default:
		return 0, false
	}
}

// matchClosedList returns the canonical form of the first list entry found
// as a whole word in the text.
func matchClosedList(text string, patterns []struct {
	re        *regexp.Regexp
	canonical string
}) (string, bool) {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return p.canonical, true
		}
	}
	return "", false
}

// extractRoomCount tries number-then-keyword and keyword-then-number forms.
// Counts outside 1-10 are never partially trusted; the scan just moves on.
func extractRoomCount(text string, res ...*regexp.Regexp) (int, bool) {
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			value, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if value >= 1 && value <= 10 {
				return value, true
			}
		}
	}
	return 0, false
}
