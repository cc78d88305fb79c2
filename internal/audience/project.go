package audience

import (
	"strings"
	"time"

	"github.com/winterhq/socialboard/internal/models"
)

// Display is the audience payload projected into render-ready values
type Display struct {
	Men       int              `json:"men"`
	Women     int              `json:"women"`
	Ages      []AgeGroup       `json:"ages"`
	Countries []DisplayCountry `json:"countries"`
	Cities    []Location       `json:"cities"`
	UpdatedAt string           `json:"updated_at"` // formatted, empty when unknown
}

// AgeGroup is one fixed band with its clamped percent
type AgeGroup struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// DisplayCountry is a country entry with its resolved flag glyph
type DisplayCountry struct {
	Label   string `json:"label"`
	Flag    string `json:"flag"`
	Percent int    `json:"percent"`
}

// GlobeFlag is the fallback glyph for labels with no flag mapping
const GlobeFlag = "\U0001F310"

// iso2ByName maps common country names and synonyms to ISO 3166-1 alpha-2
// codes. Lookups are case-insensitive; extend anytime.
var iso2ByName = map[string]string{
	"australia":      "AU",
	"united states":  "US",
	"usa":            "US",
	"japan":          "JP",
	"brazil":         "BR",
	"united kingdom": "GB",
	"uk":             "GB",
	"canada":         "CA",
	"germany":        "DE",
	"france":         "FR",
	"italy":          "IT",
	"spain":          "ES",
	"new zealand":    "NZ",
}

// CountryFlag maps a country label to an emoji flag. Labels already in
// 2-letter form are used directly; unknown labels get the globe glyph.
func CountryFlag(label string) string {
	iso, ok := iso2ByName[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		if trimmed := strings.TrimSpace(label); len(trimmed) == 2 {
			iso = trimmed
		}
	}
	if iso == "" {
		return GlobeFlag
	}
	return flagFromISO2(iso)
}

// flagFromISO2 builds the regional-indicator pair for a 2-letter code
func flagFromISO2(iso2 string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(iso2) {
		if r < 'A' || r > 'Z' {
			continue
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	if b.Len() == 0 {
		return GlobeFlag
	}
	return b.String()
}

// dateLayouts are the timestamp shapes historical rows have carried
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders any parseable timestamp as DD/MM/YYYY. Absent or
// unparseable input renders empty — no placeholder text.
func FormatDate(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("02/01/2006")
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format("02/01/2006")
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("02/01/2006")
			}
		}
		return ""
	}
	return ""
}

// Project mirrors Normalize's tolerance on the read side: the stored shape
// has drifted across versions, so the projection resolves every concept
// through the same accepted-key tables instead of assuming one spelling.
func Project(raw interface{}) Display {
	men, women := projectGender(raw)

	ageSrc, _ := firstPresent(raw, ageSourceKeys)
	ages := make([]AgeGroup, 0, len(AgeBandLabels))
	for _, label := range AgeBandLabels {
		ages = append(ages, AgeGroup{Label: label, Percent: resolveAgeBand(ageSrc, label)})
	}

	countriesSrc, _ := firstPresent(raw, countrySourceKeys)
	countries := make([]DisplayCountry, 0, 4)
	for _, loc := range NormalizeLocations(countriesSrc) {
		countries = append(countries, DisplayCountry{
			Label:   loc.Label,
			Flag:    CountryFlag(loc.Label),
			Percent: loc.Percent,
		})
	}

	citiesSrc, _ := firstPresent(raw, citySourceKeys)

	updated, _ := firstPresent(raw, []string{"updated_at", "updatedAt"})

	return Display{
		Men:       men,
		Women:     women,
		Ages:      ages,
		Countries: countries,
		Cities:    NormalizeLocations(citiesSrc),
		UpdatedAt: FormatDate(updated),
	}
}

// ProjectJSON is Project over a raw JSON payload
func ProjectJSON(data []byte) Display {
	return Project(DecodeLoose(data))
}

// projectGender matches the display behavior the dashboard always had: a
// zero side backfills from the other's complement, so a row that only ever
// stored one side still renders as a full split.
func projectGender(raw interface{}) (men, women int) {
	container := raw
	if g, ok := lookup(raw, "gender"); ok && isContainer(g) {
		container = g
	}
	menVal, _ := firstMeaningful(container, menKeys)
	womenVal, _ := firstMeaningful(container, womenKeys)
	men = ToPercent(menVal)
	women = ToPercent(womenVal)
	if women == 0 && men != 0 {
		women = clampPercent(float64(100 - men))
	}
	if men == 0 && women != 0 {
		men = clampPercent(float64(100 - women))
	}
	return men, women
}

// ProfilePayload projects the canonical row into the public dashboard's
// audience object, canonical spellings only.
func ProfilePayload(p *models.AudienceProfile) map[string]interface{} {
	if p == nil {
		return nil
	}
	return map[string]interface{}{
		"gender": map[string]interface{}{
			"men":   p.GenderMen,
			"women": p.GenderWomen,
		},
		"age_bands":  map[string]interface{}(p.AgeBands),
		"countries":  []map[string]interface{}(p.Countries),
		"cities":     []map[string]interface{}(p.Cities),
		"updated_at": p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
