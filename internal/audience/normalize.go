package audience

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/winterhq/socialboard/internal/models"
)

// Accepted key spellings for every concept the stored shape has drifted
// through. These tables are the single place new legacy spellings get
// added; both the normalizer and the read-side projection consult them.
var (
	// AgeBandLabels are the fixed age bands, in display order
	AgeBandLabels = []string{"18-24", "25-34", "35-44", "45-54"}

	menKeys   = []string{"men", "gender_men"}
	womenKeys = []string{"women", "gender_women"}

	ageSourceKeys     = []string{"age_bands", "age_groups", "ages"}
	countrySourceKeys = []string{"countries", "top_countries"}
	citySourceKeys    = []string{"cities", "top_cities"}

	locationLabelKeys   = []string{"country", "city", "label", "name", "title"}
	locationPercentKeys = []string{"percentage", "pct", "percent", "value"}
)

// Location is one normalized audience location entry. Slice position is
// rank; entries are never sorted by percent.
type Location struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// NormalizeJSON decodes a loose audience payload and normalizes it.
// Malformed JSON yields the empty profile, never an error.
func NormalizeJSON(data []byte, now time.Time) models.AudienceProfile {
	return Normalize(DecodeLoose(data), now)
}

// Normalize converts a loosely-shaped audience payload (admin form input or
// a historical persisted row) into the canonical profile. It is total:
// any input maps to a defined profile, worst case all-zero and empty.
func Normalize(raw interface{}, now time.Time) models.AudienceProfile {
	men, women := resolveGender(raw)

	bands := models.JSONMap{}
	ageSrc, _ := firstPresent(raw, ageSourceKeys)
	for _, label := range AgeBandLabels {
		bands[label] = resolveAgeBand(ageSrc, label)
	}

	countriesSrc, _ := firstPresent(raw, countrySourceKeys)
	citiesSrc, _ := firstPresent(raw, citySourceKeys)

	return models.AudienceProfile{
		GenderMen:   men,
		GenderWomen: women,
		AgeBands:    bands,
		Countries:   locationsToJSON(NormalizeLocations(countriesSrc)),
		Cities:      locationsToJSON(NormalizeLocations(citiesSrc)),
		UpdatedAt:   now,
	}
}

// resolveGender reads men/women percentages from a nested gender object or
// flat keys. If exactly one side is present the other is derived as the
// complement to 100; both present are kept independently; neither is 0/0.
func resolveGender(raw interface{}) (men, women int) {
	container := raw
	if g, ok := lookup(raw, "gender"); ok && isContainer(g) {
		container = g
	}

	menVal, menPresent := firstMeaningful(container, menKeys)
	womenVal, womenPresent := firstMeaningful(container, womenKeys)

	switch {
	case menPresent && womenPresent:
		return ToPercent(menVal), ToPercent(womenVal)
	case menPresent:
		men = ToPercent(menVal)
		return men, clampPercent(float64(100 - men))
	case womenPresent:
		women = ToPercent(womenVal)
		return clampPercent(float64(100 - women)), women
	default:
		return 0, 0
	}
}

// resolveAgeBand looks a band up under its dash spelling first, then the
// underscore spelling. Missing values are 0.
func resolveAgeBand(src interface{}, label string) int {
	if src == nil {
		return 0
	}
	if v, ok := lookup(src, label); ok {
		return ToPercent(v)
	}
	if v, ok := lookup(src, strings.ReplaceAll(label, "-", "_")); ok {
		return ToPercent(v)
	}
	return 0
}

// NormalizeLocations turns any location-ish input into an ordered list.
// Accepted inputs: a sequence of records, a keyed mapping (key -> label,
// value -> percent, document order preserved), a single non-empty string
// (one entry, percent 0), or anything else (empty). Entries with a blank
// label are dropped. Input order is rank order.
func NormalizeLocations(src interface{}) []Location {
	var out []Location
	for _, entry := range locationEntries(src) {
		if entry.Label = strings.TrimSpace(entry.Label); entry.Label != "" {
			out = append(out, entry)
		}
	}
	return out
}

func locationEntries(src interface{}) []Location {
	switch x := src.(type) {
	case []interface{}:
		entries := make([]Location, 0, len(x))
		for _, item := range x {
			entries = append(entries, locationFromRecord(item))
		}
		return entries
	case *OrderedMap:
		entries := make([]Location, 0, x.Len())
		for _, key := range x.Keys() {
			v, _ := x.Get(key)
			entries = append(entries, Location{Label: key, Percent: ToPercent(v)})
		}
		return entries
	case map[string]interface{}:
		// A plain Go map has no document order; sort keys so the result
		// is at least deterministic. JSON input goes through OrderedMap.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Location, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Location{Label: k, Percent: ToPercent(x[k])})
		}
		return entries
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []Location{{Label: s}}
		}
		return nil
	}
	return nil
}

// locationFromRecord resolves one sequence element: a record with any of
// the accepted label/percent spellings, a bare string label, or junk.
func locationFromRecord(item interface{}) Location {
	switch x := item.(type) {
	case string:
		return Location{Label: x}
	case *OrderedMap, map[string]interface{}:
		var loc Location
		for _, k := range locationLabelKeys {
			if v, ok := lookup(x, k); ok {
				if s := labelString(v); s != "" {
					loc.Label = s
					break
				}
			}
		}
		if v, ok := firstPresent(x, locationPercentKeys); ok {
			loc.Percent = ToPercent(v)
		}
		return loc
	}
	return Location{}
}

func labelString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	default:
		if f, ok := toNumber(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}

func locationsToJSON(locs []Location) models.JSONList {
	out := make(models.JSONList, 0, len(locs))
	for _, l := range locs {
		out = append(out, map[string]interface{}{
			"label":   l.Label,
			"percent": l.Percent,
		})
	}
	return out
}

func isContainer(v interface{}) bool {
	switch v.(type) {
	case *OrderedMap, map[string]interface{}:
		return true
	}
	return false
}

// firstMeaningful is firstPresent minus blank strings: an empty form field
// does not count as a provided value.
func firstMeaningful(container interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		v, ok := lookup(container, k)
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}
