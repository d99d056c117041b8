package lore

import (
	"regexp"
	"sort"
	"strings"
)

const excerptLimit = 200

var nameRx = regexp.MustCompile(`\b([A-Z][a-z]{2,}(?:\s[A-Z][a-z]{2,})*)\b`)

var commonWords = map[string]bool{
	"The": true, "And": true, "But": true, "When": true, "Where": true, "Because": true,
	"You": true, "Your": true, "Narrative": true, "Heuristic": true, "Level": true,
	"Nothing": true, "Puzzle": true, "Current": true, "Amara": true,
}

type Extraction struct {
	Persons   []string `json:"persons,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Notes     int      `json:"notes,omitempty"`
}

// Extract scans narrative text for capitalised names and quest keywords. A
// candidate becomes a person when the text reads like an epithet ("X the",
// "X, the", or any " of "), otherwise a location.
func (b *Book) Extract(text string, turn int) Extraction {
	var out Extraction
	if strings.TrimSpace(text) == "" {
		return out
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "bastion") {
		b.MainQuest = BastionQuest
		b.AddVexalNote("Mentioned the Bastion: " + excerpt(text))
		out.Notes++
	}
	if strings.Contains(lower, "vexal") {
		b.AddVexalNote("Vexal referenced: " + excerpt(text))
		out.Notes++
	}

	seen := map[string]bool{}
	for _, m := range nameRx.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	candidates := make([]string, 0, len(seen))
	for c := range seen {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	epithet := strings.Contains(text, " of ")
	for _, cand := range candidates {
		if commonWords[cand] {
			continue
		}
		if epithet || strings.Contains(text, cand+" the") || strings.Contains(text, cand+", the") {
			b.AddPerson(cand, "", "", "Auto-extracted (heuristic).", nil)
			out.Persons = append(out.Persons, cand)
			continue
		}
		b.AddLocation(cand, "Discovered in narrative (heuristic).", turn, nil)
		out.Locations = append(out.Locations, cand)
	}
	return out
}

func excerpt(text string) string {
	r := []rune(text)
	if len(r) <= excerptLimit {
		return text
	}
	return string(r[:excerptLimit])
}
