package lore

import (
	"slices"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	DefaultMainQuest = "Investigate the Vexal corruption. Find and assemble fragments of the Bastion artifact to cleanse or destroy Vexal."
	BastionQuest     = "Recover the fragments of the Bastion artifact. Seek scholars and ruins that can identify fragments."

	// nameSimilarity is the Jaro-Winkler score above which two names are
	// treated as the same entity.
	nameSimilarity = 0.97
)

type Person struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Significance string   `json:"significance,omitempty"`
	Notes        []string `json:"notes,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type Location struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	DiscoveredAtTurn int      `json:"discovered_at_turn"`
	Tags             []string `json:"tags,omitempty"`
}

type Faction struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type Book struct {
	MainQuest  string     `json:"main_quest"`
	VexalNotes []string   `json:"vexal_notes"`
	Persons    []Person   `json:"persons"`
	Locations  []Location `json:"locations"`
	Factions   []Faction  `json:"factions"`
	Tags       []string   `json:"tags"`
}

func NewBook() Book {
	return Book{
		MainQuest:  DefaultMainQuest,
		VexalNotes: []string{},
		Persons:    []Person{},
		Locations:  []Location{},
		Factions:   []Faction{},
		Tags:       []string{},
	}
}

func (b Book) Clone() Book {
	out := b
	out.VexalNotes = slices.Clone(b.VexalNotes)
	out.Tags = slices.Clone(b.Tags)
	out.Persons = make([]Person, len(b.Persons))
	for i, p := range b.Persons {
		p.Notes = slices.Clone(p.Notes)
		p.Tags = slices.Clone(p.Tags)
		out.Persons[i] = p
	}
	out.Locations = make([]Location, len(b.Locations))
	for i, l := range b.Locations {
		l.Tags = slices.Clone(l.Tags)
		out.Locations[i] = l
	}
	out.Factions = make([]Faction, len(b.Factions))
	for i, f := range b.Factions {
		f.Tags = slices.Clone(f.Tags)
		out.Factions[i] = f
	}
	return out
}

func (b *Book) AddVexalNote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.VexalNotes = append(b.VexalNotes, text)
}

// AddPerson inserts or merges a person. Role and significance are only set
// when the existing entry has none.
func (b *Book) AddPerson(name, role, significance, note string, tags []string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	i := findName(len(b.Persons), func(i int) string { return b.Persons[i].Name }, name)
	if i < 0 {
		b.Persons = append(b.Persons, Person{Name: name, Role: role, Significance: significance})
		i = len(b.Persons) - 1
	}
	p := &b.Persons[i]
	if p.Role == "" {
		p.Role = role
	}
	if p.Significance == "" {
		p.Significance = significance
	}
	if note = strings.TrimSpace(note); note != "" {
		p.Notes = append(p.Notes, note)
	}
	p.Tags = appendUnique(p.Tags, tags...)
	b.addTags(tags)
}

// AddLocation inserts or merges a location; a non-empty description replaces
// the stored one.
func (b *Book) AddLocation(name, description string, turn int, tags []string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	i := findName(len(b.Locations), func(i int) string { return b.Locations[i].Name }, name)
	if i < 0 {
		b.Locations = append(b.Locations, Location{Name: name, DiscoveredAtTurn: turn})
		i = len(b.Locations) - 1
	}
	l := &b.Locations[i]
	if description = strings.TrimSpace(description); description != "" {
		l.Description = description
	}
	l.Tags = appendUnique(l.Tags, tags...)
	b.addTags(tags)
}

// AddFaction keeps the first definition of a faction.
func (b *Book) AddFaction(name, description string, tags []string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if findName(len(b.Factions), func(i int) string { return b.Factions[i].Name }, name) >= 0 {
		return
	}
	b.Factions = append(b.Factions, Faction{Name: name, Description: description, Tags: appendUnique(nil, tags...)})
	b.addTags(tags)
}

func (b *Book) PersonNamed(name string) (Person, bool) {
	i := findName(len(b.Persons), func(i int) string { return b.Persons[i].Name }, name)
	if i < 0 {
		return Person{}, false
	}
	return b.Persons[i], true
}

func (b *Book) LocationNamed(name string) (Location, bool) {
	i := findName(len(b.Locations), func(i int) string { return b.Locations[i].Name }, name)
	if i < 0 {
		return Location{}, false
	}
	return b.Locations[i], true
}

func (b *Book) addTags(tags []string) {
	b.Tags = appendUnique(b.Tags, tags...)
	sort.Strings(b.Tags)
}

func findName(n int, nameAt func(int) string, name string) int {
	for i := 0; i < n; i++ {
		if strings.EqualFold(nameAt(i), name) {
			return i
		}
	}
	lower := strings.ToLower(name)
	for i := 0; i < n; i++ {
		if matchr.JaroWinkler(strings.ToLower(nameAt(i)), lower, false) >= nameSimilarity {
			return i
		}
	}
	return -1
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(dst, v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}
