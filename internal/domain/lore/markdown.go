package lore

import (
	"regexp"
	"strings"
)

const generalSection = "General"

var entryRx = regexp.MustCompile(`^\*\*(.+?)\*\*\s*[—–-]\s*(.+)$`)

var tagSplitRx = regexp.MustCompile(`[,|;]`)

var personKeywords = []string{"scholar", "priest", "captain", "lord", "merchant", "clerk", "archiv"}

type Entry struct {
	Name        string
	Description string
	Bullets     []string
}

type Section struct {
	Title   string
	Entries []Entry
}

// ParseMarkdown splits a lore document into "## " sections holding
// "**Name** — description" entries with "- " bullets. Plain lines extend the
// previous entry; stray lines and bullets become nameless entries.
func ParseMarkdown(text string) []Section {
	var sections []Section
	index := map[string]int{}
	current := generalSection
	var entry *Entry

	section := func(title string) *Section {
		i, ok := index[title]
		if !ok {
			sections = append(sections, Section{Title: title})
			i = len(sections) - 1
			index[title] = i
		}
		return &sections[i]
	}
	add := func(e Entry) *Entry {
		s := section(current)
		s.Entries = append(s.Entries, e)
		return &s.Entries[len(s.Entries)-1]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "##") {
			current = strings.TrimSpace(strings.TrimLeft(line, "#"))
			if current == "" {
				current = generalSection
			}
			section(current)
			entry = nil
			continue
		}
		if m := entryRx.FindStringSubmatch(line); m != nil {
			entry = add(Entry{Name: strings.TrimSpace(m[1]), Description: strings.TrimSpace(m[2])})
			continue
		}
		if strings.HasPrefix(line, "- ") {
			bullet := strings.TrimSpace(line[2:])
			if entry != nil {
				entry.Bullets = append(entry.Bullets, bullet)
			} else {
				add(Entry{Bullets: []string{bullet}})
			}
			continue
		}
		if entry != nil {
			entry.Description = strings.TrimSpace(entry.Description + " " + line)
		} else {
			add(Entry{Description: line})
		}
	}
	return sections
}

// Ingest merges parsed sections into the book, routing by section title.
func (b *Book) Ingest(sections []Section) {
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		switch {
		case containsAny(title, "vexal", "core", "lore"):
			b.ingestVexal(s.Entries)
		case containsAny(title, "person", "npc", "people"):
			for _, e := range s.Entries {
				if e.Name == "" {
					continue
				}
				role, significance, notes := labeledBullets(e.Bullets)
				note := strings.Join(notes, "; ")
				if note == "" {
					note = e.Description
				}
				b.AddPerson(e.Name, role, significance, note, bulletTags(e.Bullets))
			}
		case containsAny(title, "location", "place", "site", "city"):
			for _, e := range s.Entries {
				if e.Name == "" {
					continue
				}
				_, _, notes := labeledBullets(e.Bullets)
				desc := e.Description
				if len(notes) > 0 {
					desc = strings.TrimSpace(desc + " " + strings.Join(notes, "; "))
				}
				b.AddLocation(e.Name, desc, 0, bulletTags(e.Bullets))
			}
		case containsAny(title, "faction", "order"):
			for _, e := range s.Entries {
				if e.Name == "" {
					continue
				}
				b.AddFaction(e.Name, e.Description, bulletTags(e.Bullets))
			}
		default:
			for _, e := range s.Entries {
				switch {
				case e.Name == "":
					b.AddVexalNote(e.Description)
				case containsAny(strings.ToLower(e.Description), personKeywords...):
					b.AddPerson(e.Name, "", "", e.Description, nil)
				default:
					b.AddLocation(e.Name, e.Description, 0, nil)
				}
			}
		}
	}
}

func (b *Book) ingestVexal(entries []Entry) {
	for _, e := range entries {
		if e.Name != "" {
			name := strings.ToLower(e.Name)
			desc := strings.ToLower(e.Description)
			quest := containsAny(name, "vexal", "bastion") || containsAny(desc, "vexal", "bastion")
			if quest && (containsAny(desc, "main quest", "recover") || strings.Contains(name, "bastion")) {
				b.MainQuest = e.Description
			} else {
				b.AddVexalNote(e.Name + ": " + e.Description)
			}
		} else if e.Description != "" {
			b.AddVexalNote(e.Description)
		}
		for _, bullet := range e.Bullets {
			b.AddVexalNote(bullet)
		}
	}
}

func labeledBullets(bullets []string) (role, significance string, notes []string) {
	for _, bl := range bullets {
		label, rest, ok := strings.Cut(bl, ":")
		if !ok {
			notes = append(notes, bl)
			continue
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "role":
			role = strings.TrimSpace(rest)
		case "significance":
			significance = strings.TrimSpace(rest)
		case "notes":
			notes = append(notes, strings.TrimSpace(rest))
		case "tags":
		default:
			notes = append(notes, bl)
		}
	}
	return role, significance, notes
}

func bulletTags(bullets []string) []string {
	for _, bl := range bullets {
		label, rest, ok := strings.Cut(bl, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(label), "tags") {
			continue
		}
		var tags []string
		for _, t := range tagSplitRx.Split(rest, -1) {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
