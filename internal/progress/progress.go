// Package progress derives the summary documents from the solved-set: a
// JSON snapshot for machines and a markdown digest for people.
package progress

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/asteroid-belt/solvesync/internal/layout"
	"github.com/asteroid-belt/solvesync/internal/models"
)

// Digest grouping labels.
const (
	OtherCategory      = "Other"
	ByCategoryHeading  = "By Category"
	OtherProblemsTitle = "Other Problems"
	DefaultRecentLimit = 20
)

// Options shapes the digest.
type Options struct {
	// RecentLimit caps the "Recently Solved" section.
	RecentLimit int
	// ProblemURL is a fmt pattern taking the slug; empty disables links.
	ProblemURL string
	// BaseDir is the remote directory holding the digest, used to make
	// code links relative.
	BaseDir string
}

// Snapshot is the machine-readable summary. It is a direct serialization
// of the solved-set keyed by slug.
type Snapshot struct {
	GeneratedAt time.Time                     `json:"generatedAt"`
	Total       int                           `json:"total"`
	Solved      map[string]models.SolvedEntry `json:"solved"`
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
// Map keys are sorted, so equal inputs give byte-equal output.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Stats counts solved entries per difficulty bucket.
type Stats struct {
	Easy    int
	Medium  int
	Hard    int
	Unknown int
}

// Total is the sum of all buckets.
func (s Stats) Total() int {
	return s.Easy + s.Medium + s.Hard + s.Unknown
}

// Stats counts the snapshot's entries per difficulty.
func (s Snapshot) Stats() Stats {
	var st Stats
	for _, e := range s.Solved {
		st.add(e.Difficulty)
	}
	return st
}

func (s *Stats) add(difficulty string) {
	switch models.DifficultyBucket(difficulty) {
	case models.DifficultyEasy:
		s.Easy++
	case models.DifficultyMedium:
		s.Medium++
	case models.DifficultyHard:
		s.Hard++
	default:
		s.Unknown++
	}
}

// Regenerate builds both documents from the solved-set and the catalog
// mapping. Only GeneratedAt depends on now.
func Regenerate(solved []models.SolvedEntry, mapping map[string]models.MappingEntry, now time.Time, opts Options) (Snapshot, string) {
	snap := Snapshot{
		GeneratedAt: now.UTC(),
		Total:       len(solved),
		Solved:      make(map[string]models.SolvedEntry, len(solved)),
	}
	for _, e := range solved {
		snap.Solved[e.Slug] = e
	}
	return snap, renderDigest(classify(solved, mapping), now, opts)
}

// entry is a solved problem with classification fallbacks applied.
type entry struct {
	models.SolvedEntry
}

func classify(solved []models.SolvedEntry, mapping map[string]models.MappingEntry) []entry {
	out := make([]entry, 0, len(solved))
	for _, s := range solved {
		if m, ok := mapping[s.Slug]; ok {
			if s.Title == "" {
				s.Title = m.Title
			}
			if s.Category == "" {
				s.Category = m.Category
			}
			if s.ListName == "" {
				s.ListName = m.ListName
			}
			if s.Difficulty == "" {
				s.Difficulty = m.Difficulty
			}
		}
		if s.Title == "" {
			s.Title = layout.TitleFromSlug(s.Slug)
		}
		out = append(out, entry{s})
	}
	return out
}

func byTitle(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Title), strings.ToLower(entries[j].Title)
		if a != b {
			return a < b
		}
		return entries[i].Slug < entries[j].Slug
	})
}

func byRecency(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].SolvedAt, entries[j].SolvedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].Slug < entries[j].Slug
	})
}

func renderDigest(entries []entry, now time.Time, opts Options) string {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}

	var stats Stats
	for _, e := range entries {
		stats.add(e.Difficulty)
	}

	var b strings.Builder
	b.WriteString("# Solved Problems\n\n")
	fmt.Fprintf(&b, "_Last updated: %s_\n\n", now.UTC().Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Statistics\n\n")
	b.WriteString("| Difficulty | Solved |\n")
	b.WriteString("| --- | ---: |\n")
	fmt.Fprintf(&b, "| %s | %d |\n", models.DifficultyEasy, stats.Easy)
	fmt.Fprintf(&b, "| %s | %d |\n", models.DifficultyMedium, stats.Medium)
	fmt.Fprintf(&b, "| %s | %d |\n", models.DifficultyHard, stats.Hard)
	fmt.Fprintf(&b, "| %s | %d |\n", models.DifficultyUnknown, stats.Unknown)
	fmt.Fprintf(&b, "| **Total** | **%d** |\n", stats.Total())

	if len(entries) == 0 {
		b.WriteString("\nNo problems solved yet.\n")
		return b.String()
	}

	recent := append([]entry(nil), entries...)
	byRecency(recent)
	if len(recent) > opts.RecentLimit {
		recent = recent[:opts.RecentLimit]
	}
	b.WriteString("\n## Recently Solved\n\n")
	for _, e := range recent {
		fmt.Fprintf(&b, "- %s · %s\n", e.SolvedAt.UTC().Format("2006-01-02"), line(e, opts))
	}

	lists := make(map[string]map[string][]entry)
	categories := make(map[string][]entry)
	var other []entry
	for _, e := range entries {
		switch {
		case e.ListName != "":
			cat := e.Category
			if cat == "" {
				cat = OtherCategory
			}
			if lists[e.ListName] == nil {
				lists[e.ListName] = make(map[string][]entry)
			}
			lists[e.ListName][cat] = append(lists[e.ListName][cat], e)
		case e.Category != "":
			categories[e.Category] = append(categories[e.Category], e)
		default:
			other = append(other, e)
		}
	}

	for _, list := range sortedKeys(lists) {
		fmt.Fprintf(&b, "\n## %s\n", escape(list))
		writeGroups(&b, lists[list], opts)
	}
	if len(categories) > 0 {
		fmt.Fprintf(&b, "\n## %s\n", ByCategoryHeading)
		writeGroups(&b, categories, opts)
	}
	if len(other) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", OtherProblemsTitle)
		byTitle(other)
		for _, e := range other {
			fmt.Fprintf(&b, "- %s\n", line(e, opts))
		}
	}
	return b.String()
}

func writeGroups(b *strings.Builder, groups map[string][]entry, opts Options) {
	for _, name := range sortedKeys(groups) {
		fmt.Fprintf(b, "\n### %s\n\n", escape(name))
		group := groups[name]
		byTitle(group)
		for _, e := range group {
			fmt.Fprintf(b, "- %s\n", line(e, opts))
		}
	}
}

func line(e entry, opts Options) string {
	title := escape(e.Title)
	if opts.ProblemURL != "" {
		title = fmt.Sprintf("[%s](%s)", title, fmt.Sprintf(opts.ProblemURL, e.Slug))
	}

	parts := []string{title, models.DifficultyBucket(e.Difficulty)}
	if e.Language != "" {
		parts = append(parts, e.Language)
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("[code](%s)", relative(e.Path, opts.BaseDir)))
	}
	return strings.Join(parts, " · ")
}

func relative(p, base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return p
	}
	return strings.TrimPrefix(p, base+"/")
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`, "`", "\\`")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
