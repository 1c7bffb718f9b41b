// Package layout maps a synced solution to its remote file path and header.
// Everything here is pure: the same inputs always resolve to the same output.
package layout

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// Folder names used when classification is missing.
const (
	ProblemsFolder          = "Problems"
	UnsortedFolder          = "Unsorted"
	UnknownDifficultyFolder = "Unknown_Difficulty"
)

// Target is the solution being placed.
type Target struct {
	Slug       string
	Title      string
	Language   string
	Category   string
	ListName   string
	Difficulty string
	Runtime    string
	Memory     string
	SolvedAt   time.Time
}

// Resolved is the outcome of Resolve.
type Resolved struct {
	Path   string
	Header string
}

// Resolve computes the remote path and header for target. Classification
// fields missing from target fall back to mapping (which may be nil).
func Resolve(settings models.Settings, target Target, mapping *models.MappingEntry) Resolved {
	t := Classify(target, mapping)
	file := Filename(settings, t.Slug, t.Title, t.Language)

	var dirs []string
	switch settings.OrganizationMode {
	case models.OrganizationCategory:
		dirs = []string{ProblemsFolder, segment(t.Category, UnsortedFolder)}
	case models.OrganizationDifficulty:
		dirs = []string{ProblemsFolder, difficultyFolder(t.Difficulty, UnknownDifficultyFolder)}
	case models.OrganizationFlat:
		dirs = []string{ProblemsFolder}
	default:
		list := ProblemsFolder
		if settings.IncludeListFolder {
			list = segment(t.ListName, ProblemsFolder)
		}
		dirs = []string{list}
		if settings.IncludeDifficultyFolder {
			if d := difficultyFolder(t.Difficulty, ""); d != "" {
				dirs = append(dirs, d)
			}
		}
		dirs = append(dirs, segment(t.Category, UnsortedFolder))
	}

	parts := make([]string, 0, len(dirs)+2)
	if base := baseDir(settings.BaseDir); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, dirs...)
	parts = append(parts, file)

	return Resolved{
		Path:   path.Join(parts...),
		Header: Header(t),
	}
}

// Filename returns the sanitized file name for a solution.
func Filename(settings models.Settings, slug, title, language string) string {
	name := Sanitize(title)
	if name == "" {
		name = Sanitize(TitleFromSlug(slug))
	}
	if name == "" {
		name = "Solution"
	}
	if settings.FilenameIncludesSlug {
		if s := Sanitize(slug); s != "" {
			name = s + "_" + name
		}
	}
	return name + "." + Extension(language)
}

// Header renders the comment block prepended to solution files. Lines for
// empty values are omitted.
func Header(t Target) string {
	prefix := CommentPrefix(t.Language)
	lines := []struct{ key, value string }{
		{"Title", t.Title},
		{"Slug", t.Slug},
		{"Difficulty", t.Difficulty},
		{"Category", t.Category},
		{"List", t.ListName},
		{"Runtime", t.Runtime},
		{"Memory", t.Memory},
	}
	if !t.SolvedAt.IsZero() {
		lines = append(lines, struct{ key, value string }{"Solved", t.SolvedAt.UTC().Format(time.RFC3339)})
	}

	var b strings.Builder
	for _, l := range lines {
		v := strings.TrimSpace(l.value)
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s\n", prefix, l.key, v)
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("\n")
	return b.String()
}

// Classify fills classification fields missing from t with mapping's.
func Classify(t Target, mapping *models.MappingEntry) Target {
	if mapping != nil {
		if t.Title == "" {
			t.Title = mapping.Title
		}
		if t.Category == "" {
			t.Category = mapping.Category
		}
		if t.ListName == "" {
			t.ListName = mapping.ListName
		}
		if t.Difficulty == "" {
			t.Difficulty = mapping.Difficulty
		}
	}
	return t
}

// difficultyFolder renders a known difficulty as its bucket name.
func difficultyFolder(difficulty, fallback string) string {
	bucket := models.DifficultyBucket(difficulty)
	if bucket == models.DifficultyUnknown {
		return fallback
	}
	return bucket
}

// baseDir sanitizes each segment of the configured base directory.
func baseDir(dir string) string {
	var parts []string
	for _, p := range strings.Split(dir, "/") {
		if s := Sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// DocumentPath places a top-level document (progress snapshot, digest)
// directly under the configured base directory.
func DocumentPath(settings models.Settings, name string) string {
	return path.Join(baseDir(settings.BaseDir), name)
}
