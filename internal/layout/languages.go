package layout

import "strings"

// language describes how solutions in one language are stored.
type language struct {
	ext     string
	comment string
}

var languages = map[string]language{
	"python":     {"py", "#"},
	"python3":    {"py", "#"},
	"pandas":     {"py", "#"},
	"java":       {"java", "//"},
	"c":          {"c", "//"},
	"cpp":        {"cpp", "//"},
	"c++":        {"cpp", "//"},
	"csharp":     {"cs", "//"},
	"c#":         {"cs", "//"},
	"javascript": {"js", "//"},
	"typescript": {"ts", "//"},
	"go":         {"go", "//"},
	"golang":     {"go", "//"},
	"rust":       {"rs", "//"},
	"kotlin":     {"kt", "//"},
	"swift":      {"swift", "//"},
	"scala":      {"scala", "//"},
	"dart":       {"dart", "//"},
	"php":        {"php", "//"},
	"ruby":       {"rb", "#"},
	"bash":       {"sh", "#"},
	"shell":      {"sh", "#"},
	"elixir":     {"ex", "#"},
	"erlang":     {"erl", "%"},
	"racket":     {"rkt", ";"},
	"mysql":      {"sql", "--"},
	"mssql":      {"sql", "--"},
	"oraclesql":  {"sql", "--"},
	"postgresql": {"sql", "--"},
	"sql":        {"sql", "--"},
}

// unknownLanguage is used for languages missing from the table.
var unknownLanguage = language{ext: "txt", comment: "#"}

func lookupLanguage(name string) language {
	if l, ok := languages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return unknownLanguage
}

// Extension returns the file extension (without dot) for a language.
func Extension(name string) string {
	return lookupLanguage(name).ext
}

// CommentPrefix returns the line-comment token for a language.
func CommentPrefix(name string) string {
	return lookupLanguage(name).comment
}

// preferredByExt names the language assumed for a file extension when the
// caller gives none. Extensions shared by several languages map to the
// most common one.
var preferredByExt = map[string]string{
	"py":    "python3",
	"java":  "java",
	"c":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"cs":    "csharp",
	"js":    "javascript",
	"ts":    "typescript",
	"go":    "golang",
	"rs":    "rust",
	"kt":    "kotlin",
	"swift": "swift",
	"scala": "scala",
	"dart":  "dart",
	"php":   "php",
	"rb":    "ruby",
	"sh":    "bash",
	"ex":    "elixir",
	"erl":   "erlang",
	"rkt":   "racket",
	"sql":   "mysql",
}

// LanguageForExtension returns the language for a file extension (with or
// without the dot), or "" when unknown.
func LanguageForExtension(ext string) string {
	return preferredByExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
