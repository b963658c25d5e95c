// Package lang maps source filenames to language tags.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language is a lowercase language tag such as "javascript" or "python".
type Language string

// Known language tags. Only JavaScript, TypeScript and Python have dedicated
// complexity support; the rest are recognized but use the generic estimator.
const (
	Unknown    Language = "unknown"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Java       Language = "java"
	Cpp        Language = "cpp"
	C          Language = "c"
	CSharp     Language = "csharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Go         Language = "go"
	Rust       Language = "rust"
	Swift      Language = "swift"
	Kotlin     Language = "kotlin"
	Scala      Language = "scala"
)

// byExtension is keyed by lowercase extension including the dot.
var byExtension = map[string]Language{
	".js":    JavaScript,
	".jsx":   JavaScript,
	".ts":    TypeScript,
	".tsx":   TypeScript,
	".py":    Python,
	".java":  Java,
	".cpp":   Cpp,
	".c":     C,
	".cs":    CSharp,
	".php":   PHP,
	".rb":    Ruby,
	".go":    Go,
	".rs":    Rust,
	".swift": Swift,
	".kt":    Kotlin,
	".scala": Scala,
}

// DefaultSupportedExtensions are the extensions analyzed by default during a
// project scan.
var DefaultSupportedExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py"}

// Detect returns the language for filename based on its extension
// (case-insensitive). Unrecognized extensions map to Unknown.
func Detect(filename string) Language {
	ext := strings.ToLower(filepath.Ext(filename))
	if l, ok := byExtension[ext]; ok {
		return l
	}
	return Unknown
}

// Supported reports whether l has a dedicated complexity estimator.
func Supported(l Language) bool {
	switch l {
	case JavaScript, TypeScript, Python:
		return true
	}
	return false
}

// Descriptor describes a recognized language for display.
type Descriptor struct {
	Name       Language `json:"name"`
	Extensions []string `json:"extensions"`
	Dedicated  bool     `json:"dedicated"`
}

// Languages returns every recognized language with its extensions, sorted by
// name.
func Languages() []Descriptor {
	grouped := make(map[Language][]string)
	for ext, l := range byExtension {
		grouped[l] = append(grouped[l], ext)
	}

	result := make([]Descriptor, 0, len(grouped))
	for l, exts := range grouped {
		sort.Strings(exts)
		result = append(result, Descriptor{Name: l, Extensions: exts, Dedicated: Supported(l)})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// NormalizeExtension lowercases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
