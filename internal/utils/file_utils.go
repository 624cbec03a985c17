package utils

import (
	"path/filepath"
	"strings"
)

var languageByExtension = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "jsx",
	".tsx":   "tsx",
	".py":    "python",
	".java":  "java",
	".c":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".h":     "c",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "bash",
	".bash":  "bash",
	".ps1":   "powershell",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".xml":   "xml",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".tf":    "hcl",
	".bicep": "bicep",
	".md":    "markdown",
}

// DetectLanguageFromFilePath returns the markdown fence language for a file,
// or "" when the extension is unknown.
func DetectLanguageFromFilePath(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	return languageByExtension[ext]
}

// TitleFromFilePath derives a human title from a documentation file name,
// e.g. "docs/ci-cd.md" -> "Ci Cd". README files take the parent directory name.
func TitleFromFilePath(filePath string) string {
	filePath = NormalizePath(filePath)
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	if strings.EqualFold(base, "readme") {
		dir := filepath.Base(filepath.Dir(filePath))
		if dir == "." || dir == "/" {
			return "README"
		}
		base = dir
	}

	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
