package bundle

import "strings"

const (
	backtick        = '`'
	minimumFenceRun = 3
)

// LongestBacktickRun returns the length of the longest run of consecutive backticks in content.
func LongestBacktickRun(content string) int {
	longest := 0
	current := 0
	for _, character := range content {
		if character != backtick {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

// SafeFence returns the shortest backtick fence, at least three long, that is
// longer than every backtick run inside content.
func SafeFence(content string) string {
	return strings.Repeat(string(backtick), max(minimumFenceRun, LongestBacktickRun(content)+1))
}

var fenceLanguages = map[string]string{
	"java":  "java",
	"kt":    "kotlin",
	"kts":   "kotlin",
	"py":    "python",
	"js":    "javascript",
	"ts":    "typescript",
	"jsx":   "jsx",
	"tsx":   "tsx",
	"go":    "go",
	"rs":    "rust",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"php":   "php",
	"rb":    "ruby",
	"swift": "swift",
	"scala": "scala",
	"sql":   "sql",
	"xml":   "xml",
	"yml":   "yaml",
	"yaml":  "yaml",
	"json":  "json",
	"md":    "markdown",
	"html":  "html",
	"css":   "css",
	"sh":    "bash",
}

// LanguageTag maps a file extension to its code fence language, or "" when unmapped.
func LanguageTag(extension string) string {
	return fenceLanguages[strings.ToLower(extension)]
}
