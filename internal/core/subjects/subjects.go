// Package subjects resolves free-form subject names to the canonical course
// codes accepted by the timetable.
package subjects

import (
	"regexp"
	"strings"
)

// ValidCodes is the whitelist of course codes the timetable accepts.
var ValidCodes = []string{
	"29242201", "29242202", "29242203", "29242204", "29242205",
	"29242206", "29242207", "29242208", "29242209", "29242210",
	"29242211", "29242212", "NECXXXXX", "SIP2XXXX",
}

type mapping struct {
	keywords []string
	code     string
}

// keywordMap resolves name fragments to codes. Lab entries come first so the
// more specific match wins.
var keywordMap = []mapping{
	{[]string{"data science lab", "science lab"}, "29242206"},
	{[]string{"algorithms lab", "algo lab"}, "29242207"},
	{[]string{"data science", "data sci"}, "29242201"},
	{[]string{"design and analysis", "algorithms", "daa"}, "29242202"},
	{[]string{"theory of computation", "toc"}, "29242203"},
	{[]string{"communication", "networks", "cn"}, "29242204"},
	{[]string{"design pattern", "patterns"}, "29242205"},
	{[]string{"competitive programming", "cp"}, "29242208"},
	{[]string{"proficiency"}, "29242209"},
	{[]string{"macro project", "project-ii"}, "29242210"},
	{[]string{"project management", "economics"}, "29242211"},
	{[]string{"mandatory workshop", "intellectual"}, "29242212"},
	{[]string{"novel engaging", "nec"}, "NECXXXXX"},
	{[]string{"internship", "sip"}, "SIP2XXXX"},
}

var codePattern = regexp.MustCompile(`(\d{8}|NECXXXXX|SIP2XXXX)`)

// ResolveCode returns the course code for a subject name, or "" when no
// mapping applies. A code embedded in the name wins over keyword matching.
func ResolveCode(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return ""
	}
	if code := codePattern.FindString(clean); code != "" {
		return code
	}
	lower := strings.ToLower(clean)
	for _, m := range keywordMap {
		for _, k := range m.keywords {
			if strings.Contains(lower, k) {
				return m.code
			}
		}
	}
	return ""
}

// IsValid reports whether the subject resolves to a whitelisted code.
func IsValid(name string) bool {
	code := ResolveCode(name)
	if code == "" {
		return false
	}
	for _, v := range ValidCodes {
		if v == code {
			return true
		}
	}
	return false
}
