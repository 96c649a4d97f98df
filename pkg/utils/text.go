package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	mentionRe    = regexp.MustCompile(`(?:^|[^\w@])@([A-Za-z0-9_]{1,64})`)
)

// PlainText 去掉所有 HTML 标签，按 rune 截断到 maxRunes（<=0 不截断）
func PlainText(s string, maxRunes int) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.TrimSpace(s)
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		r := []rune(s)
		s = string(r[:maxRunes])
	}
	return s
}

// Mentions 提取 @user_name，去重并保持出现顺序
func Mentions(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range mentionRe.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
