package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Matcher tests content against a pattern anchored at the start of the
// content. The pattern only has to match a prefix, not the whole content.
type Matcher struct {
	re *regexp2.Regexp
}

// Compile validates the pattern on its own first, so a pattern that is only
// balanced once wrapped (e.g. "a)(b") is still rejected.
func Compile(pattern string, timeout time.Duration) (*Matcher, error) {
	translated := translate(pattern)
	if _, err := regexp2.Compile(translated, regexp2.None); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	re, err := regexp2.Compile(`\A(?:`+translated+`)`, regexp2.None)
	if err != nil {
		// a trailing comment in (?x) mode runs up to the end of the line
		re, err = regexp2.Compile(`\A(?:`+translated+"\n)", regexp2.None)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	return &Matcher{re: re}, nil
}

// translate rewrites the Python spellings regexp2 does not know: (?P<name>,
// (?P=name) and \Z, which only matches at the very end of the content.
func translate(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch {
		case pattern[i] == '\\' && i+1 < len(pattern):
			if pattern[i+1] == 'Z' {
				b.WriteString(`\z`)
			} else {
				b.WriteString(pattern[i : i+2])
			}
			i++
		case strings.HasPrefix(pattern[i:], "(?P<"):
			b.WriteString("(?<")
			i += len("(?P<") - 1
		case strings.HasPrefix(pattern[i:], "(?P="):
			end := strings.IndexByte(pattern[i:], ')')
			if end < 0 {
				b.WriteByte(pattern[i])
				continue
			}
			b.WriteString(`\k<` + pattern[i+len("(?P="):i+end] + `>`)
			i += end
		default:
			b.WriteByte(pattern[i])
		}
	}
	return b.String()
}

func (m *Matcher) Match(content string) (bool, error) {
	return m.re.MatchString(content)
}

// Match compiles pattern and reports whether it matches at position 0 of
// content.
func Match(content string, pattern string) (bool, error) {
	m, err := Compile(pattern, 0)
	if err != nil {
		return false, err
	}
	return m.Match(content)
}
