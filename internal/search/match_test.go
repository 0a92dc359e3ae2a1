package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pattern string
		want    bool
	}{
		{"prefix", "hello world", "^hello", true},
		{"prefix without caret", "hello world", "hello", true},
		{"not at start", "xhello", "hello", false},
		{"prefix only, not full match", "hello world", "hel", true},
		{"dot star finds later text", "xhello", ".*hello", true},
		{"alternation stays anchored", "xb", "a|b", false},
		{"alternation first branch", "ab", "a|b", true},
		{"empty pattern", "anything", "", true},
		{"empty content", "", "a*", true},
		{"empty content no match", "", "a", false},
		{"case sensitive", "Hello", "hello", false},
		{"inline flag", "Hello", "(?i)hello", true},
		{"lookahead", "foobar", "foo(?=bar)", true},
		{"negative lookahead", "foobaz", "foo(?!baz)", false},
		{"backreference", "abab", `(ab)\1`, true},
		{"named group", "2024-01", `(?<year>\d{4})-\d{2}`, true},
		{"dot does not cross newline", "a\nb", "a.b", false},
		{"multiline content", "package main\n\nfunc main() {}", `package \w+\s+func`, true},
		{"unicode word", "héllo", `h\w+o`, true},
		{"python named group", "2024-01", `(?P<year>\d{4})-\d{2}`, true},
		{"python named backreference", "abab", `(?P<x>ab)(?P=x)`, true},
		{"python named backreference mismatch", "abac", `(?P<x>ab)(?P=x)`, false},
		{"end of string", "hello", `hello\Z`, true},
		{"end of string not before final newline", "hello\n", `hello\Z`, false},
		{"escaped backslash before Z", `a\Z`, `a\\Z`, true},
		{"verbose mode comment", "hello", "(?x)hello # greet", true},
		{"verbose mode whitespace", "hello", "(?x) hel lo", true},
		{"hash without verbose mode", "a#b", "a#b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.content, tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchInvalidPattern(t *testing.T) {
	for _, pattern := range []string{"(", "[a-", "a)(b", `abc\`, "*a"} {
		t.Run(pattern, func(t *testing.T) {
			_, err := Match("a)(b", pattern)
			require.Error(t, err, "Pattern %q should not compile", pattern)
		})
	}
}

func TestMatcherTimeout(t *testing.T) {
	m, err := Compile(`(a+)+$`, 10*time.Millisecond)
	require.NoError(t, err)

	_, err = m.Match(strings.Repeat("a", 64) + "!")
	require.Error(t, err, "Catastrophic backtracking should hit the timeout")

	matched, err := m.Match("aaa")
	require.NoError(t, err)
	require.True(t, matched)
}
