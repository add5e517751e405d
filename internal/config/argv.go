package config

import (
	"fmt"
	"strings"
	"unicode"
)

// argvScanner splits a command string the way a POSIX shell would for plain
// words, quotes, and backslash escapes. No expansion is performed, so
// placeholders such as {wav} and {model} pass through untouched.
type argvScanner struct {
	argv   []string
	word   strings.Builder
	inWord bool
	quote  rune
	escape bool
}

func (s *argvScanner) endWord() {
	if !s.inWord {
		return
	}
	s.argv = append(s.argv, s.word.String())
	s.word.Reset()
	s.inWord = false
}

func (s *argvScanner) add(r rune) {
	s.word.WriteRune(r)
	s.inWord = true
}

func (s *argvScanner) feed(r rune) {
	switch {
	case s.escape:
		s.add(r)
		s.escape = false
	case r == '\\' && s.quote != '\'':
		s.escape = true
	case s.quote != 0:
		if r == s.quote {
			s.quote = 0
			return
		}
		s.add(r)
	case r == '\'' || r == '"':
		// "" still yields an (empty) argument
		s.quote = r
		s.inWord = true
	case unicode.IsSpace(r):
		s.endWord()
	default:
		s.add(r)
	}
}

func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	var s argvScanner
	for _, r := range input {
		s.feed(r)
	}
	switch {
	case s.escape:
		return nil, fmt.Errorf("unterminated escape sequence in command: %q", input)
	case s.quote != 0:
		return nil, fmt.Errorf("unterminated quote in command: %q", input)
	}
	s.endWord()
	return s.argv, nil
}

func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(err)
	}
	return argv
}

// ParseCommand splits a shell-like command string into its argv form.
func ParseCommand(raw string) (CommandConfig, error) {
	argv, err := parseArgv(raw)
	if err != nil {
		return CommandConfig{}, err
	}
	return CommandConfig{Raw: raw, Argv: argv}, nil
}
