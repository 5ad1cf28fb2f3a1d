package glsl

import (
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokPunct
	tokDirective
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex splits src into tokens. Preprocessor lines become a single
// tokDirective holding the text after '#'.
func lex(src string) ([]token, *Error) {
	var toks []token
	line := 1
	lineStart := true
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			lineStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, errorf(line, "", "unterminated comment")
			}
			line += strings.Count(src[i:i+2+end], "\n")
			i += end + 4
			continue
		case c == '#':
			if !lineStart {
				return nil, errorf(line, "#", "invalid character")
			}
			j := i + 1
			for j < len(src) && src[j] != '\n' {
				j++
			}
			toks = append(toks, token{kind: tokDirective, text: strings.TrimSpace(src[i+1 : j]), line: line})
			i = j
			continue
		}
		lineStart = false

		switch {
		case isLetter(c):
			j := i + 1
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], line: line})
			i = j
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j, kind := scanNumber(src, i)
			toks = append(toks, token{kind: kind, text: src[i:j], line: line})
			i = j
		default:
			n := punctLen(src[i:])
			if n == 0 {
				return nil, errorf(line, string(c), "invalid character")
			}
			toks = append(toks, token{kind: tokPunct, text: src[i : i+n], line: line})
			i += n
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

func scanNumber(src string, i int) (int, tokenKind) {
	kind := tokInt
	j := i
	for j < len(src) && isDigit(src[j]) {
		j++
	}
	if j < len(src) && src[j] == '.' {
		kind = tokFloat
		j++
		for j < len(src) && isDigit(src[j]) {
			j++
		}
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isDigit(src[k]) {
			kind = tokFloat
			j = k
			for j < len(src) && isDigit(src[j]) {
				j++
			}
		}
	}
	if kind == tokFloat && j < len(src) && (src[j] == 'f' || src[j] == 'F') {
		j++
	}
	return j, kind
}

var puncts = []string{
	"+=", "-=", "*=", "/=", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "=", "+", "-", "*", "/", "<", ">", "!",
}

func punctLen(s string) int {
	for _, p := range puncts {
		if strings.HasPrefix(s, p) {
			return len(p)
		}
	}
	return 0
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
