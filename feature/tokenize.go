package feature

import (
	"strings"
	"unicode"
)

// Tokenize 小写化文本并切分出长度 >= 2 的词（字母、数字、下划线组成的连续串）。
// stopWords 非空时剔除其中的词。
func Tokenize(text string, stopWords map[string]struct{}) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0, len(text)/6)
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tok := text[start:end]
			if _, stop := stopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		start, runes = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

// TokenSet 返回去重后的词集合。
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text, nil)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
