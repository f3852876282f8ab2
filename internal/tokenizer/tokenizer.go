// Package tokenizer turns raw chapter text into display-ready RSVP tokens.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Patterns that must survive splitting intact, in priority order. Each
// pattern only scans text that already has earlier matches replaced by
// placeholders, so a later class can never re-match inside an earlier one.
var protected = []*regexp.Regexp{
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`\+?[0-9]{1,3}[-.\s]?\(?[0-9]{2,4}\)?[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}`),
	regexp.MustCompile(`[$€£¥]?[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?(?:%|[$€£¥])?`),
}

// Placeholders are NUL-delimited runs of letters: they contain no
// whitespace, no dashes, and no digits or @-signs, so no protected
// pattern can match inside one and the split step never cuts one apart.
var placeholderRE = regexp.MustCompile("\x00[a-z]+\x00")

var crlfReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Tokenize splits text into display tokens. Runs of whitespace and
// em-dashes are boundaries, except inside URLs, email addresses, phone
// numbers, and number/currency expressions, which are kept whole.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = crlfReplacer.Replace(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	originals := make(map[string]string)
	n := 0
	for _, re := range protected {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			key := "\x00" + alphaKey(n) + "\x00"
			n++
			originals[key] = match
			return key
		})
	}

	text = strings.ReplaceAll(text, "—", " ")

	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, tok := range fields {
		if strings.ContainsRune(tok, '\x00') {
			tok = placeholderRE.ReplaceAllStringFunc(tok, func(key string) string {
				if orig, ok := originals[key]; ok {
					return orig
				}
				return key
			})
		}
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// CountWords returns the number of tokens Tokenize would produce.
func CountWords(text string) int {
	return len(Tokenize(text))
}

// alphaKey encodes n as a lowercase base-26 string.
func alphaKey(n int) string {
	var b []byte
	for {
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
		if n == 0 {
			return string(b)
		}
	}
}

// ORPIndex returns the Optimal Recognition Point index for a token.
// This is the character (rune) position where the eye should focus for
// fastest recognition.
func ORPIndex(token string) int {
	length := utf8.RuneCountInString(token)
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}
