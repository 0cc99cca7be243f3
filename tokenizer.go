package wordembed

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/unixpickle/essentials"
)

// maxTokenSize bounds the length of a single whitespace
// separated word read by ReadTokens.
const maxTokenSize = 1 << 20

// PunctuationMode is a way to deal with punctuation and
// other symbols when tokenizing strings.
type PunctuationMode int

const (
	// Treat each piece of punctuation as its own token.
	SeparatePunctuation PunctuationMode = iota

	// Remove all punctuation.
	DropPunctuation

	// Treat punctuation as just another character.
	IncludePunctuation
)

// A Tokenizer separates strings into word tokens.
//
// By default, a Tokenizer converts all tokens to
// lowercase and treats punctuation as its own token.
type Tokenizer struct {
	// PunctuationMode is used to decide how to treat
	// punctuation.
	PunctuationMode PunctuationMode

	// PreserveCase, if true, indicates that fields should
	// not automatically be converted to lowercase.
	PreserveCase bool
}

// Tokenize produces tokens for the string.
func (t *Tokenizer) Tokenize(s string) []string {
	var res []string
	for _, field := range strings.Fields(s) {
		res = append(res, t.tokenizeField(field)...)
	}
	return res
}

// ReadTokens tokenizes an entire corpus.
func ReadTokens(r io.Reader, t *Tokenizer) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)
	var res []string
	for scanner.Scan() {
		res = append(res, t.tokenizeField(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, essentials.AddCtx("read tokens", err)
	}
	return res, nil
}

func (t *Tokenizer) tokenizeField(field string) []string {
	if !t.PreserveCase {
		field = strings.ToLower(field)
	}
	return handlePunctuation(t.PunctuationMode, field)
}

func handlePunctuation(m PunctuationMode, field string) []string {
	switch m {
	case SeparatePunctuation:
		var res []string
		start := -1
		for i, ch := range field {
			if unicode.IsPunct(ch) {
				if start >= 0 {
					res = append(res, field[start:i])
					start = -1
				}
				res = append(res, string(ch))
			} else if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			res = append(res, field[start:])
		}
		return res
	case DropPunctuation:
		res := strings.Map(func(ch rune) rune {
			if unicode.IsPunct(ch) {
				return -1
			}
			return ch
		}, field)
		if res == "" {
			return nil
		}
		return []string{res}
	case IncludePunctuation:
		return []string{field}
	}
	panic("unknown punctuation mode")
}
