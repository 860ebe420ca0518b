// SPDX-License-Identifier: EPL-2.0

// Package lexicon rewrites text before it is handed to a speech engine.
//
// A Lexicon maps spellings to their replacements, typically a character to
// the same character annotated with its reading ("地" → "地[dì]"). After the
// replacements run, every Han character followed by a bracketed reading is
// collapsed to the reading alone, so "天地[dì]" becomes "天dì".
package lexicon

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
)

var ErrInvalidLexicon = errors.New("lexicon must be a JSON object")

var annotation = regexp.MustCompile(`(\p{Han})\[([^\]]+)\]`)

// Lexicon maps a spelling to its replacement.
type Lexicon map[string]string

// Load reads a lexicon from a JSON object. Entries with an empty key or a
// non-string value are skipped.
func Load(r io.Reader) (Lexicon, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: got null", ErrInvalidLexicon)
	}

	lex := make(Lexicon, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok || k == "" {
			continue
		}
		lex[k] = s
	}

	return lex, nil
}

func LoadFile(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lex, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return lex, nil
}

// Keys returns the lexicon keys longest first, ties in byte order.
func (l Lexicon) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	return keys
}

// fallback holds built-in readings for characters speech engines commonly
// misread.
var fallback = Lexicon{"地": "地[dì]"}

// Rewrite applies lex to text in a single left-to-right pass, preferring the
// longest key at each position, then collapses reading annotations. Replaced
// text is not rewritten again. A nil lexicon only collapses annotations.
func Rewrite(text string, lex Lexicon) string {
	return annotation.ReplaceAllString(replace(text, lex), "$2")
}

// RewriteWithFallback is Rewrite with the built-in readings ("地" → "地[dì]")
// applied after lex. A built-in entry is skipped when lex has the same key or
// the text already carries its annotation.
func RewriteWithFallback(text string, lex Lexicon) string {
	text = replace(text, lex)

	extra := Lexicon{}
	for k, v := range fallback {
		if _, ok := lex[k]; ok {
			continue
		}
		if strings.Contains(text, strings.TrimPrefix(v, k)) {
			continue
		}
		extra[k] = v
	}
	text = replace(text, extra)

	return annotation.ReplaceAllString(text, "$2")
}

func replace(text string, lex Lexicon) string {
	keys := lex.Keys()
	if len(keys) == 0 {
		return text
	}

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, lex[k])
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
