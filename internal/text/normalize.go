// Package text provides the linguistic normalization used by the
// interaction scorer: lowercasing, stop-word removal, and lemmatization
// into a deduplicated token set.
package text

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
)

// Normalizer turns raw abstract text into a set of lemmatized, alphabetic,
// non-stopword tokens. It is an explicitly constructed service: build one
// with NewNormalizer and pass it to whatever needs it.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewNormalizer loads the English lemmatizer dictionary. The dictionary is
// embedded in the dicts module, so this does not touch the filesystem.
func NewNormalizer() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading English lemmatizer: %w", err)
	}
	return &Normalizer{lemmatizer: lem}, nil
}

// TokenSet normalizes text in a single pass: lowercase, strip stop words,
// keep alphabetic tokens only, lemmatize each, and deduplicate. Frequency
// is deliberately discarded; the interaction scorer is presence-based.
func (n *Normalizer) TokenSet(text string) map[string]struct{} {
	cleaned := stopwords.CleanString(strings.ToLower(text), "en", false)

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		tok = strings.Trim(tok, "-")
		if tok == "" || !alphabetic(tok) {
			continue
		}
		set[n.lemmatizer.Lemma(tok)] = struct{}{}
	}
	return set
}

// alphabetic reports whether the token consists only of ASCII letters and
// internal hyphens. Tokens with digits or other punctuation carry no
// interaction vocabulary and are dropped.
func alphabetic(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c == '-' && i > 0 && i < len(tok)-1 {
			continue
		}
		return false
	}
	return true
}
