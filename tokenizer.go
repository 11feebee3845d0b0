package pcfg

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Clitics split from the word they are attached to: don't -> do n't
	contractionRE = regexp.MustCompile(`(?i)([\pL\pM\pN_])(n't|'s|'re|'ve|'ll|'d|'m)\b`)

	// Clitics, decimal numbers, words with inner hyphens, single punctuation
	tokenRE = regexp.MustCompile(`(?i)n't|'(?:s|re|ve|ll|d|m)\b|\pN+(?:[.,]\pN+)+|[\pL\pM\pN_]+(?:-[\pL\pM\pN_]+)*|[^\pL\pM\pN_\s]`)
)

// Tokenize splits an English sentence into word tokens the way treebank
// grammars expect them: punctuation and clitics are separate tokens.
//
//	Tokenize("The dog doesn't bark.") == []string{"The", "dog", "does", "n't", "bark", "."}
func Tokenize(sentence string) []string {
	sentence = contractionRE.ReplaceAllString(norm.NFC.String(sentence), "$1 $2")
	tokens := tokenRE.FindAllString(sentence, -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Fields splits a sentence on white space only
func Fields(sentence string) []string {
	return strings.Fields(norm.NFC.String(sentence))
}
