package pipeline

import (
	"strings"
	"unicode"
)

// Name normalization. Tenant databases store raw three-part names with
// inconsistent casing, stray punctuation and locale accents; every tenant
// goes through the same cleanup so the merged report reads uniformly and the
// advisor-team dimension can match on cleaned names.

// NormalizeName builds the display name from the raw three parts. Surnames
// lose hyphens and periods (replaced by spaces, so compound surnames keep
// their words); given names keep hyphens. Every word is title-cased and the
// result carries single spaces only; repeated separators from blank
// surname fields are collapsed.
func NormalizeName(firstName, paternal, maternal string) string {
	parts := []string{
		titleCaseWords(firstName),
		titleCaseWords(cleanSurname(paternal)),
		titleCaseWords(cleanSurname(maternal)),
	}
	return collapseSpaces(strings.Join(parts, " "))
}

func cleanSurname(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")
	return s
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleCaseWord(w)
	}
	return strings.Join(words, " ")
}

func titleCaseWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripAdvisorQualifiers removes branch/role tokens ("Cancun", "Interno",
// ...) wherever they appear as substrings of an advisor display name. This
// is a best-effort heuristic over an exhaustive token list supplied by
// configuration, not a tokenizer; multi-word qualifiers must be listed in
// full.
func StripAdvisorQualifiers(name string, qualifierTokens []string) string {
	for _, tok := range qualifierTokens {
		if tok == "" {
			continue
		}
		name = strings.ReplaceAll(name, tok, "")
	}
	return collapseSpaces(name)
}

// foldReplacer maps the accented characters seen in tenant data to ASCII.
// A fixed table, not a general Unicode decomposition: the report consumer
// only needs the Spanish set folded.
var foldReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
	"ü", "u", "Ü", "U",
	"ñ", "n", "Ñ", "N",
)

// FoldDiacritics replaces accented characters with ASCII equivalents. Only
// the final report's customer display name goes through this; earlier
// pipeline stages (and the dimension lookups) stay accent-sensitive.
func FoldDiacritics(s string) string {
	return foldReplacer.Replace(s)
}
