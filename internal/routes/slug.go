package routes

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DeriveSlug turns a path relative to its source into a page path. The
// extension suffix is stripped; a bare "index" becomes the root "/".
func DeriveSlug(relativePath, ext string) string {
	value := strings.TrimSuffix(filepath.ToSlash(relativePath), ext)
	if value == "index" {
		value = ""
	}
	return "/" + value
}

// DeriveTitle returns the frontmatter title when it is a non-empty string and
// otherwise the start case of baseName.
func DeriveTitle(frontmatterTitle any, baseName string) string {
	if s, ok := frontmatterTitle.(string); ok && s != "" {
		return s
	}
	return StartCase(baseName)
}

// StartCase deburrs s, splits it into words and upper-cases the first letter
// of each, leaving the rest untouched: "getting-started" becomes
// "Getting Started", "XMLHttpRequest2" becomes "XML Http Request 2" and
// "1st-place" becomes "1st Place".
func StartCase(s string) string {
	words := splitWords(deburr(s))
	upper := cases.Upper(language.English)
	for i, w := range words {
		r := []rune(w)
		words[i] = upper.String(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// Latin-1 and Latin Extended-A letters without a canonical decomposition.
var deburrLetters = map[rune]string{
	'Æ': "Ae", 'æ': "ae", 'Ð': "D", 'ð': "d", 'Ø': "O", 'ø': "o",
	'Þ': "Th", 'þ': "th", 'ß': "ss", 'Đ': "D", 'đ': "d", 'Ħ': "H",
	'ħ': "h", 'ı': "i", 'Ĳ': "IJ", 'ĳ': "ij", 'ĸ': "k", 'Ŀ': "L",
	'ŀ': "l", 'Ł': "L", 'ł': "l", 'ŉ': "'n", 'Ŋ': "N", 'ŋ': "n",
	'Œ': "Oe", 'œ': "oe", 'Ŧ': "T", 'ŧ': "t", 'ſ': "s",
}

// deburr folds Latin-1 Supplement and Latin Extended-A letters to basic Latin
// and drops combining diacritical marks. Other scripts pass through.
func deburr(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case isComboMark(r):
		case r >= 0xC0 && r <= 0x17F && r != 0xD7 && r != 0xF7:
			if rep, ok := deburrLetters[r]; ok {
				b.WriteString(rep)
				continue
			}
			for _, d := range norm.NFD.String(string(r)) {
				if !unicode.Is(unicode.Mn, d) {
					b.WriteRune(d)
				}
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isComboMark(r rune) bool {
	return (r >= 0x300 && r <= 0x36F) || (r >= 0xFE20 && r <= 0xFE2F) || (r >= 0x20D0 && r <= 0x20FF)
}

// ordinalSuffix reports the length of an English ordinal suffix ("st", "nd",
// "rd", "th", or their upper-case forms) at runes[i] that completes the digit
// run ending at runes[i-1], or 0. The suffix must end the word: it is followed
// by a non-word rune, the end of input, an underscore or a letter of the other
// case.
func ordinalSuffix(runes []rune, i int) int {
	if i == 0 || i+2 > len(runes) {
		return 0
	}
	d := runes[i-1]
	if d < '0' || d > '9' {
		return 0
	}
	suffix := string(runes[i : i+2])
	var want string
	switch d {
	case '1':
		want = "st"
	case '2':
		want = "nd"
	case '3':
		want = "rd"
	default:
		want = "th"
	}
	lower := suffix == want
	if !lower && suffix != strings.ToUpper(want) {
		return 0
	}
	if i+2 == len(runes) {
		return 2
	}
	next := runes[i+2]
	switch {
	case next == '_':
		return 2
	case next >= 'A' && next <= 'Z':
		if lower {
			return 2
		}
	case next >= 'a' && next <= 'z':
		if !lower {
			return 2
		}
	case next >= '0' && next <= '9':
	default:
		return 2
	}
	return 0
}

type runeClass int

const (
	classOther runeClass = iota
	classLower
	classUpper
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsLower(r):
		return classLower
	case unicode.IsUpper(r), unicode.IsTitle(r):
		return classUpper
	case unicode.IsLetter(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classOther
	}
}

// splitWords drops apostrophes, then breaks s at separators, lower-to-upper transitions, the last
// capital of an acronym followed by lower case, and letter/digit boundaries
// other than ordinals.
func splitWords(s string) []string {
	runes := []rune(strings.NewReplacer("'", "", "’", "").Replace(s))
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		c := classify(runes[i])
		if c == classOther {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := classify(runes[i-1])
		switch {
		case prev == classDigit && c != classDigit:
			if n := ordinalSuffix(runes, i); n > 0 {
				i += n - 1
				flush(i + 1)
				continue
			}
			flush(i)
			start = i
		case prev == classLower && c == classUpper,
			prev != classDigit && c == classDigit:
			flush(i)
			start = i
		case prev == classUpper && c == classUpper &&
			i+1 < len(runes) && classify(runes[i+1]) == classLower:
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}
