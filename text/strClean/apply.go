package strClean

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlDomainRe      = regexp.MustCompile(`https?://[^/]+`)
	punctuationRe    = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
	multipleSpacesRe = regexp.MustCompile(` +`)
	nonLetterRe      = regexp.MustCompile(`[^a-zA-Z]`)
	digitsToSpaces   = strings.NewReplacer("0", " ", "1", " ", "2", " ", "3", " ", "4", " ", "5", " ", "6", " ", "7", " ", "8", " ", "9", " ")
	digitsRemoved    = strings.NewReplacer("0", "", "1", "", "2", "", "3", "", "4", "", "5", "", "6", "", "7", "", "8", "", "9", "")
)

// Apply runs ops one after the other on raw.
func Apply(raw string, ops ...Op) string {
	for _, op := range ops {
		raw = apply(raw, op)
	}
	return raw
}

func apply(s string, op Op) string {
	switch o := op.(type) {
	case ExtractDomainFromURL:
		return strings.Join(urlDomainRe.FindAllString(s, -1), " ")
	case RemoveSpecificWords:
		return removeWords(s, o.Words, o.WordBoundaries)
	case ToLowercase:
		return strings.ToLower(s)
	case PunctuationToSpaces:
		return punctuationRe.ReplaceAllString(s, " ")
	case RemovePunctuation:
		return punctuationRe.ReplaceAllString(s, "")
	case NumbersToSpaces:
		return digitsToSpaces.Replace(s)
	case RemoveNumbers:
		return digitsRemoved.Replace(s)
	case RemoveSpaces:
		return strings.ReplaceAll(s, " ", "")
	case NewlinesToSpaces:
		return strings.ReplaceAll(s, "\n", " ")
	case MultipleSpacesToOne:
		return multipleSpacesRe.ReplaceAllString(s, " ")
	case TrimSpaces:
		return strings.TrimSpace(s)
	case NonLettersToSpaces:
		return nonLetterRe.ReplaceAllString(s, " ")
	case RemoveNonLetters:
		return nonLetterRe.ReplaceAllString(s, "")
	case JoinSingleLetters:
		return joinSingleLetters(s)
	default:
		return s
	}
}

// 逐个删除，按出现位置从左到右匹配; boundaries 时每个词两侧加 \b
func removeWords(s string, words []string, boundaries bool) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		q := regexp.QuoteMeta(w)
		if boundaries {
			q = `\b` + q + `\b`
		}
		quoted = append(quoted, q)
	}
	if len(quoted) == 0 {
		return s
	}
	re := regexp.MustCompile(strings.Join(quoted, "|"))
	return re.ReplaceAllString(s, "")
}

// joinSingleLetters drops the space between two single-letter words:
// "a  B c D  e" -> "a  BcD  e".
func joinSingleLetters(s string) string {
	r := []rune(s)
	n := len(r)
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < n; i++ {
		sb.WriteRune(r[i])
		if !isASCIILetter(r[i]) || (i > 0 && isWordRune(r[i-1])) {
			continue
		}
		if i+2 < n && r[i+1] == ' ' && isASCIILetter(r[i+2]) && (i+3 == n || !isWordRune(r[i+3])) {
			i++ // 跳过空格
		}
	}
	return sb.String()
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
