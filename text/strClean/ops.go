// Package strClean chains common string-cleaning operations.
//
// Each operation is its own type implementing Op; Apply is the single
// dispatcher. Operations needing parameters carry them in their struct.
package strClean

import (
	"strings"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

type OpKind int

const (
	OP_EXTRACT_DOMAIN_FROM_URL OpKind = iota
	OP_REMOVE_SPECIFIC_WORDS
	OP_TO_LOWERCASE
	OP_PUNCTUATION_TO_SPACES
	OP_REMOVE_PUNCTUATION
	OP_NUMBERS_TO_SPACES
	OP_REMOVE_NUMBERS
	OP_REMOVE_SPACES
	OP_NEWLINES_TO_SPACES
	OP_MULTIPLE_SPACES_TO_SINGLE
	OP_TRIM_SPACES
	OP_NON_LETTERS_TO_SPACES
	OP_REMOVE_NON_LETTERS
	OP_JOIN_SINGLE_LETTERS
	opKindCount
)

var kindNames = [...]string{
	OP_EXTRACT_DOMAIN_FROM_URL:   "extract_domain_from_url",
	OP_REMOVE_SPECIFIC_WORDS:     "remove_specific_words",
	OP_TO_LOWERCASE:              "to_lowercase",
	OP_PUNCTUATION_TO_SPACES:     "punctuation_to_spaces",
	OP_REMOVE_PUNCTUATION:        "remove_punctuation",
	OP_NUMBERS_TO_SPACES:         "numbers_to_spaces",
	OP_REMOVE_NUMBERS:            "remove_numbers",
	OP_REMOVE_SPACES:             "remove_spaces",
	OP_NEWLINES_TO_SPACES:        "newlines_to_spaces",
	OP_MULTIPLE_SPACES_TO_SINGLE: "multiple_spaces_to_single_spaces",
	OP_TRIM_SPACES:               "remove_spaces_at_start_and_end",
	OP_NON_LETTERS_TO_SPACES:     "non_letters_to_spaces",
	OP_REMOVE_NON_LETTERS:        "remove_non_letters",
	OP_JOIN_SINGLE_LETTERS:       "join_single_space_separated_letters_together",
}

func (k OpKind) String() string {
	if k < 0 || k >= opKindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds 按声明顺序列出全部操作
func Kinds() []OpKind {
	out := make([]OpKind, 0, opKindCount)
	for k := OpKind(0); k < opKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Op is implemented only by the operation types of this package.
type Op interface {
	Kind() OpKind
	sealed()
}

type (
	ExtractDomainFromURL struct{}
	ToLowercase          struct{}
	PunctuationToSpaces  struct{}
	RemovePunctuation    struct{}
	NumbersToSpaces      struct{}
	RemoveNumbers        struct{}
	RemoveSpaces         struct{}
	NewlinesToSpaces     struct{}
	MultipleSpacesToOne  struct{}
	TrimSpaces           struct{}
	NonLettersToSpaces   struct{}
	RemoveNonLetters     struct{}
	JoinSingleLetters    struct{}
)

type RemoveSpecificWords struct {
	Words          []string
	WordBoundaries bool // 只删除完整单词，对应 \b...\b
}

func (ExtractDomainFromURL) Kind() OpKind { return OP_EXTRACT_DOMAIN_FROM_URL }
func (RemoveSpecificWords) Kind() OpKind  { return OP_REMOVE_SPECIFIC_WORDS }
func (ToLowercase) Kind() OpKind          { return OP_TO_LOWERCASE }
func (PunctuationToSpaces) Kind() OpKind  { return OP_PUNCTUATION_TO_SPACES }
func (RemovePunctuation) Kind() OpKind    { return OP_REMOVE_PUNCTUATION }
func (NumbersToSpaces) Kind() OpKind      { return OP_NUMBERS_TO_SPACES }
func (RemoveNumbers) Kind() OpKind        { return OP_REMOVE_NUMBERS }
func (RemoveSpaces) Kind() OpKind         { return OP_REMOVE_SPACES }
func (NewlinesToSpaces) Kind() OpKind     { return OP_NEWLINES_TO_SPACES }
func (MultipleSpacesToOne) Kind() OpKind  { return OP_MULTIPLE_SPACES_TO_SINGLE }
func (TrimSpaces) Kind() OpKind           { return OP_TRIM_SPACES }
func (NonLettersToSpaces) Kind() OpKind   { return OP_NON_LETTERS_TO_SPACES }
func (RemoveNonLetters) Kind() OpKind     { return OP_REMOVE_NON_LETTERS }
func (JoinSingleLetters) Kind() OpKind    { return OP_JOIN_SINGLE_LETTERS }

func (ExtractDomainFromURL) sealed() {}
func (RemoveSpecificWords) sealed()  {}
func (ToLowercase) sealed()          {}
func (PunctuationToSpaces) sealed()  {}
func (RemovePunctuation) sealed()    {}
func (NumbersToSpaces) sealed()      {}
func (RemoveNumbers) sealed()        {}
func (RemoveSpaces) sealed()         {}
func (NewlinesToSpaces) sealed()     {}
func (MultipleSpacesToOne) sealed()  {}
func (TrimSpaces) sealed()           {}
func (NonLettersToSpaces) sealed()   {}
func (RemoveNonLetters) sealed()     {}
func (JoinSingleLetters) sealed()    {}

// ParseOp turns an operation name into an Op. words is only used by
// remove_specific_words.
func ParseOp(name string, words []string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OP_EXTRACT_DOMAIN_FROM_URL.String():
		return ExtractDomainFromURL{}, nil
	case OP_REMOVE_SPECIFIC_WORDS.String():
		return RemoveSpecificWords{Words: words}, nil
	case OP_TO_LOWERCASE.String():
		return ToLowercase{}, nil
	case OP_PUNCTUATION_TO_SPACES.String():
		return PunctuationToSpaces{}, nil
	case OP_REMOVE_PUNCTUATION.String():
		return RemovePunctuation{}, nil
	case OP_NUMBERS_TO_SPACES.String():
		return NumbersToSpaces{}, nil
	case OP_REMOVE_NUMBERS.String():
		return RemoveNumbers{}, nil
	case OP_REMOVE_SPACES.String():
		return RemoveSpaces{}, nil
	case OP_NEWLINES_TO_SPACES.String():
		return NewlinesToSpaces{}, nil
	case OP_MULTIPLE_SPACES_TO_SINGLE.String():
		return MultipleSpacesToOne{}, nil
	case OP_TRIM_SPACES.String():
		return TrimSpaces{}, nil
	case OP_NON_LETTERS_TO_SPACES.String():
		return NonLettersToSpaces{}, nil
	case OP_REMOVE_NON_LETTERS.String():
		return RemoveNonLetters{}, nil
	case OP_JOIN_SINGLE_LETTERS.String():
		return JoinSingleLetters{}, nil
	default:
		return nil, errorx.Newf(errCode.INVALID_VALUE, "unknown cleaning operation %q", name)
	}
}
