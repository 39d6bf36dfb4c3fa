package lit

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken int = iota + 1
	nullToken
	boolToken
	numberToken
	minusToken
	singleQuotedToken
	doubleQuotedToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())

var nullMatcher = parsly.NewToken(nullToken, "Null", matcher.NewFragmentsFold([]byte("null")))
var boolMatcher = parsly.NewToken(boolToken, "Boolean", matcher.NewFragmentsFold([]byte("true"), []byte("false")))

var numberMatcher = parsly.NewToken(numberToken, "Number", matcher.NewNumber())
var minusMatcher = parsly.NewToken(minusToken, "Minus", matcher.NewByte('-'))

var singleQuotedMatcher = parsly.NewToken(singleQuotedToken, "String", matcher.NewBlock('\'', '\'', '\\'))
var doubleQuotedMatcher = parsly.NewToken(doubleQuotedToken, "String", matcher.NewBlock('"', '"', '\\'))
