package parser

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether pos (line and column) falls inside the span.
func (s Span) Contains(pos Position) bool {
	if pos.Line < s.Start.Line || pos.Line > s.End.Line {
		return false
	}
	if pos.Line == s.Start.Line && pos.Column < s.Start.Column {
		return false
	}
	if pos.Line == s.End.Line && pos.Column >= s.End.Column {
		return false
	}
	return true
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literal classes
	TokenID
	TokenEscapedID
	TokenDecLiteral
	TokenOctLiteral
	TokenHexLiteral
	TokenBasedHexLiteral
	TokenBasedDecLiteral
	TokenBasedBinLiteral
	TokenBasedOctLiteral
	TokenString
	TokenTripleString

	// Keywords
	TokenAbstract
	TokenAction
	TokenActivity
	TokenArray
	TokenAs
	TokenAssert
	TokenAtomic
	TokenBind
	TokenBins
	TokenBit
	TokenBody
	TokenBool
	TokenBreak
	TokenBuffer
	TokenChandle
	TokenClass
	TokenCompile
	TokenComponent
	TokenConst
	TokenConstraint
	TokenContinue
	TokenCovergroup
	TokenCoverpoint
	TokenCross
	TokenDeclaration
	TokenDefault
	TokenDisable
	TokenDo
	TokenDynamic
	TokenElse
	TokenEnum
	TokenExec
	TokenExport
	TokenExtend
	TokenFalse
	TokenFile
	TokenFloat32
	TokenFloat64
	TokenForall
	TokenForeach
	TokenFunction
	TokenHas
	TokenHeader
	TokenIf
	TokenIff
	TokenIgnoreBins
	TokenIllegalBins
	TokenImport
	TokenIn
	TokenInit
	TokenInitDown
	TokenInitUp
	TokenInout
	TokenInput
	TokenInstance
	TokenInt
	TokenJoinBranch
	TokenJoinFirst
	TokenJoinNone
	TokenJoinSelect
	TokenList
	TokenLock
	TokenMap
	TokenMatch
	TokenNull
	TokenOption
	TokenOutput
	TokenOverride
	TokenPackage
	TokenParallel
	TokenPool
	TokenPostSolve
	TokenPreBody
	TokenPreSolve
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenPure
	TokenRand
	TokenRandomize
	TokenRef
	TokenRepeat
	TokenReplicate
	TokenResource
	TokenReturn
	TokenRunEnd
	TokenRunStart
	TokenSchedule
	TokenSelect
	TokenSequence
	TokenSetKw
	TokenShare
	TokenSolve
	TokenState
	TokenStatic
	TokenStream
	TokenStringKw
	TokenStruct
	TokenSuper
	TokenSymbol
	TokenTarget
	TokenTrue
	TokenType
	TokenTypeOption
	TokenTypedef
	TokenUnique
	TokenVoid
	TokenWhile
	TokenWith

	// Punctuation and operators
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenDotDot
	TokenEllipsis
	TokenColon
	TokenColonColon
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenShlAssign
	TokenShrAssign
	TokenOrAssign
	TokenAndAssign
	TokenQuestion
	TokenNot
	TokenTilde
	TokenPlus
	TokenMinus
	TokenStar
	TokenStarStar
	TokenSlash
	TokenPercent
	TokenShl
	TokenShr
	TokenLT
	TokenGT
	TokenLE
	TokenGE
	TokenEQ
	TokenNE
	TokenBitAnd
	TokenBitXor
	TokenBitOr
	TokenAnd
	TokenOr
	TokenArrow

	tokenKindCount
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "ERROR",
	TokenWhitespace:  "WS",
	TokenComment:     "COMMENT",
	TokenLineComment: "LINE_COMMENT",

	TokenID:              "ID",
	TokenEscapedID:       "ESCAPED_ID",
	TokenDecLiteral:      "DEC_LITERAL",
	TokenOctLiteral:      "OCT_LITERAL",
	TokenHexLiteral:      "HEX_LITERAL",
	TokenBasedHexLiteral: "BASED_HEX_LITERAL",
	TokenBasedDecLiteral: "BASED_DEC_LITERAL",
	TokenBasedBinLiteral: "BASED_BIN_LITERAL",
	TokenBasedOctLiteral: "BASED_OCT_LITERAL",
	TokenString:          "DOUBLE_QUOTED_STRING",
	TokenTripleString:    "TRIPLE_DOUBLE_QUOTED_STRING",

	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenDotDot:      "..",
	TokenEllipsis:    "...",
	TokenColon:       ":",
	TokenColonColon:  "::",
	TokenAssign:      "=",
	TokenPlusAssign:  "+=",
	TokenMinusAssign: "-=",
	TokenShlAssign:   "<<=",
	TokenShrAssign:   ">>=",
	TokenOrAssign:    "|=",
	TokenAndAssign:   "&=",
	TokenQuestion:    "?",
	TokenNot:         "!",
	TokenTilde:       "~",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenStarStar:    "**",
	TokenSlash:       "/",
	TokenPercent:     "%",
	TokenShl:         "<<",
	TokenShr:         ">>",
	TokenLT:          "<",
	TokenGT:          ">",
	TokenLE:          "<=",
	TokenGE:          ">=",
	TokenEQ:          "==",
	TokenNE:          "!=",
	TokenBitAnd:      "&",
	TokenBitXor:      "^",
	TokenBitOr:       "|",
	TokenAnd:         "&&",
	TokenOr:          "||",
	TokenArrow:       "->",
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"action":       TokenAction,
	"activity":     TokenActivity,
	"array":        TokenArray,
	"as":           TokenAs,
	"assert":       TokenAssert,
	"atomic":       TokenAtomic,
	"bind":         TokenBind,
	"bins":         TokenBins,
	"bit":          TokenBit,
	"body":         TokenBody,
	"bool":         TokenBool,
	"break":        TokenBreak,
	"buffer":       TokenBuffer,
	"chandle":      TokenChandle,
	"class":        TokenClass,
	"compile":      TokenCompile,
	"component":    TokenComponent,
	"const":        TokenConst,
	"constraint":   TokenConstraint,
	"continue":     TokenContinue,
	"covergroup":   TokenCovergroup,
	"coverpoint":   TokenCoverpoint,
	"cross":        TokenCross,
	"declaration":  TokenDeclaration,
	"default":      TokenDefault,
	"disable":      TokenDisable,
	"do":           TokenDo,
	"dynamic":      TokenDynamic,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"exec":         TokenExec,
	"export":       TokenExport,
	"extend":       TokenExtend,
	"false":        TokenFalse,
	"file":         TokenFile,
	"float32":      TokenFloat32,
	"float64":      TokenFloat64,
	"forall":       TokenForall,
	"foreach":      TokenForeach,
	"function":     TokenFunction,
	"has":          TokenHas,
	"header":       TokenHeader,
	"if":           TokenIf,
	"iff":          TokenIff,
	"ignore_bins":  TokenIgnoreBins,
	"illegal_bins": TokenIllegalBins,
	"import":       TokenImport,
	"in":           TokenIn,
	"init":         TokenInit,
	"init_down":    TokenInitDown,
	"init_up":      TokenInitUp,
	"inout":        TokenInout,
	"input":        TokenInput,
	"instance":     TokenInstance,
	"int":          TokenInt,
	"join_branch":  TokenJoinBranch,
	"join_first":   TokenJoinFirst,
	"join_none":    TokenJoinNone,
	"join_select":  TokenJoinSelect,
	"list":         TokenList,
	"lock":         TokenLock,
	"map":          TokenMap,
	"match":        TokenMatch,
	"null":         TokenNull,
	"option":       TokenOption,
	"output":       TokenOutput,
	"override":     TokenOverride,
	"package":      TokenPackage,
	"parallel":     TokenParallel,
	"pool":         TokenPool,
	"post_solve":   TokenPostSolve,
	"pre_body":     TokenPreBody,
	"pre_solve":    TokenPreSolve,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"pure":         TokenPure,
	"rand":         TokenRand,
	"randomize":    TokenRandomize,
	"ref":          TokenRef,
	"repeat":       TokenRepeat,
	"replicate":    TokenReplicate,
	"resource":     TokenResource,
	"return":       TokenReturn,
	"run_end":      TokenRunEnd,
	"run_start":    TokenRunStart,
	"schedule":     TokenSchedule,
	"select":       TokenSelect,
	"sequence":     TokenSequence,
	"set":          TokenSetKw,
	"share":        TokenShare,
	"solve":        TokenSolve,
	"state":        TokenState,
	"static":       TokenStatic,
	"stream":       TokenStream,
	"string":       TokenStringKw,
	"struct":       TokenStruct,
	"super":        TokenSuper,
	"symbol":       TokenSymbol,
	"target":       TokenTarget,
	"true":         TokenTrue,
	"type":         TokenType,
	"type_option":  TokenTypeOption,
	"typedef":      TokenTypedef,
	"unique":       TokenUnique,
	"void":         TokenVoid,
	"while":        TokenWhile,
	"with":         TokenWith,
}

func init() {
	for text, kind := range keywords {
		tokenKindNames[kind] = text
	}
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenWith
}

// LookupKeyword returns the keyword kind for ident, or TokenID.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenID
}

// LookupTokenKind maps the text used in the grammar rule table back to a kind.
// Keywords and operators are spelled literally, literal classes by name.
func LookupTokenKind(text string) (TokenKind, bool) {
	for kind, name := range tokenKindNames {
		if name == text && kind > TokenLineComment {
			return kind, true
		}
	}
	return TokenEOF, text == "EOF"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// TokenSet is a bit set of token kinds.
type TokenSet [(int(tokenKindCount) + 63) / 64]uint64

func NewTokenSet(kinds ...TokenKind) TokenSet {
	var s TokenSet
	for _, k := range kinds {
		s.Add(k)
	}
	return s
}

func (s *TokenSet) Add(k TokenKind) {
	s[k/64] |= 1 << (uint(k) % 64)
}

// Union adds every member of o and reports whether s changed.
func (s *TokenSet) Union(o TokenSet) bool {
	changed := false
	for i := range s {
		merged := s[i] | o[i]
		if merged != s[i] {
			s[i] = merged
			changed = true
		}
	}
	return changed
}

func (s TokenSet) Has(k TokenKind) bool {
	if k < 0 || k >= tokenKindCount {
		return false
	}
	return s[k/64]&(1<<(uint(k)%64)) != 0
}

// Contains reports whether every member of o is in s.
func (s TokenSet) Contains(o TokenSet) bool {
	for i := range s {
		if o[i]&^s[i] != 0 {
			return false
		}
	}
	return true
}

func (s TokenSet) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s TokenSet) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Kinds returns the members in ascending kind order.
func (s TokenSet) Kinds() []TokenKind {
	var kinds []TokenKind
	for k := TokenKind(0); k < tokenKindCount; k++ {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s TokenSet) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return "{" + strings.Join(names, " ") + "}"
}
