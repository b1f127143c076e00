package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pss.parser")

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

// WithMaxErrors stops the parse once n errors have been reported.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// RuleHook is called on entry to every rule with the position of the
// lookahead token. A non-nil error cancels the parse.
type RuleHook func(kind NodeKind, pos Position) error

func WithRuleHook(hook RuleHook) Option {
	return func(p *Parser) {
		p.hooks = append(p.hooks, hook)
	}
}

// WithContext cancels the parse when ctx is done.
func WithContext(ctx context.Context) Option {
	return WithRuleHook(func(NodeKind, Position) error {
		return ctx.Err()
	})
}

// WithoutMemo disables memoization of speculative parses.
func WithoutMemo() Option {
	return func(p *Parser) {
		p.noMemo = true
	}
}

// TokenSource yields tokens until it returns one of kind TokenEOF.
type TokenSource interface {
	Next() Token
}

type parseFunc func(*Parser) *Node

var entryPoints = map[NodeKind]parseFunc{
	KindCompilationUnit:       (*Parser).parseCompilationUnit,
	KindPackageDeclaration:    (*Parser).parsePackageDeclaration,
	KindPackageBodyItem:       (*Parser).parsePackageBodyItem,
	KindComponentDeclaration:  (*Parser).parseComponentDeclaration,
	KindComponentBodyItem:     (*Parser).parseComponentBodyItem,
	KindActionDeclaration:     (*Parser).parseActionDeclaration,
	KindActionBodyItem:        (*Parser).parseActionBodyItem,
	KindStructDeclaration:     (*Parser).parseStructDeclaration,
	KindStructBodyItem:        (*Parser).parseStructBodyItem,
	KindEnumDeclaration:       (*Parser).parseEnumDeclaration,
	KindDataDeclaration:       (*Parser).parseDataDeclaration,
	KindDataType:              (*Parser).parseDataType,
	KindTypeIdentifier:        (*Parser).parseTypeIdentifier,
	KindHierarchicalId:        (*Parser).parseHierarchicalId,
	KindActivityStmt:          (*Parser).parseActivityStmt,
	KindConstraintDeclaration: (*Parser).parseConstraintDeclaration,
	KindConstraintSet:         (*Parser).parseConstraintSet,
	KindConstraintBodyItem:    (*Parser).parseConstraintBodyItem,
	KindCovergroupDeclaration: (*Parser).parseCovergroupDeclaration,
	KindProceduralStmt:        (*Parser).parseProceduralStmt,
	KindFunctionPrototype:     (*Parser).parseFunctionPrototype,
	KindConditionalExpression: (*Parser).parseExpression,
}

// EntryKinds returns the rules ParseRule accepts as a start rule.
// KindConditionalExpression selects a full expression.
func EntryKinds() []NodeKind {
	kinds := make([]NodeKind, 0, len(entryPoints))
	for k := NodeKind(0); k < nodeKindCount; k++ {
		if _, ok := entryPoints[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

type memoKey struct {
	kind     NodeKind
	alt      int
	pos      int
	limit    int
	template bool
}

type memoEntry struct {
	ok   bool
	node *Node
	end  int
	fail failure
}

// failure is the farthest point a speculative parse reached before failing.
type failure struct {
	pos      int
	expected TokenSet
}

// bailout unwinds a speculative parse back to its choice point.
type bailout struct{}

type Parser struct {
	file             string
	includeComments  bool
	includePositions bool
	reader           io.Reader
	source           TokenSource
	input            []byte
	tokens           []Token
	comments         []Token
	pos              int
	entry            parseFunc
	grammar          *Grammar

	maxErrors  int
	hooks      []RuleHook
	noMemo     bool
	errors     []*SyntaxError
	recovering bool
	halted     bool
	stack      []NodeKind
	spec       int
	farthest   failure
	memo       map[memoKey]*memoEntry
	limit      int
	// template is set while parsing a template argument, where '>' closes
	// the list instead of being an operator.
	template bool

	done   bool
	result *Node
}

func newParser(entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		entry:   entry,
		grammar: Rules(),
		limit:   -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := newParser((*Parser).parseCompilationUnit, opts)
	p.reader = r
	return p
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := newParser((*Parser).parseExpression, opts)
	p.reader = r
	return p
}

// ParseRule parses r starting at rule kind, which must be one of EntryKinds.
func ParseRule(kind NodeKind, r io.Reader, opts ...Option) (*Parser, error) {
	entry, ok := entryPoints[kind]
	if !ok {
		return nil, fmt.Errorf("%s is not an entry rule", kind)
	}
	p := newParser(entry, opts)
	p.reader = r
	return p, nil
}

// FromTokens parses a token stream produced elsewhere. Trivia tokens are
// filtered as they would be for source text.
func FromTokens(src TokenSource, kind NodeKind, opts ...Option) (*Parser, error) {
	entry, ok := entryPoints[kind]
	if !ok {
		return nil, fmt.Errorf("%s is not an entry rule", kind)
	}
	p := newParser(entry, opts)
	p.source = src
	return p, nil
}

// Parse parses src as a compilation unit.
func Parse(src []byte, opts ...Option) (*Node, []*SyntaxError) {
	p := ParseCompilationUnit(bytes.NewReader(src), opts...)
	node := p.Finish()
	return node, p.Errors()
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Tokens returns the significant tokens seen by the parser, ending with EOF.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

// Errors returns the syntax errors in report order.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

// Err returns the errors as an ErrorList, or nil.
func (p *Parser) Err() error {
	return ErrorList(p.errors).Err()
}

func (p *Parser) readAll() error {
	if p.input != nil || p.reader == nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish runs the parse and returns the tree. The tree is always returned,
// with error nodes where input was malformed; later calls return the same
// tree.
func (p *Parser) Finish() *Node {
	if p.done {
		return p.result
	}
	p.done = true
	if err := p.readAll(); err != nil {
		p.errors = append(p.errors, &SyntaxError{
			Code:    UnexpectedEOF,
			Pos:     Position{File: p.file, Line: 1, Column: 1},
			Message: fmt.Sprintf("reading input: %v", err),
			cause:   err,
		})
		p.result = &Node{Kind: KindCompilationUnit}
		return p.result
	}
	p.tokenize()
	if !p.noMemo {
		p.memo = make(map[memoKey]*memoEntry)
	}
	p.result = p.entry(p)
	if p.result == nil {
		p.result = &Node{Kind: KindCompilationUnit}
	}
	p.checkTrailing(p.result)
	p.memo = nil
	if len(p.errors) > 0 {
		log.Debugf("%s: %d syntax errors", p.fileName(), len(p.errors))
	}
	return p.result
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.source = nil
	p.input = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.errors = nil
	p.recovering = false
	p.halted = false
	p.stack = nil
	p.spec = 0
	p.memo = nil
	p.limit = -1
	p.template = false
	p.done = false
	p.result = nil
}

func (p *Parser) fileName() string {
	if p.file == "" {
		return "<input>"
	}
	return p.file
}

func (p *Parser) tokenize() {
	var src TokenSource = p.source
	if src == nil {
		src = NewLexer(p.input, p.file)
	}
	for {
		tok := src.Next()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

// checkTrailing reports input left over after the entry rule.
func (p *Parser) checkTrailing(node *Node) {
	if p.halted || p.check(TokenEOF) {
		return
	}
	tok := p.peek()
	err := &SyntaxError{
		Code:     TokenMismatch,
		Pos:      tok.Span.Start,
		Expected: []TokenKind{TokenEOF},
		Found:    tok,
		Message:  fmt.Sprintf("unexpected %s after %s", tok, node.Kind),
	}
	if tok.Kind == TokenError {
		err.Code = LexicalError
		err.Message = fmt.Sprintf("invalid token %s", tok)
	}
	p.report(err)
	errNode := &Node{Kind: KindError, Error: err}
	for !p.check(TokenEOF) {
		errNode.AddChild(p.leaf())
	}
	node.AddChild(spanFromChildren(errNode, tok.Span.Start))
	node.Span.End = errNode.Span.End
}

// Token access

func (p *Parser) end() int {
	if p.limit >= 0 {
		return p.limit
	}
	return len(p.tokens) - 1
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

// peekN returns the token n ahead. Past the end, at a parse limit, or once
// the parse has halted it returns an EOF token.
func (p *Parser) peekN(n int) Token {
	i := p.pos + n
	if p.halted || i >= p.end() {
		return p.eofAt(i)
	}
	return p.tokens[i]
}

func (p *Parser) eofAt(i int) Token {
	if len(p.tokens) == 0 {
		return Token{Kind: TokenEOF, Span: Span{Start: Position{File: p.file, Line: 1, Column: 1}, End: Position{File: p.file, Line: 1, Column: 1}}}
	}
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	start := p.tokens[i].Span.Start
	return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
}

// atEOF reports whether the real end of input has been reached.
func (p *Parser) atEOF() bool {
	return p.halted || p.pos >= len(p.tokens)-1
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func isIdentKind(k TokenKind) bool {
	return k == TokenID || k == TokenEscapedID
}

func (p *Parser) isIdentifier() bool {
	return isIdentKind(p.peek().Kind)
}

// adjacent reports whether b starts exactly where a ends.
func adjacent(a, b Token) bool {
	return a.Span.End.Offset == b.Span.Start.Offset
}

// leaf consumes the lookahead as a terminal node.
func (p *Parser) leaf() *Node {
	tok := p.advance()
	p.recovering = false
	return &Node{Kind: KindTerminal, Span: tok.Span, Token: &tok}
}

// expect consumes a token of kind into node, or records a mismatch and
// resynchronizes. A single stray token in front of the expected one is
// deleted. After resynchronizing it consumes the token if it is now the
// lookahead.
func (p *Parser) expect(node *Node, kind TokenKind) bool {
	if p.check(kind) {
		node.AddChild(p.leaf())
		return true
	}
	if p.spec == 0 && !p.halted && !p.match(TokenRBrace, TokenEOF) && p.peekN(1).Kind == kind {
		node.AddChild(p.extraToken(NewTokenSet(kind)))
		node.AddChild(p.leaf())
		return true
	}
	node.AddChild(p.errorNode(TokenMismatch, NewTokenSet(kind), ""))
	if p.check(kind) {
		node.AddChild(p.leaf())
		return true
	}
	return false
}

func (p *Parser) expectLabeled(node *Node, label string, kind TokenKind) bool {
	if p.check(kind) {
		node.AddLabeled(label, p.leaf())
		return true
	}
	return p.expect(node, kind)
}

// optional consumes a token of kind into node if it is the lookahead.
func (p *Parser) optional(node *Node, kind TokenKind) bool {
	if p.check(kind) {
		node.AddChild(p.leaf())
		return true
	}
	return false
}

// Nodes and the rule stack

func (p *Parser) startNode(kind NodeKind) *Node {
	p.enter(kind)
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start, End: p.peek().Span.Start},
	}
}

// wrapNode starts a node of kind whose first child is first.
func (p *Parser) wrapNode(kind NodeKind, label string, first *Node) *Node {
	p.enter(kind)
	node := &Node{Kind: kind, Span: first.Span}
	if label == "" {
		node.AddChild(first)
	} else {
		node.AddLabeled(label, first)
	}
	return node
}

func (p *Parser) finishNode(n *Node) *Node {
	p.exit()
	return spanFromChildren(n, n.Span.Start)
}

// retag changes the kind of the node currently being built.
func (p *Parser) retag(n *Node, kind NodeKind) {
	n.Kind = kind
	if len(p.stack) > 0 {
		p.stack[len(p.stack)-1] = kind
	}
}

// spanFromChildren sets n's span to cover its children, or to an empty span
// at pos when it has none.
func spanFromChildren(n *Node, pos Position) *Node {
	if len(n.Children) == 0 {
		n.Span = Span{Start: pos, End: pos}
		return n
	}
	n.Span = Span{Start: n.Children[0].Span.Start, End: n.Children[len(n.Children)-1].Span.End}
	return n
}

func (p *Parser) enter(kind NodeKind) {
	p.stack = append(p.stack, kind)
	if len(p.hooks) == 0 || p.halted {
		return
	}
	pos := p.peek().Span.Start
	for _, hook := range p.hooks {
		if err := hook(kind, pos); err != nil {
			p.cancel(kind, pos, err)
			return
		}
	}
}

func (p *Parser) exit() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *Parser) currentRule() NodeKind {
	if len(p.stack) == 0 {
		return KindCompilationUnit
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) cancel(kind NodeKind, pos Position, err error) {
	p.errors = append(p.errors, &SyntaxError{
		Code:    Cancelled,
		Pos:     pos,
		Rule:    kind,
		Found:   p.peek(),
		Message: fmt.Sprintf("parse cancelled in %s: %v", kind, err),
		cause:   err,
	})
	p.halt("cancelled")
}

func (p *Parser) halt(reason string) {
	if !p.halted {
		log.Debugf("%s: parse halted: %s", p.fileName(), reason)
	}
	p.halted = true
}

// Errors and recovery

// report records err unless errors are being suppressed. Errors are
// suppressed after a report until the next token is matched.
func (p *Parser) report(err *SyntaxError) {
	if p.halted || p.recovering {
		return
	}
	p.recovering = true
	p.errors = append(p.errors, err)
	if err.Code == UnexpectedEOF {
		p.halt("unexpected end of input")
		return
	}
	if p.maxErrors > 0 && len(p.errors) >= p.maxErrors {
		p.errors = append(p.errors, &SyntaxError{
			Code:    TooManyErrors,
			Pos:     err.Pos,
			Rule:    err.Rule,
			Found:   err.Found,
			Message: fmt.Sprintf("too many errors (limit %d)", p.maxErrors),
		})
		p.halt("too many errors")
	}
}

// errorNode reports a syntax error at the lookahead and resynchronizes.
// While speculating it abandons the current alternative instead.
func (p *Parser) errorNode(code ErrorCode, expected TokenSet, msg string) *Node {
	rule := p.currentRule()
	if expected.Empty() {
		expected = p.grammar.First(rule)
	}
	if p.spec > 0 {
		p.bail(expected)
	}
	tok := p.peek()
	switch {
	case tok.Kind == TokenEOF && p.atEOF():
		code = UnexpectedEOF
	case tok.Kind == TokenError:
		code = LexicalError
	}
	if msg == "" {
		msg = p.expectedMessage(expected, rule, tok)
	}
	err := &SyntaxError{
		Code:     code,
		Pos:      tok.Span.Start,
		Rule:     rule,
		Expected: expected.Kinds(),
		Found:    tok,
		Message:  msg,
	}
	node := &Node{Kind: KindError, Error: err}
	p.report(err)
	p.resync(node)
	return spanFromChildren(node, tok.Span.Start)
}

func (p *Parser) expectedMessage(expected TokenSet, rule NodeKind, found Token) string {
	if found.Kind == TokenError {
		return fmt.Sprintf("invalid token %s", found)
	}
	if desc := describeExpected(expected); desc != "" {
		return fmt.Sprintf("expected %s, found %s", desc, found)
	}
	if expr := p.grammar.RuleByName("expression"); expr != nil && expected.Contains(expr.First()) {
		return fmt.Sprintf("expected an expression, found %s", found)
	}
	return fmt.Sprintf("unexpected %s in %s", found, rule)
}

// noViableAlt reports that no alternative of kind matches the lookahead.
func (p *Parser) noViableAlt(kind NodeKind) *Node {
	return p.errorNode(PredictionFailure, p.grammar.First(kind), "")
}

// resync skips tokens into node until one that may follow the active rule,
// a ';' or a '}'. Reaching the end of input this way stops the parse.
func (p *Parser) resync(node *Node) {
	if p.halted {
		return
	}
	set := p.grammar.Follow(p.currentRule())
	set.Add(TokenSemicolon)
	set.Add(TokenRBrace)
	skipped := 0
	for !p.check(TokenEOF) && !set.Has(p.peek().Kind) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindTerminal, Span: tok.Span, Token: &tok})
		skipped++
	}
	if skipped > 0 && p.atEOF() && p.limit < 0 {
		p.halt("end of input while resynchronizing")
	}
}

// extraToken reports the lookahead as unwanted and wraps it in an error
// node. The caller has checked that the token after it is the expected one.
func (p *Parser) extraToken(expected TokenSet) *Node {
	tok := p.peek()
	err := &SyntaxError{
		Code:     TokenMismatch,
		Pos:      tok.Span.Start,
		Rule:     p.currentRule(),
		Expected: expected.Kinds(),
		Found:    tok,
		Message:  p.expectedMessage(expected, p.currentRule(), tok),
	}
	if tok.Kind == TokenError {
		err.Code = LexicalError
	}
	p.report(err)
	p.advance()
	return &Node{Kind: KindError, Span: tok.Span, Error: err, Children: []*Node{{Kind: KindTerminal, Span: tok.Span, Token: &tok}}}
}

// skipNode wraps the lookahead token in an error node.
func (p *Parser) skipNode() *Node {
	tok := p.peek()
	err := &SyntaxError{
		Code:     PredictionFailure,
		Pos:      tok.Span.Start,
		Rule:     p.currentRule(),
		Expected: p.grammar.First(p.currentRule()).Kinds(),
		Found:    tok,
		Message:  fmt.Sprintf("unexpected %s", tok),
	}
	if tok.Kind == TokenError {
		err.Code = LexicalError
		err.Message = fmt.Sprintf("invalid token %s", tok)
	}
	p.report(err)
	p.advance()
	return &Node{Kind: KindError, Span: tok.Span, Error: err, Children: []*Node{{Kind: KindTerminal, Span: tok.Span, Token: &tok}}}
}

// mustProgress returns a function to call at the end of a loop iteration.
// If the iteration consumed nothing, the stuck token is wrapped in an error
// node so the loop always advances.
func (p *Parser) mustProgress(node *Node) func() {
	saved := p.pos
	return func() {
		if p.pos == saved && !p.check(TokenEOF) {
			if p.spec > 0 {
				p.bail(TokenSet{})
			}
			node.AddChild(p.skipNode())
		}
	}
}

// parseItems parses item until closer or end of input.
func (p *Parser) parseItems(node *Node, closer TokenKind, item func() *Node) {
	for !p.check(closer) && !p.check(TokenEOF) {
		progress := p.mustProgress(node)
		node.AddChild(item())
		progress()
	}
}

// parseBody parses '{' items '}' into node.
func (p *Parser) parseBody(node *Node, item func() *Node) {
	p.expect(node, TokenLBrace)
	p.parseItems(node, TokenRBrace, item)
	p.expect(node, TokenRBrace)
}

// findClose returns the index of the token closing the group opened just
// before from, or -1.
func (p *Parser) findClose(from int, open, close TokenKind) int {
	depth := 0
	for i := from; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case open:
			depth++
		case close:
			if depth == 0 {
				return i
			}
			depth--
		case TokenEOF:
			return -1
		}
	}
	return -1
}

// withLimit runs fn with the token stream cut off at index end.
func (p *Parser) withLimit(end int, fn func() *Node) *Node {
	saved := p.limit
	if saved < 0 || end < saved {
		p.limit = end
	}
	defer func() { p.limit = saved }()
	return fn()
}

// Speculation

type state struct {
	pos        int
	recovering bool
	stack      int
}

func (p *Parser) save() state {
	return state{pos: p.pos, recovering: p.recovering, stack: len(p.stack)}
}

func (p *Parser) restore(s state) {
	p.pos = s.pos
	p.recovering = s.recovering
	p.stack = p.stack[:s.stack]
}

func (p *Parser) bail(expected TokenSet) {
	p.noteFailure(failure{pos: p.pos, expected: expected})
	panic(bailout{})
}

func (p *Parser) noteFailure(f failure) {
	switch {
	case f.pos > p.farthest.pos:
		p.farthest = f
	case f.pos == p.farthest.pos:
		p.farthest.expected.Union(f.expected)
	}
}

// try runs fn speculatively. On failure the parser state is restored and
// ok is false.
func (p *Parser) try(fn func() *Node) (n *Node, ok bool) {
	saved := p.save()
	p.spec++
	defer func() {
		p.spec--
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.restore(saved)
			n, ok = nil, false
		}
	}()
	return fn(), true
}

// attempt runs fn speculatively and returns the farthest failure it reached.
func (p *Parser) attempt(fn func() *Node) (*Node, bool, failure) {
	outer := p.farthest
	p.farthest = failure{pos: -1}
	n, ok := p.try(fn)
	got := p.farthest
	p.farthest = outer
	if !ok {
		p.noteFailure(got)
	}
	return n, ok, got
}

// predicate reports whether fn parses at the lookahead, and where it ends.
// The position is always restored.
func (p *Parser) predicate(fn func()) (int, bool) {
	saved := p.save()
	_, ok, _ := p.attempt(func() *Node {
		fn()
		return nil
	})
	end := p.pos
	p.restore(saved)
	return end, ok
}

type alternative struct {
	index int
	parse func() *Node
}

func alt(index int, parse func() *Node) alternative {
	return alternative{index: index, parse: parse}
}

// choose parses the first alternative of kind that succeeds, in order.
// Alternatives whose FIRST set excludes the lookahead are not tried. When
// all fail, the one that got farthest is re-run to report the error there.
func (p *Parser) choose(kind NodeKind, alts ...alternative) *Node {
	tok := p.peek().Kind
	candidates := alts[:0:0]
	for _, a := range alts {
		if p.grammar.Predicts(kind, a.index, tok) {
			candidates = append(candidates, a)
		}
	}
	switch len(candidates) {
	case 0:
		return p.noViableAlt(kind)
	case 1:
		return candidates[0].parse()
	}

	best, bestPos := 0, -1
	for i, c := range candidates {
		n, ok, fail := p.attemptMemo(kind, c)
		if ok {
			return n
		}
		if fail.pos > bestPos {
			best, bestPos = i, fail.pos
		}
	}
	if p.spec > 0 {
		panic(bailout{})
	}
	log.Debugf("%s: no alternative of %s matched at %s", p.fileName(), kind, p.peek().Span.Start)
	return candidates[best].parse()
}

func (p *Parser) attemptMemo(kind NodeKind, c alternative) (*Node, bool, failure) {
	key := memoKey{kind: kind, alt: c.index, pos: p.pos, limit: p.limit, template: p.template}
	if p.memo != nil {
		if e, ok := p.memo[key]; ok {
			if e.ok {
				p.pos = e.end
				return e.node.Clone(), true, failure{}
			}
			p.noteFailure(e.fail)
			return nil, false, e.fail
		}
	}
	n, ok, fail := p.attempt(c.parse)
	if p.memo != nil && !ok {
		p.memo[key] = &memoEntry{fail: fail}
	}
	return n, ok, fail
}

// memoized caches successful and failed speculative parses of kind at the
// current position.
func (p *Parser) memoized(kind NodeKind, fn func() *Node) *Node {
	if p.memo == nil || p.spec == 0 {
		return fn()
	}
	key := memoKey{kind: kind, alt: -1, pos: p.pos, limit: p.limit, template: p.template}
	if e, ok := p.memo[key]; ok {
		if !e.ok {
			p.noteFailure(e.fail)
			panic(bailout{})
		}
		p.pos = e.end
		return e.node.Clone()
	}
	n, ok, fail := p.attempt(fn)
	if !ok {
		p.memo[key] = &memoEntry{fail: fail}
		panic(bailout{})
	}
	p.memo[key] = &memoEntry{ok: true, node: n.Clone(), end: p.pos}
	return n
}
