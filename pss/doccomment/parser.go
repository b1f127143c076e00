package doccomment

import (
	"strings"
	"unicode"
)

type commentParser struct {
	input []rune
	pos   int
}

// Parse parses the text of a /** ... */ comment. Leading asterisks on
// continuation lines are stripped.
func Parse(text string) *Comment {
	p := &commentParser{input: []rune(text)}
	p.skipCommentStart()
	c := &Comment{}
	c.Body = p.parseContent(false)
	c.Tags = p.parseTags()
	return c
}

// IsDoc reports whether the comment text opens with /** and is not the
// empty block comment /**/.
func IsDoc(text string) bool {
	return strings.HasPrefix(text, "/**") && text != "/**/"
}

func (p *commentParser) skipCommentStart() {
	p.skipWhitespace()
	if p.match("/**") {
		p.pos += 3
	}
	p.skipLinePrefix()
}

func (p *commentParser) skipLinePrefix() {
	p.skipHorizontalWhitespace()
	if p.peek() == '*' && p.peekAt(1) != '/' {
		p.pos++
		if p.peek() == ' ' {
			p.pos++
		}
	}
}

// parseContent reads text and inline tags up to the end of the comment,
// the next block tag or, inside an inline tag, its closing brace.
func (p *commentParser) parseContent(inline bool) []Node {
	var nodes []Node
	var buf strings.Builder
	depth := 0

	flush := func() {
		if buf.Len() > 0 {
			nodes = append(nodes, Text{Content: buf.String()})
			buf.Reset()
		}
	}

	for p.pos < len(p.input) {
		ch := p.peek()
		if ch == '*' && p.peekAt(1) == '/' {
			break
		}
		if !inline && p.atBlockTag() {
			break
		}
		switch ch {
		case '\n':
			buf.WriteRune(ch)
			p.pos++
			p.skipLinePrefix()
		case '{':
			if p.peekAt(1) == '@' {
				flush()
				if n := p.parseInlineTag(); n != nil {
					nodes = append(nodes, n)
				}
				continue
			}
			if inline {
				depth++
			}
			buf.WriteRune(ch)
			p.pos++
		case '}':
			if inline {
				if depth == 0 {
					flush()
					return nodes
				}
				depth--
			}
			buf.WriteRune(ch)
			p.pos++
		default:
			buf.WriteRune(ch)
			p.pos++
		}
	}
	flush()
	return nodes
}

// atBlockTag reports whether an @ starts the current line's content.
func (p *commentParser) atBlockTag() bool {
	if p.peek() != '@' {
		return false
	}
	for i := p.pos - 1; i >= 0; i-- {
		switch p.input[i] {
		case ' ', '\t', '*':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (p *commentParser) parseInlineTag() Node {
	p.pos += 2 // {@
	name := p.readWord()
	p.skipHorizontalWhitespace()
	switch name {
	case "code":
		return Code{Content: p.readBalanced()}
	case "link":
		body := strings.TrimSpace(p.readBalanced())
		ref, label, _ := strings.Cut(body, " ")
		return Link{Ref: ref, Label: strings.TrimSpace(label)}
	default:
		content := p.parseContent(true)
		if p.peek() == '}' {
			p.pos++
		}
		return Text{Content: plainText(content)}
	}
}

// readBalanced reads up to the brace closing the current inline tag.
func (p *commentParser) readBalanced() string {
	var sb strings.Builder
	depth := 0
	for p.pos < len(p.input) {
		ch := p.peek()
		if ch == '*' && p.peekAt(1) == '/' {
			break
		}
		if ch == '}' {
			if depth == 0 {
				p.pos++
				break
			}
			depth--
		}
		if ch == '{' {
			depth++
		}
		sb.WriteRune(ch)
		p.pos++
	}
	return sb.String()
}

func (p *commentParser) parseTags() []Tag {
	var tags []Tag
	for p.pos < len(p.input) {
		p.skipWhitespace()
		p.skipLinePrefix()
		if p.match("*/") || p.pos >= len(p.input) {
			break
		}
		if p.peek() != '@' {
			p.pos++
			continue
		}
		p.pos++
		kind := p.readWord()
		if kind == "" {
			continue
		}
		p.skipHorizontalWhitespace()
		tag := Tag{Kind: kind}
		if kind == "param" {
			tag.Name = p.readWord()
			p.skipHorizontalWhitespace()
		}
		tag.Description = p.parseContent(false)
		tags = append(tags, tag)
	}
	return tags
}

func (p *commentParser) peek() rune {
	return p.peekAt(0)
}

func (p *commentParser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.input) {
		return 0
	}
	return p.input[p.pos+offset]
}

func (p *commentParser) match(s string) bool {
	for i, r := range []rune(s) {
		if p.peekAt(i) != r {
			return false
		}
	}
	return true
}

func (p *commentParser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *commentParser) skipHorizontalWhitespace() {
	for p.peek() == ' ' || p.peek() == '\t' {
		p.pos++
	}
}

func (p *commentParser) readWord() string {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		p.pos++
	}
	return string(p.input[start:p.pos])
}
