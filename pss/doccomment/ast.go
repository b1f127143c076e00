// Package doccomment parses the /** ... */ comments written in front of
// PSS declarations and renders them as Markdown.
package doccomment

// Node is implemented by the inline content of a comment.
type Node interface {
	node()
}

// Comment is a parsed documentation comment.
type Comment struct {
	Body []Node
	Tags []Tag
}

// Text is plain description text.
type Text struct {
	Content string
}

func (Text) node() {}

// Code is an {@code ...} inline tag.
type Code struct {
	Content string
}

func (Code) node() {}

// Link is an {@link ref label} inline tag. Ref is a PSS type path such
// as pkg::comp::act.
type Link struct {
	Ref   string
	Label string
}

func (Link) node() {}

// Tag is a block tag such as @param or @deprecated. Name is set for tags
// that take a parameter name (@param).
type Tag struct {
	Kind        string
	Name        string
	Description []Node
}

// Param returns the description of the named @param tag, or nil.
func (c *Comment) Param(name string) []Node {
	if c == nil {
		return nil
	}
	for _, t := range c.Tags {
		if t.Kind == "param" && t.Name == name {
			return t.Description
		}
	}
	return nil
}

// Deprecated reports whether the comment carries a @deprecated tag.
func (c *Comment) Deprecated() bool {
	if c == nil {
		return false
	}
	for _, t := range c.Tags {
		if t.Kind == "deprecated" {
			return true
		}
	}
	return false
}
