package doccomment

import (
	"strings"
)

// Markdown renders the comment for display in an editor: the description
// followed by one line per block tag.
func Markdown(c *Comment) string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(normalize(markdownNodes(c.Body)))
	for _, t := range c.Tags {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		desc := normalize(markdownNodes(t.Description))
		switch t.Kind {
		case "param":
			sb.WriteString("*@param* `" + t.Name + "`")
		case "deprecated":
			sb.WriteString("**Deprecated.**")
		default:
			sb.WriteString("*@" + t.Kind + "*")
		}
		if desc != "" {
			sb.WriteString(" " + desc)
		}
	}
	return strings.TrimSpace(sb.String())
}

// PlainText returns the description without markup or block tags.
func PlainText(c *Comment) string {
	if c == nil {
		return ""
	}
	return normalize(plainText(c.Body))
}

func markdownNodes(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(n.Content)
		case Code:
			sb.WriteString("`" + n.Content + "`")
		case Link:
			if n.Label != "" {
				sb.WriteString(n.Label + " (`" + n.Ref + "`)")
			} else {
				sb.WriteString("`" + n.Ref + "`")
			}
		}
	}
	return sb.String()
}

func plainText(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(n.Content)
		case Code:
			sb.WriteString(n.Content)
		case Link:
			if n.Label != "" {
				sb.WriteString(n.Label)
			} else {
				sb.WriteString(n.Ref)
			}
		}
	}
	return sb.String()
}

// normalize keeps blank lines as paragraph breaks and joins the lines of
// each paragraph with single spaces.
func normalize(s string) string {
	var paras []string
	for _, para := range strings.Split(s, "\n\n") {
		if f := strings.Fields(para); len(f) > 0 {
			paras = append(paras, strings.Join(f, " "))
		}
	}
	return strings.Join(paras, "\n\n")
}
