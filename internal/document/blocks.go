package document

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// BlockType discriminates Block nodes. The values are part of the artifact
// schema consumed by the presentation layer and must stay stable.
type BlockType string

const (
	BlockParagraph      BlockType = "paragraph"
	BlockHeading        BlockType = "heading"
	BlockList           BlockType = "list"
	BlockListItem       BlockType = "listItem"
	BlockBlockQuote     BlockType = "blockQuote"
	BlockCodeBlock      BlockType = "codeBlock"
	BlockText           BlockType = "text"
	BlockCode           BlockType = "code"
	BlockHTML           BlockType = "html"
	BlockTaskListMarker BlockType = "taskListMarker"
	BlockThematicBreak  BlockType = "thematicBreak"
	BlockEmphasis       BlockType = "emphasis"
	BlockStrong         BlockType = "strong"
	BlockStrikethrough  BlockType = "strikethrough"
	BlockLink           BlockType = "link"
	BlockImage          BlockType = "image"
	BlockTable          BlockType = "table"
	BlockTableHead      BlockType = "tableHead"
	BlockTableRow       BlockType = "tableRow"
	BlockTableCell      BlockType = "tableCell"
)

// Block is one node of the structured body tree. A single struct covers all
// node types; which fields are meaningful depends on Type. Optional fields
// are omitted from JSON when empty, and a Block never holds a non-nil empty
// Children slice, so marshal/unmarshal round-trips to an equal value.
type Block struct {
	Type     BlockType `json:"type"`
	Level    int       `json:"level,omitempty"`
	ID       string    `json:"id,omitempty"`
	Classes  []string  `json:"classes,omitempty"`
	Ordered  *bool     `json:"ordered,omitempty"`
	Lang     string    `json:"lang,omitempty"`
	Code     *string   `json:"code,omitempty"`
	Value    string    `json:"value,omitempty"`
	Checked  *bool     `json:"checked,omitempty"`
	URL      string    `json:"url,omitempty"`
	Title    string    `json:"title,omitempty"`
	Alt      string    `json:"alt,omitempty"`
	Children []Block   `json:"children,omitempty"`
}

// ParseBlocks parses a Markdown body (front matter already removed) into the
// block tree. Enabled syntax beyond CommonMark: tables, strikethrough, task
// lists, and heading attributes ({#id .class}).
//
// The result is never nil; an empty body parses to an empty tree.
func ParseBlocks(body []byte) []Block {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	root := md.Parser().Parse(text.NewReader(body))

	blocks := convertChildren(root, body)
	if blocks == nil {
		blocks = []Block{}
	}
	return blocks
}

func convertChildren(n gmast.Node, src []byte) []Block {
	var out []Block
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = appendNode(out, c, src)
	}
	return out
}

// appendNode converts one goldmark node and appends the result to dst.
// Most nodes map to exactly one Block; a TextBlock (the inline wrapper inside
// tight list items) contributes its children directly, matching how tight
// lists nest in the emitted tree.
func appendNode(dst []Block, n gmast.Node, src []byte) []Block {
	switch node := n.(type) {
	case *gmast.Paragraph:
		return append(dst, Block{Type: BlockParagraph, Children: convertChildren(node, src)})

	case *gmast.TextBlock:
		return append(dst, convertChildren(node, src)...)

	case *gmast.Heading:
		b := Block{Type: BlockHeading, Level: node.Level, Children: convertChildren(node, src)}
		if id, ok := node.AttributeString("id"); ok {
			b.ID = attrString(id)
		}
		if class, ok := node.AttributeString("class"); ok {
			b.Classes = strings.Fields(attrString(class))
		}
		return append(dst, b)

	case *gmast.Blockquote:
		return append(dst, Block{Type: BlockBlockQuote, Children: convertChildren(node, src)})

	case *gmast.List:
		ordered := node.IsOrdered()
		return append(dst, Block{Type: BlockList, Ordered: &ordered, Children: convertChildren(node, src)})

	case *gmast.ListItem:
		return append(dst, Block{Type: BlockListItem, Children: convertChildren(node, src)})

	case *gmast.FencedCodeBlock:
		code := linesValue(node, src)
		return append(dst, Block{Type: BlockCodeBlock, Lang: string(node.Language(src)), Code: &code})

	case *gmast.CodeBlock:
		// Indented code block: no language info.
		code := linesValue(node, src)
		return append(dst, Block{Type: BlockCodeBlock, Code: &code})

	case *gmast.HTMLBlock:
		value := linesValue(node, src)
		if node.HasClosure() {
			value += string(node.ClosureLine.Value(src))
		}
		return append(dst, Block{Type: BlockHTML, Value: value})

	case *gmast.RawHTML:
		return append(dst, Block{Type: BlockHTML, Value: segmentsValue(node.Segments, src)})

	case *gmast.ThematicBreak:
		return append(dst, Block{Type: BlockThematicBreak})

	case *gmast.Text:
		value := string(node.Segment.Value(src))
		switch {
		case node.HardLineBreak():
			value += "\n"
		case node.SoftLineBreak():
			value += " "
		}
		return append(dst, Block{Type: BlockText, Value: value})

	case *gmast.String:
		return append(dst, Block{Type: BlockText, Value: string(node.Value)})

	case *gmast.CodeSpan:
		return append(dst, Block{Type: BlockCode, Value: plainText(node, src)})

	case *gmast.Emphasis:
		t := BlockEmphasis
		if node.Level >= 2 {
			t = BlockStrong
		}
		return append(dst, Block{Type: t, Children: convertChildren(node, src)})

	case *east.Strikethrough:
		return append(dst, Block{Type: BlockStrikethrough, Children: convertChildren(node, src)})

	case *gmast.Link:
		return append(dst, Block{
			Type:     BlockLink,
			URL:      string(node.Destination),
			Title:    string(node.Title),
			Children: convertChildren(node, src),
		})

	case *gmast.AutoLink:
		url := string(node.URL(src))
		label := string(node.Label(src))
		return append(dst, Block{
			Type:     BlockLink,
			URL:      url,
			Children: []Block{{Type: BlockText, Value: label}},
		})

	case *gmast.Image:
		return append(dst, Block{
			Type:  BlockImage,
			URL:   string(node.Destination),
			Title: string(node.Title),
			Alt:   plainText(node, src),
		})

	case *east.Table:
		return append(dst, Block{Type: BlockTable, Children: convertChildren(node, src)})

	case *east.TableHeader:
		return append(dst, Block{Type: BlockTableHead, Children: convertChildren(node, src)})

	case *east.TableRow:
		return append(dst, Block{Type: BlockTableRow, Children: convertChildren(node, src)})

	case *east.TableCell:
		return append(dst, Block{Type: BlockTableCell, Children: convertChildren(node, src)})

	case *east.TaskCheckBox:
		checked := node.IsChecked
		return append(dst, Block{Type: BlockTaskListMarker, Checked: &checked})

	default:
		// Unknown node kinds contribute their children, not themselves.
		return append(dst, convertChildren(n, src)...)
	}
}

func linesValue(n gmast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		sb.Write(lines.At(i).Value(src))
	}
	return sb.String()
}

func segmentsValue(segs *text.Segments, src []byte) string {
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		sb.Write(segs.At(i).Value(src))
	}
	return sb.String()
}

// plainText flattens a node's subtree to its text content. Used for image
// alt text and inline code values.
func plainText(n gmast.Node, src []byte) string {
	var sb strings.Builder
	collectText(n, src, &sb)
	return sb.String()
}

func collectText(n gmast.Node, src []byte, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(src))
		case *gmast.String:
			sb.Write(t.Value)
		default:
			collectText(c, src, sb)
		}
	}
}

func attrString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}
