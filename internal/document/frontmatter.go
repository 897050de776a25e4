package document

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates a `---` delimited YAML front matter block from
// the Markdown body. had reports whether the source started with a delimiter
// at all; if it did but the closing delimiter is missing, the error is
// ErrMissingClosingDelimiter.
//
// The newline style of the source (LF or CRLF) is detected from its first
// line break so Windows-authored sources split cleanly.
func splitFrontMatter(content []byte) (frontMatter, body []byte, had bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		// Empty front matter block.
		return []byte{}, content[start+len(closeLine):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(content[start:], closeSeq); idx >= 0 {
		end := start + idx + len(nl)
		bodyStart := start + idx + len(closeSeq)
		return content[start:end], content[bodyStart:], true, nil
	}

	// A closing delimiter at EOF without a trailing newline still closes the block.
	closeEOF := []byte(nl + "---")
	if bytes.HasSuffix(content[start:], closeEOF) {
		end := len(content) - len(closeEOF) + len(nl)
		return content[start:end], nil, true, nil
	}

	return nil, nil, false, ErrMissingClosingDelimiter
}

func detectNewline(content []byte) string {
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}

// frontMatterFields is the typed envelope the YAML block decodes into.
// Unknown keys are ignored; the date stays a string until validation.
type frontMatterFields struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
}

func decodeFrontMatter(raw []byte) (frontMatterFields, error) {
	var fields frontMatterFields
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return frontMatterFields{}, err
	}
	return fields, nil
}
