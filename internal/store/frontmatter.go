package store

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// decodeDoc splits a content file into its typed front matter and markdown
// body. Files without a front-matter block decode into the zero envelope
// with the whole file as body; required-field checks happen in the typed
// readers.
func decodeDoc(data []byte, fm any) (string, error) {
	body, err := frontmatter.Parse(bytes.NewReader(data), fm)
	if err != nil {
		return "", fmt.Errorf("parse front matter: %w", err)
	}
	return strings.TrimLeft(string(body), "\n\r"), nil
}

// encodeDoc renders front matter and body back into the on-disk format:
// a YAML block between --- fences followed by the body.
func encodeDoc(fm any, body string) ([]byte, error) {
	meta, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
