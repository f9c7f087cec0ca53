package io

import (
	"strings"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// Text format delimiters.
const (
	tokenSep  = ":::"
	closer    = "#"
	fieldSep  = "|"
	fieldKV   = "="
	spouseSep = ":"
)

const formatText = "ftree"

// MarshalText encodes the tree rooted at root in the .ftree text format.
//
// Nodes are written pre-order. Each node is a token of the form
//
//	name[:spouse][|field=value]...
//
// followed by its children's subtrees, each preceded by ":::", and closed by
// a single '#'. A leaf is "B#"; a root A with leaf children B and C is
// "A:::B#:::C##". Empty fields are omitted and present fields appear in
// [family.Fields] order. A spouse contributes only its name.
//
// Names and values are written verbatim: they must not contain ":::", "|",
// "=", or "#", and a name must not contain ':'. See
// [errors.ValidatePersonName].
func MarshalText(root *family.Node) []byte {
	if root == nil {
		return nil
	}
	var b strings.Builder
	encodeText(&b, root)
	return []byte(b.String())
}

func encodeText(b *strings.Builder, n *family.Node) {
	b.WriteString(n.Name)
	if n.Spouse != nil {
		b.WriteString(spouseSep)
		b.WriteString(n.Spouse.Name)
	}
	for _, f := range family.Fields {
		if v := n.Person.Get(f); v != "" {
			b.WriteString(fieldSep)
			b.WriteString(string(f))
			b.WriteString(fieldKV)
			b.WriteString(v)
		}
	}
	for _, c := range n.Children {
		b.WriteString(tokenSep)
		encodeText(b, c)
	}
	b.WriteString(closer)
}

// UnmarshalText decodes a .ftree document.
//
// The input is split on ":::". Each piece is a node token followed by zero
// or more '#' closers; a bare "#" only closes. A new node becomes a child of
// the innermost open node. Closers still owed at the end of input may be
// omitted, and a trailing ":::" is ignored, so "A:::B#:::C#" decodes to A
// with children B and C.
//
// Spouses are rebuilt as bare nodes with IsSpouse set and Parent pointing at
// their partner. The returned tree has no layout state.
//
// Errors are [*errors.MalformedInputError] naming the offending token.
func UnmarshalText(data []byte) (*family.Node, error) {
	s := strings.TrimRight(string(data), "\r\n")
	if s == "" {
		return nil, errors.Malformed(formatText, "", "empty input")
	}
	if !strings.Contains(s, closer) {
		return nil, errors.Malformed(formatText, excerpt(s), "missing terminator %q", closer)
	}

	tokens := strings.Split(s, tokenSep)
	if len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}

	var (
		root  *family.Node
		stack []*family.Node
	)
	for _, tok := range tokens {
		if root != nil && len(stack) == 0 {
			return nil, errors.Malformed(formatText, tok, "content after the root was closed")
		}

		body := strings.TrimRight(tok, closer)
		closers := len(tok) - len(body)

		if body == "" && closers == 0 {
			return nil, errors.Malformed(formatText, tok, "empty node token")
		}
		if body != "" {
			n, err := parseToken(body)
			if err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		}

		for range closers {
			if len(stack) == 0 {
				return nil, errors.Malformed(formatText, tok, "more closers than open nodes")
			}
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, errors.Malformed(formatText, excerpt(s), "no root node")
	}
	return root, nil
}

func parseToken(body string) (*family.Node, error) {
	parts := strings.Split(body, fieldSep)
	head := parts[0]
	if head == "" {
		return nil, errors.Malformed(formatText, body, "missing name")
	}

	name, spouse, married := strings.Cut(head, spouseSep)
	if name == "" {
		return nil, errors.Malformed(formatText, body, "missing name")
	}
	n := family.New(name)
	if married {
		if spouse == "" {
			return nil, errors.Malformed(formatText, body, "empty spouse name")
		}
		n.AddSpouse(spouse)
	}

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, fieldKV)
		if !ok {
			return nil, errors.Malformed(formatText, part, "field without %q", fieldKV)
		}
		f := family.Field(key)
		if !f.Valid() {
			return nil, errors.Malformed(formatText, part, "unknown field %q", key)
		}
		n.Person.Set(f, value)
	}
	return n, nil
}

// TrimText strips trailing closers and separators, giving the canonical
// form used to compare .ftree documents that differ only in the trailing
// delimiters the decoder tolerates.
func TrimText(s string) string {
	for {
		t := strings.TrimRight(s, closer+"\r\n")
		t = strings.TrimSuffix(t, tokenSep)
		if t == s {
			return t
		}
		s = t
	}
}

func excerpt(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
