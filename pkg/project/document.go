// Package project reads and edits MSBuild project descriptors.
//
// A Document keeps the original bytes. New references are spliced into them
// when the document is rendered, so everything the caller did not add comes
// back byte for byte: comments, attribute order, whitespace and line endings.
package project

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/refimport/pkg/constants"
)

// Reference is one Reference entry of a descriptor.
type Reference struct {
	// Include is the logical assembly name.
	Include string `json:"include" yaml:"include"`
	// HintPath locates the binary, usually relative to the descriptor.
	HintPath string `json:"hint_path,omitempty" yaml:"hint_path,omitempty"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// element records where an element sits in the source bytes.
type element struct {
	start       int    // offset of '<' of the start tag
	startEnd    int    // offset just past the start tag
	endStart    int    // offset of '<' of the end tag
	selfClosing bool   // written as <x/>
	firstChild  int    // offset of the first child element, or -1
	rawName     string // qualified name as written in the source
}

// Document is a parsed project descriptor plus the references added to it.
type Document struct {
	src       []byte
	bias      int
	namespace string
	newline   string
	refs      []Reference
	added     []Reference
	root      *element
	group     *element
}

// Parse reads a descriptor from data. Only UTF-8 documents are accepted; a
// leading byte order mark is kept.
func Parse(data []byte) (*Document, error) {
	doc := &Document{src: data, newline: "\n"}
	body := data
	if bytes.HasPrefix(body, utf8BOM) {
		body = body[len(utf8BOM):]
		doc.bias = len(utf8BOM)
	}
	if bytes.Contains(data, []byte("\r\n")) {
		doc.newline = "\r\n"
	}

	type frame struct {
		el       *element
		ref      int // index into doc.refs when this is a Reference
		hint     int // index into doc.refs when this is its first HintPath
		hintSeen bool
		text     strings.Builder
		scope    string // default namespace in scope for children
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	var stack []*frame
	for {
		begin := int(dec.InputOffset()) + doc.bias
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		end := int(dec.InputOffset()) + doc.bias

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && doc.root != nil {
				return nil, fmt.Errorf("xml: multiple root elements")
			}
			f := &frame{
				el:   &element{start: begin, startEnd: end, firstChild: -1, rawName: doc.rawName(begin)},
				ref:  -1,
				hint: -1,
			}
			if len(stack) == 0 {
				doc.root = f.el
				doc.namespace, _ = defaultNamespace(t)
				f.scope = doc.namespace
			} else {
				parent := stack[len(stack)-1]
				if parent.el.firstChild < 0 {
					parent.el.firstChild = begin
				}
				f.scope = parent.scope
				if ns, ok := defaultNamespace(t); ok {
					f.scope = ns
				}
				// Unprefixed children written into the group inherit its
				// default namespace, so it must be the root's.
				if len(stack) == 1 && doc.group == nil && doc.is(t.Name, constants.ItemGroupElement) &&
					f.scope == doc.namespace {
					doc.group = f.el
				}
				if parent.ref >= 0 && !parent.hintSeen && doc.is(t.Name, constants.HintPathElement) {
					parent.hintSeen = true
					f.hint = parent.ref
				}
			}
			if doc.is(t.Name, constants.ReferenceElement) {
				doc.refs = append(doc.refs, Reference{Include: attr(t, constants.IncludeAttribute)})
				f.ref = len(doc.refs) - 1
			}
			stack = append(stack, f)

		case xml.EndElement:
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			f.el.endStart = begin
			f.el.selfClosing = begin == end
			if f.hint >= 0 {
				doc.refs[f.hint].HintPath = strings.TrimSpace(f.text.String())
			}

		case xml.CharData:
			if len(stack) > 0 && stack[len(stack)-1].hint >= 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if doc.root == nil {
		return nil, fmt.Errorf("xml: no root element")
	}
	return doc, nil
}

// Namespace returns the default namespace declared on the root element.
func (d *Document) Namespace() string {
	return d.namespace
}

// References returns the references found in the document, in document
// order, followed by the ones added since parsing.
func (d *Document) References() []Reference {
	out := make([]Reference, 0, len(d.refs)+len(d.added))
	out = append(out, d.refs...)
	return append(out, d.added...)
}

// Added returns the references added since parsing.
func (d *Document) Added() []Reference {
	return append([]Reference(nil), d.added...)
}

// HasItemGroup reports whether the root has an ItemGroup child to receive references.
func (d *Document) HasItemGroup() bool {
	return d.group != nil
}

// AddReference appends ref to the first top-level ItemGroup whose default
// namespace is the root's. When the document has none, one is created as
// the last child of the root.
func (d *Document) AddReference(ref Reference) {
	d.added = append(d.added, ref)
}

// Modified reports whether any reference was added.
func (d *Document) Modified() bool {
	return len(d.added) > 0
}

// Source returns the bytes the document was parsed from.
func (d *Document) Source() []byte {
	return bytes.Clone(d.src)
}

// Bytes renders the document. Without additions it equals Source.
func (d *Document) Bytes() []byte {
	if !d.Modified() {
		return d.Source()
	}

	rootIndent := d.indentAt(d.root.start, "")
	unit := constants.DefaultIndent
	if d.root.firstChild >= 0 {
		if ind, ok := d.lineIndent(d.root.firstChild); ok && len(ind) > len(rootIndent) && strings.HasPrefix(ind, rootIndent) {
			unit = ind[len(rootIndent):]
		}
	}

	if g := d.group; g != nil {
		groupIndent := d.indentAt(g.start, rootIndent+unit)
		childIndent := groupIndent + unit
		if g.firstChild >= 0 {
			childIndent = d.indentAt(g.firstChild, childIndent)
		}
		return d.splice(g, d.referencesBlock(childIndent, unit), groupIndent)
	}

	groupIndent := rootIndent + unit
	var b strings.Builder
	b.WriteString(groupIndent + "<" + constants.ItemGroupElement + ">" + d.newline)
	b.WriteString(d.referencesBlock(groupIndent+unit, unit))
	b.WriteString(d.newline + groupIndent + "</" + constants.ItemGroupElement + ">")
	return d.splice(d.root, b.String(), rootIndent)
}

// splice inserts content as the last children of el. content is already
// indented; outerIndent is the indentation of el itself.
func (d *Document) splice(el *element, content, outerIndent string) []byte {
	var out bytes.Buffer
	out.Grow(len(d.src) + len(content) + 64)

	if el.selfClosing {
		open := bytes.TrimRight(d.src[el.start:el.startEnd], ">")
		open = bytes.TrimRight(bytes.TrimSuffix(open, []byte("/")), " \t\r\n")
		out.Write(d.src[:el.start])
		out.Write(open)
		out.WriteString(">" + d.newline + content + d.newline + outerIndent + "</" + el.rawName + ">")
		out.Write(d.src[el.startEnd:])
		return out.Bytes()
	}

	if _, lineStart, ok := d.lineSpan(el.endStart); ok && lineStart > el.startEnd {
		out.Write(d.src[:lineStart])
		out.WriteString(content + d.newline)
		out.Write(d.src[lineStart:])
		return out.Bytes()
	}

	out.Write(d.src[:el.endStart])
	out.WriteString(d.newline + content + d.newline + outerIndent)
	out.Write(d.src[el.endStart:])
	return out.Bytes()
}

func (d *Document) referencesBlock(indent, unit string) string {
	lines := make([]string, 0, len(d.added)*3)
	for _, ref := range d.added {
		open := fmt.Sprintf("<%s %s=\"%s\"", constants.ReferenceElement, constants.IncludeAttribute, escape(ref.Include))
		if ref.HintPath == "" {
			lines = append(lines, indent+open+" />")
			continue
		}
		lines = append(lines,
			indent+open+">",
			fmt.Sprintf("%s%s<%s>%s</%s>", indent, unit, constants.HintPathElement, escape(ref.HintPath), constants.HintPathElement),
			indent+"</"+constants.ReferenceElement+">",
		)
	}
	return strings.Join(lines, d.newline)
}

// is reports whether name is local in the document's default namespace.
func (d *Document) is(name xml.Name, local string) bool {
	return name.Space == d.namespace && name.Local == local
}

// lineSpan returns the blanks before pos and where its line starts, if only
// blanks precede pos on that line.
func (d *Document) lineSpan(pos int) (string, int, bool) {
	i := pos
	for i > d.bias && (d.src[i-1] == ' ' || d.src[i-1] == '\t') {
		i--
	}
	if i == d.bias || d.src[i-1] == '\n' {
		return string(d.src[i:pos]), i, true
	}
	return "", 0, false
}

func (d *Document) lineIndent(pos int) (string, bool) {
	ind, _, ok := d.lineSpan(pos)
	return ind, ok
}

func (d *Document) indentAt(pos int, fallback string) string {
	if ind, ok := d.lineIndent(pos); ok {
		return ind
	}
	return fallback
}

// rawName reads the tag name written after '<' at pos.
func (d *Document) rawName(pos int) string {
	i := pos + 1
	j := i
	for j < len(d.src) && !strings.ContainsRune(" \t\r\n/>", rune(d.src[j])) {
		j++
	}
	return string(d.src[i:j])
}

// defaultNamespace returns the xmlns declared on t, if any.
func defaultNamespace(t xml.StartElement) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
