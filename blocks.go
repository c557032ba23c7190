// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package mdcore

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// blockPhase runs the container-stack line scanner over lines, returning the
// root document node with its reference-definition map populated. Paragraphs
// that turn out to consist solely of link reference definitions are removed
// from the tree at close time.
func blockPhase(lines []string) *Node {
	doc := newNode(DocumentKind)
	doc.refs = ReferenceMap{}
	stack := []*Node{doc}
	for _, line := range lines {
		processBlockLine(doc, &stack, line)
	}
	for len(stack) > 0 {
		closeBlock(&stack, doc)
	}
	return doc
}

func stackTop(stack []*Node) *Node {
	return stack[len(stack)-1]
}

// processBlockLine runs steps A-D of the block phase for a single line.
func processBlockLine(doc *Node, stack *[]*Node, line string) {
	top := stackTop(*stack)

	// Step A: open fenced code short-circuit.
	if top.Kind() == CodeBlockKind && top.fence != "" {
		if matchClosingFence(line, top.fence) {
			if top.raw != nil {
				// The closing fence line itself carries no content, but the
				// last content line was still terminated by the newline
				// that precedes it in the source.
				top.appendRawLine("")
			}
			closeBlock(stack, doc)
		} else {
			top.appendRawLine(line)
		}
		return
	}

	// Step B: match existing containers.
	offset := 0
	matchDepth := 1
	for i := 1; i < len(*stack); i++ {
		ok, consumed := continuesContainer((*stack)[i], line[offset:])
		if !ok {
			break
		}
		offset += consumed
		matchDepth = i + 1
	}
	for len(*stack) > matchDepth {
		closeBlock(stack, doc)
	}
	suffix := line[offset:]

	// Step C: try to open new containers.
	if openNewContainers(doc, stack, suffix) {
		return
	}

	// Step D: blank line handling.
	if isBlankLine(suffix) {
		markBlankForLists(*stack)
		switch top = stackTop(*stack); top.Kind() {
		case ParagraphKind:
			closeBlock(stack, doc)
		case CodeBlockKind:
			top.appendRawLine("")
		}
		return
	}

	// Fallback: ordinary paragraph text.
	top = stackTop(*stack)
	if top.Kind() != ParagraphKind && top.Kind() != CodeBlockKind {
		p := newNode(ParagraphKind)
		top.appendChild(p)
		*stack = append(*stack, p)
		top = p
	}
	top.appendRawLine(suffix)
}

// continuesContainer implements the Step B continuation table.
func continuesContainer(c *Node, rest string) (ok bool, consumed int) {
	switch c.Kind() {
	case BlockQuoteKind:
		if m := blockquoteMarker.FindString(rest); m != "" {
			return true, len(m)
		}
		return isBlankLine(rest), 0
	case ParagraphKind:
		return !isBlankLine(rest), 0
	case CodeBlockKind:
		// Fenced code blocks are handled exclusively by Step A and always
		// report a match here so Step B never closes them out from under
		// it. Indented code blocks continue as long as they stay indented
		// by at least 4 columns, or the line is blank; the actual append
		// happens in Step C's indented-code rule, which re-examines the
		// same text.
		if c.fence != "" {
			return true, 0
		}
		return isBlankLine(rest) || indentLength(rest) >= 4, 0
	case ListKind, ListItemKind:
		return true, 0
	default:
		return false, 0
	}
}

// openNewContainers implements Step C: it repeatedly tries to open new
// containers against suffix, descending into freshly opened blockquotes,
// until it either fully handles the line (returns true) or exhausts the
// precedence list without a match (returns false, leaving suffix handling
// to the caller's paragraph-text fallback). Text left after a newly opened
// blockquote's marker is handled here, as paragraph text of that blockquote.
func openNewContainers(doc *Node, stack *[]*Node, suffix string) bool {
	suffixEntry := suffix
	for {
		top := stackTop(*stack)

		// 1. Setext heading upgrade.
		if top.Kind() == ParagraphKind && top.rawText() != "" {
			if level, ok := matchSetextUnderline(suffix); ok {
				parent := (*stack)[len(*stack)-2]
				content := top.rawText()
				*stack = (*stack)[:len(*stack)-1]
				parent.removeChild(top)
				h := newNode(HeadingKind)
				h.level = level
				text := newNode(TextKind)
				text.value = content
				h.appendChild(text)
				parent.appendChild(h)
				return true
			}
		}

		// 2. Thematic break.
		if isThematicBreak(suffix) {
			closeIfParagraph(doc, stack)
			stackTop(*stack).appendChild(newNode(ThematicBreakKind))
			return true
		}

		// 3. ATX heading.
		if level, content, ok := matchATXHeading(suffix); ok {
			closeIfParagraph(doc, stack)
			h := newNode(HeadingKind)
			h.level = level
			text := newNode(TextKind)
			text.value = content
			h.appendChild(text)
			stackTop(*stack).appendChild(h)
			return true
		}

		// 4. Fenced code start.
		if marker, info, ok := matchFenceOpen(suffix); ok {
			closeIfParagraph(doc, stack)
			cb := newNode(CodeBlockKind)
			cb.fence = marker
			cb.language = info
			stackTop(*stack).appendChild(cb)
			*stack = append(*stack, cb)
			return true
		}

		// 5. Blockquote.
		if rest, ok := matchBlockquoteOpen(suffix); ok {
			closeIfParagraph(doc, stack)
			bq := newNode(BlockQuoteKind)
			stackTop(*stack).appendChild(bq)
			*stack = append(*stack, bq)
			suffix = rest
			continue
		}

		// 6. List item.
		if marker, rest, ok := matchListMarker(suffix); ok {
			closeIfParagraph(doc, stack)
			openListItem(stack, marker, rest)
			return true
		}

		// 7. Indented code block.
		if content, ok := matchIndentedCode(suffixEntry); ok {
			if top := stackTop(*stack); top.Kind() == CodeBlockKind && top.fence == "" {
				top.appendRawLine(content)
			} else {
				closeIfParagraph(doc, stack)
				cb := newNode(CodeBlockKind)
				cb.setRawText(content)
				stackTop(*stack).appendChild(cb)
				*stack = append(*stack, cb)
			}
			return true
		}

		// 8. HTML block.
		trimmed := strings.TrimSpace(suffix)
		if matchHTMLBlockOpener(trimmed) {
			closeIfParagraph(doc, stack)
			hb := newNode(HTMLBlockKind)
			hb.value = trimmed
			stackTop(*stack).appendChild(hb)
			return true
		}

		if suffix != suffixEntry {
			// A blockquote marker was consumed above, so the rest of the
			// line is paragraph text inside the new blockquote.
			if !isBlankLine(suffix) {
				p := newNode(ParagraphKind)
				stackTop(*stack).appendChild(p)
				*stack = append(*stack, p)
				p.appendRawLine(suffix)
			}
			return true
		}
		return false
	}
}

// closeIfParagraph closes the top of the stack if it is an open paragraph.
func closeIfParagraph(doc *Node, stack *[]*Node) {
	if stackTop(*stack).Kind() == ParagraphKind {
		closeBlock(stack, doc)
	}
}

// openListItem implements Step C rule 6.
func openListItem(stack *[]*Node, marker listMarker, rest string) {
	if stackTop(*stack).Kind() == ListItemKind {
		*stack = (*stack)[:len(*stack)-1]
	}
	top := stackTop(*stack)
	var list *Node
	if top.Kind() == ListKind && top.ordered == marker.ordered {
		list = top
	} else {
		if top.Kind() == ListKind {
			*stack = (*stack)[:len(*stack)-1]
			top = stackTop(*stack)
		}
		list = newNode(ListKind)
		list.ordered = marker.ordered
		list.tight = true
		if list.ordered {
			list.start = marker.number
		}
		top.appendChild(list)
		*stack = append(*stack, list)
	}
	item := newNode(ListItemKind)
	list.appendChild(item)
	*stack = append(*stack, item)
	para := newNode(ParagraphKind)
	item.appendChild(para)
	*stack = append(*stack, para)
	if rest != "" {
		para.setRawText(rest)
	}
}

// markBlankForLists records that a blank line occurred while each List on
// stack was still open, approximating the tight/loose determination of
// spec.md §3 without full item-boundary lookahead. Any blank line seen while
// a list is on the stack marks it loose, including one after its last item
// such as the empty final line of a source that ends in a newline; only a
// list that sees no blank line at all before it closes stays tight.
func markBlankForLists(stack []*Node) {
	for _, n := range stack {
		if n.Kind() == ListKind {
			n.tight = false
		}
	}
}

// closeBlock pops the top of the stack and performs its close action.
func closeBlock(stack *[]*Node, doc *Node) {
	n := stackTop(*stack)
	*stack = (*stack)[:len(*stack)-1]
	switch n.Kind() {
	case ParagraphKind:
		retained := extractReferenceDefinitions(n.rawText(), doc.refs)
		if retained == "" {
			if len(*stack) > 0 {
				stackTop(*stack).removeChild(n)
			}
			return
		}
		n.setRawText(retained)
		n.clearRaw()
	case CodeBlockKind:
		if n.fence == "" {
			// Indented code blocks drop their trailing blank lines (including
			// the synthetic final line splitLines produces for a source that
			// ends in a newline); a fenced block's closing delimiter already
			// accounts for its own trailing newline in Step A.
			n.value = strings.TrimRight(n.rawText(), "\n")
			n.raw = nil
		} else {
			n.clearRaw()
		}
	}
}

var (
	blockquoteMarker    = regexp.MustCompile(`^ {0,3}>( ?)?`)
	atxHeadingPattern   = regexp.MustCompile(`^(#{1,6})(?:[ \t]+|$)(.*?)(?:[ \t]+#+[ \t]*|[ \t]*)$`)
	setextPattern       = regexp.MustCompile(`^ {0,3}(=+|-+)\s*$`)
	unorderedListMarker = regexp.MustCompile(`^ {0,3}([*+\-])(\s+)(.*)$`)
	orderedListMarker   = regexp.MustCompile(`^ {0,3}(\d{1,9})([.)])(\s+)(.*)$`)
)

func matchBlockquoteOpen(s string) (rest string, ok bool) {
	m := blockquoteMarker.FindString(s)
	if m == "" {
		return "", false
	}
	return s[len(m):], true
}

func matchATXHeading(s string) (level int, content string, ok bool) {
	m := atxHeadingPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

func matchSetextUnderline(s string) (level int, ok bool) {
	m := setextPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	if m[1][0] == '=' {
		return 1, true
	}
	return 2, true
}

// isThematicBreak reports whether s reduces to three or more repetitions of
// the same character from the set {*, -, _} once all whitespace is removed.
func isThematicBreak(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if len(stripped) < 3 {
		return false
	}
	switch stripped[0] {
	case '*', '-', '_':
	default:
		return false
	}
	for i := 1; i < len(stripped); i++ {
		if stripped[i] != stripped[0] {
			return false
		}
	}
	return true
}

// matchFenceOpen recognizes a fenced code block opener, allowing up to three
// leading spaces of indentation, consistent with the other container
// markers in this table.
func matchFenceOpen(s string) (marker, info string, ok bool) {
	trimmed, _ := stripUpToThreeLeadingSpaces(s)
	if len(trimmed) < 3 {
		return "", "", false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return "", "", false
	}
	i := 0
	for i < len(trimmed) && trimmed[i] == c {
		i++
	}
	if i < 3 {
		return "", "", false
	}
	return trimmed[:i], strings.TrimSpace(trimmed[i:]), true
}

// matchClosingFence implements Step A's closing-fence test.
func matchClosingFence(line string, openFence string) bool {
	trimmed, _ := stripUpToThreeLeadingSpaces(line)
	c := openFence[0]
	i := 0
	for i < len(trimmed) && trimmed[i] == c {
		i++
	}
	if i < len(openFence) {
		return false
	}
	return isBlankLine(trimmed[i:])
}

func stripUpToThreeLeadingSpaces(s string) (string, int) {
	n := 0
	for n < 3 && n < len(s) && s[n] == ' ' {
		n++
	}
	return s[n:], n
}

type listMarker struct {
	ordered bool
	number  int
}

func matchListMarker(s string) (marker listMarker, rest string, ok bool) {
	if m := unorderedListMarker.FindStringSubmatch(s); m != nil {
		return listMarker{ordered: false}, m[3], true
	}
	if m := orderedListMarker.FindStringSubmatch(s); m != nil {
		n := 0
		for _, r := range m[1] {
			n = n*10 + int(r-'0')
		}
		return listMarker{ordered: true, number: n}, m[4], true
	}
	return listMarker{}, "", false
}

func matchIndentedCode(s string) (content string, ok bool) {
	if isBlankLine(s) || indentLength(s) < 4 {
		return "", false
	}
	return s[4:], true
}

func indentLength(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

var htmlBlockOpeners = []*regexp.Regexp{
	regexp.MustCompile(`^<!--.*?-->`),
	regexp.MustCompile(`^<\?[^>]*\?>`),
	regexp.MustCompile(`(?i)^<!DOCTYPE\s+[^>]+>`),
	regexp.MustCompile(`^<!\[CDATA\[.*?\]\]>`),
	regexp.MustCompile(`(?i)^<(script|pre|style|textarea)\b`),
}

// htmlBlockTagName captures a raw or closing tag name at the start of a
// line, e.g. the "div" in "<div>" or "</div>".
var htmlBlockTagName = regexp.MustCompile(`^</?([a-zA-Z][a-zA-Z0-9-]*)(?:[\s/>]|$)`)

// blockLevelAtoms is the set of HTML tag names whose presence at the start
// of a line opens an HTML block, per CommonMark's type-6 rule. Tag names
// are resolved through [atom.Lookup] rather than a hand-rolled string set,
// so the set is keyed by the same well-known atoms the rest of the Go HTML
// ecosystem uses.
var blockLevelAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Base: true,
	atom.Blockquote: true, atom.Body: true, atom.Caption: true, atom.Center: true,
	atom.Col: true, atom.Colgroup: true, atom.Dd: true, atom.Details: true,
	atom.Dialog: true, atom.Dir: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.Header: true, atom.Hr: true, atom.Html: true,
	atom.Legend: true, atom.Li: true, atom.Menu: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Tfoot: true, atom.Th: true,
	atom.Thead: true, atom.Tr: true,
}

func matchHTMLBlockOpener(trimmed string) bool {
	for _, re := range htmlBlockOpeners {
		if re.MatchString(trimmed) {
			return true
		}
	}
	if m := htmlBlockTagName.FindStringSubmatch(trimmed); m != nil {
		a := atom.Lookup([]byte(strings.ToLower(m[1])))
		return blockLevelAtoms[a]
	}
	return false
}
