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
	"strings"
	"unicode"
)

// delimRun is a record of one run of '*' or '_' characters produced by the
// lexer, tracking its position in the flat inline node sequence so that
// resolveEmphasis can splice in place. Per spec.md §9, the node it refers to
// is addressed by integer index rather than pointer, since resolution
// repeatedly removes and reinserts nodes.
type delimRun struct {
	nodeIndex int
	length    int
	char      rune
	canOpen   bool
	canClose  bool
	used      bool
}

// resolveParagraphInlines tokenizes raw and resolves it into a flat sequence
// of inline nodes, per spec.md §4.4-§4.5.
func resolveParagraphInlines(raw string) []*Node {
	tokens := tokenizeInline(raw)
	nodes, delims := buildInlineNodes(tokens)
	return resolveEmphasis(nodes, delims)
}

// buildInlineNodes maps the non-delimiter tokens directly to inline nodes
// and records a delimRun for every delimiter token.
func buildInlineNodes(tokens []token) ([]*Node, []*delimRun) {
	nodes := make([]*Node, 0, len(tokens))
	var delims []*delimRun
	for i, tok := range tokens {
		switch tok.kind {
		case tokCodeSpan:
			n := newNode(CodeSpanKind)
			n.value = tok.text
			nodes = append(nodes, n)
		case tokRawHTML:
			n := newNode(RawHTMLKind)
			n.value = tok.text
			nodes = append(nodes, n)
		case tokAutolink:
			url := tok.text
			if looksLikeEmail(url) {
				url = "mailto:" + url
			}
			link := newNode(LinkKind)
			link.url = url
			text := newNode(TextKind)
			text.value = tok.text
			link.appendChild(text)
			nodes = append(nodes, link)
		case tokSoftBreak:
			n := newNode(TextKind)
			n.value = " "
			nodes = append(nodes, n)
		case tokBreak:
			nodes = append(nodes, newNode(LineBreakKind))
		case tokDelim:
			n := newNode(TextKind)
			n.value = tok.text
			nodes = append(nodes, n)
			canOpen, canClose := flanking(tokens, i)
			delims = append(delims, &delimRun{
				nodeIndex: len(nodes) - 1,
				length:    len([]rune(tok.text)),
				char:      rune(tok.text[0]),
				canOpen:   canOpen,
				canClose:  canClose,
			})
		default: // tokText, tokLBracket, tokRBracket, tokLParen, tokRParen
			n := newNode(TextKind)
			n.value = tok.text
			nodes = append(nodes, n)
		}
	}
	return nodes, delims
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s[:at], " @") && !strings.ContainsAny(s[at+1:], " @")
}

// edgeRunes returns the first and last rune of a token's textual content.
// A hard or soft break counts as whitespace for flanking purposes.
func edgeRunes(tok token) (first, last rune, ok bool) {
	switch tok.kind {
	case tokBreak, tokSoftBreak:
		return ' ', ' ', true
	default:
		if tok.text == "" {
			return 0, 0, false
		}
		rs := []rune(tok.text)
		return rs[0], rs[len(rs)-1], true
	}
}

func isUnicodeSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || unicode.IsSpace(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// flanking computes canOpen/canClose for the delimiter token at index i, per
// spec.md §4.5.
func flanking(tokens []token, i int) (canOpen, canClose bool) {
	var prev, next rune
	var prevOK, nextOK bool
	if i > 0 {
		_, prev, prevOK = edgeRunes(tokens[i-1])
	}
	if i < len(tokens)-1 {
		next, _, nextOK = edgeRunes(tokens[i+1])
	}

	char := rune(tokens[i].text[0])
	switch char {
	case '*':
		canOpen = nextOK && !isUnicodeSpace(next)
		canClose = prevOK && !isUnicodeSpace(prev)
	case '_':
		canOpen = nextOK && !isUnicodeSpace(next)
		if canOpen && nextOK && isAlnum(next) && prevOK && isAlnum(prev) {
			canOpen = false
		}
		canClose = prevOK && !isUnicodeSpace(prev)
		if canClose && prevOK && isAlnum(prev) && nextOK && isAlnum(next) {
			canClose = false
		}
	}
	return canOpen, canClose
}

// resolveEmphasis converts the flat token-derived node sequence into its
// final form by matching delimiter runs into emphasis/strong nodes, per
// spec.md §4.5.
func resolveEmphasis(nodes []*Node, delims []*delimRun) []*Node {
	for ci := len(delims) - 1; ci >= 0; ci-- {
		closer := delims[ci]
		if closer.used || !closer.canClose {
			continue
		}
		for oi := ci - 1; oi >= 0; oi-- {
			opener := delims[oi]
			if opener.used || !opener.canOpen || opener.char != closer.char {
				continue
			}

			openerIdx, closerIdx := opener.nodeIndex, closer.nodeIndex
			between := append([]*Node{}, nodes[openerIdx+1:closerIdx]...)

			// Any delimiter strictly between the matched pair is now
			// nested inside the new node's children as literal text; it
			// can no longer be resolved independently.
			for k := oi + 1; k < ci; k++ {
				delims[k].used = true
			}

			var wrapper *Node
			removeOpener, removeCloser := false, false
			switch {
			case opener.length == 3 && closer.length == 3:
				em := newNode(EmphasisKind)
				em.children = between
				wrapper = newNode(StrongKind)
				wrapper.appendChild(em)
				removeOpener, removeCloser = true, true
			case opener.length >= 2 && closer.length >= 2:
				wrapper = newNode(StrongKind)
				wrapper.children = between
				opener.length -= 2
				closer.length -= 2
				removeOpener = trimOrRemove(nodes[openerIdx], 2, opener.length)
				removeCloser = trimOrRemove(nodes[closerIdx], 2, closer.length)
			default:
				wrapper = newNode(EmphasisKind)
				wrapper.children = between
				opener.length--
				closer.length--
				removeOpener = trimOrRemove(nodes[openerIdx], 1, opener.length)
				removeCloser = trimOrRemove(nodes[closerIdx], 1, closer.length)
			}
			opener.used, closer.used = true, true

			newNodes := make([]*Node, 0, len(nodes)-(closerIdx-openerIdx+1)+3)
			newNodes = append(newNodes, nodes[:openerIdx]...)
			wrapperPos := len(newNodes)
			if !removeOpener {
				newNodes = append(newNodes, nodes[openerIdx])
				wrapperPos++
			}
			newNodes = append(newNodes, wrapper)
			closerNewPos := len(newNodes)
			if !removeCloser {
				newNodes = append(newNodes, nodes[closerIdx])
			}
			tailStart := len(newNodes)
			newNodes = append(newNodes, nodes[closerIdx+1:]...)

			delta := tailStart - (closerIdx + 1)
			for _, d := range delims {
				switch {
				case d == opener:
					if !removeOpener {
						d.nodeIndex = wrapperPos - 1
					}
				case d == closer:
					if !removeCloser {
						d.nodeIndex = closerNewPos
					}
				case d.nodeIndex > closerIdx:
					d.nodeIndex += delta
				}
			}

			nodes = newNodes
			break
		}
	}
	return nodes
}

// trimOrRemove trims n leading characters from a placeholder text node's
// value and reports whether the node is now empty and should be removed
// from the sequence entirely.
func trimOrRemove(node *Node, trimmed, remaining int) bool {
	if remaining <= 0 {
		return true
	}
	node.value = node.value[trimmed:]
	return false
}
