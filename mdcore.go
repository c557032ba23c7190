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

// Package mdcore provides a CommonMark-leaning Markdown parser and HTML
// renderer: a two-phase pipeline (block parser, then inline parser) over an
// explicit parse tree, followed by a recursive HTML emitter.
//
// Parsing never fails: [ParseDocument] is a total function over all UTF-8
// strings, and malformed constructs degrade to literal text rather than
// producing an error.
package mdcore

import (
	"io"
	"strings"
)

// Convert parses source as Markdown and renders it to HTML using the
// default [RenderOptions]. It never returns a non-nil error; the return
// signature exists so callers can use it interchangeably with renderers
// that stream to an [io.Writer] and can fail on write.
func Convert(source string) (string, error) {
	doc := ParseDocument(source)
	var sb strings.Builder
	if err := RenderHTMLTo(&sb, doc, RenderOptions{}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ParseDocument runs the full parse pipeline over source: line
// normalization (§4.1), the block phase (§4.2-§4.3), and the inline phase
// (§4.4-§4.5), returning the resulting document tree. The returned tree's
// paragraph and heading nodes hold fully resolved inline children; no
// transient raw buffers remain.
func ParseDocument(source string) *Node {
	lines := splitLines(source)
	doc := blockPhase(lines)
	resolveInlinePhase(doc)
	return doc
}

// resolveInlinePhase walks the block-phase tree and replaces each
// paragraph's and heading's raw text with its resolved inline node
// sequence, per §4.4-§4.5. It uses [Walk] in post-order, since inline
// resolution only touches leaf-adjacent block nodes and does not depend on
// traversal order across siblings.
func resolveInlinePhase(doc *Node) {
	Walk(doc, &WalkOptions{
		Post: func(c *Cursor) bool {
			n := c.Node()
			switch n.Kind() {
			case ParagraphKind:
				n.children = resolveParagraphInlines(n.value)
				n.value = ""
			case HeadingKind:
				n.children = resolveParagraphInlines(headingRawText(n))
			}
			return true
		},
	})
}

// headingRawText recovers the single raw-text child that the block phase
// attaches to a freshly opened heading node (see blocks.go's ATX and
// setext rules), before inline resolution replaces it.
func headingRawText(h *Node) string {
	if len(h.children) != 1 || h.children[0].Kind() != TextKind {
		return ""
	}
	return h.children[0].value
}

// DumpAST renders doc's tree structure as an indented, parenthesized
// listing, one node per line. It is intended for debugging (see the
// mdcore CLI's --ast flag) and is not part of the parse/render pipeline.
func DumpAST(w io.Writer, doc *Node) error {
	d := &astDumper{w: w}
	Walk(doc, &WalkOptions{
		Pre: func(c *Cursor) bool {
			d.writeNode(c)
			d.depth++
			return d.err == nil
		},
		Post: func(c *Cursor) bool {
			d.depth--
			return true
		},
	})
	return d.err
}

type astDumper struct {
	w     io.Writer
	depth int
	err   error
}

func (d *astDumper) writeNode(c *Cursor) {
	if d.err != nil {
		return
	}
	n := c.Node()
	indent := strings.Repeat("  ", d.depth)
	line := indent + "(" + n.Kind().String()
	if v := n.Value(); v != "" {
		line += " " + quoteForDump(v)
	}
	line += ")\n"
	_, d.err = io.WriteString(d.w, line)
}

func quoteForDump(s string) string {
	if len(s) > 40 {
		s = s[:40] + "…"
	}
	return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"`
}
