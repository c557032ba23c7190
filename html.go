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
	"fmt"
	"io"
	"strings"
)

// SoftBreakMode controls how a line-internal soft break inside a paragraph
// or heading is rendered. The data model collapses a soft break to a single
// space text node before the escaper ever runs, so the choice has to be
// made here rather than earlier in the pipeline.
type SoftBreakMode int

const (
	// SoftBreakAsSpace renders a soft break as a literal space (default).
	SoftBreakAsSpace SoftBreakMode = iota
	// SoftBreakAsNewline renders a soft break as a literal LF, preserving
	// the source's line structure in the output.
	SoftBreakAsNewline
)

// RenderOptions configures [RenderHTMLTo].
type RenderOptions struct {
	// SoftBreak selects how soft breaks are rendered. The zero value is
	// SoftBreakAsSpace.
	SoftBreak SoftBreakMode

	// AllowedURLSchemes, when non-nil, restricts link and image
	// destinations to the listed schemes (case-insensitive, without the
	// trailing colon); a destination with any other scheme is rendered
	// with an empty href/src. A destination with no scheme (a relative
	// path or fragment) is always allowed. A nil slice disables the
	// check entirely.
	AllowedURLSchemes []string
}

// RenderHTML renders doc to an HTML string using the default options.
func RenderHTML(doc *Node) string {
	var sb strings.Builder
	_ = RenderHTMLTo(&sb, doc, RenderOptions{})
	return sb.String()
}

// RenderHTMLTo writes doc's HTML rendering to w.
func RenderHTMLTo(w io.Writer, doc *Node, opts RenderOptions) error {
	r := &renderer{w: w, opts: opts}
	r.renderChildrenJoined(doc)
	return r.err
}

type renderer struct {
	w    io.Writer
	opts RenderOptions
	err  error
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

// renderChildrenJoined emits a block-level node's children, separated by a
// single LF between each pair but not trailing the last.
func (r *renderer) renderChildrenJoined(n *Node) {
	children := n.Children()
	for i, c := range children {
		if i > 0 {
			r.write("\n")
		}
		r.renderBlock(c)
	}
}

func (r *renderer) renderChildren(n *Node) {
	for _, c := range n.Children() {
		r.renderBlock(c)
	}
}

func (r *renderer) renderBlock(n *Node) {
	switch n.Kind() {
	case ParagraphKind:
		r.write("<p>")
		r.renderChildren(n)
		r.write("</p>")
	case HeadingKind:
		tag := fmt.Sprintf("h%d", n.Level())
		r.write("<" + tag + ">")
		r.renderChildren(n)
		r.write("</" + tag + ">")
	case BlockQuoteKind:
		r.write("<blockquote>")
		r.renderChildren(n)
		r.write("</blockquote>")
	case ListKind:
		if n.Ordered() {
			if n.Start() != 1 {
				r.write(fmt.Sprintf(`<ol start="%d">`, n.Start()))
			} else {
				r.write("<ol>")
			}
		} else {
			r.write("<ul>")
		}
		r.renderChildren(n)
		if n.Ordered() {
			r.write("</ol>")
		} else {
			r.write("</ul>")
		}
	case ListItemKind:
		r.write("<li>")
		r.renderChildren(n)
		r.write("</li>")
	case ThematicBreakKind:
		r.write("<hr />")
	case HTMLBlockKind:
		r.write(n.Value())
	case CodeBlockKind:
		r.write("<pre><code")
		if lang := n.Language(); lang != "" {
			r.write(` class="language-`)
			r.write(escapeAttr(lang))
			r.write(`"`)
		}
		r.write(">")
		r.write(escapeText(n.Value()))
		r.write("</code></pre>")
	default:
		// Leaf text/inline nodes should never be encountered at block
		// position, but rendering them as inline keeps the function total.
		r.renderInline(n)
	}
}

func (r *renderer) renderInline(n *Node) {
	switch n.Kind() {
	case TextKind:
		r.write(r.renderTextValue(n.Value()))
	case EmphasisKind:
		r.write("<em>")
		r.renderInlineChildren(n)
		r.write("</em>")
	case StrongKind:
		r.write("<strong>")
		r.renderInlineChildren(n)
		r.write("</strong>")
	case CodeSpanKind:
		r.write("<code>")
		r.write(escapeText(n.Value()))
		r.write("</code>")
	case LineBreakKind:
		r.write("<br />")
	case RawHTMLKind:
		r.write(n.Value())
	case LinkKind:
		r.write(`<a href="`)
		r.write(escapeURL(r.resolveURL(n.URL())))
		r.write(`"`)
		if n.HasTitle() {
			r.write(` title="`)
			r.write(escapeAttr(n.Title()))
			r.write(`"`)
		}
		r.write(">")
		r.renderInlineChildren(n)
		r.write("</a>")
	case ImageKind:
		r.write(`<img src="`)
		r.write(escapeURL(r.resolveURL(n.URL())))
		r.write(`" alt="`)
		r.write(escapeAttr(n.Alt()))
		r.write(`"`)
		if n.HasTitle() {
			r.write(` title="`)
			r.write(escapeAttr(n.Title()))
			r.write(`"`)
		}
		r.write(" />")
	default:
		r.renderBlock(n)
	}
}

func (r *renderer) renderInlineChildren(n *Node) {
	for _, c := range n.Children() {
		r.renderInline(c)
	}
}

// renderTextValue applies the soft-break rendering mode before escaping. A
// soft break is stored as a single-space text node by the inline resolver,
// so SoftBreakAsNewline only takes effect on such a node.
func (r *renderer) renderTextValue(s string) string {
	if r.opts.SoftBreak == SoftBreakAsNewline && s == " " {
		return "\n"
	}
	return escapeText(s)
}

// resolveURL applies the AllowedURLSchemes gate, if configured.
func (r *renderer) resolveURL(url string) string {
	if r.opts.AllowedURLSchemes == nil {
		return url
	}
	scheme, hasScheme := urlScheme(url)
	if !hasScheme {
		return url
	}
	for _, allowed := range r.opts.AllowedURLSchemes {
		if strings.EqualFold(allowed, scheme) {
			return url
		}
	}
	return ""
}

// urlScheme extracts the scheme prefix of a URL, e.g. "https" from
// "https://example.com". It reports false if the destination has no scheme.
func urlScheme(url string) (string, bool) {
	i := strings.IndexByte(url, ':')
	if i <= 0 {
		return "", false
	}
	scheme := url[:i]
	for _, c := range scheme {
		if !(c == '+' || c == '-' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return "", false
		}
	}
	return scheme, true
}

// escapeText replaces &, <, >, ", ' with their HTML entities, per spec.md
// §4.6's escaping table. The standard library's html.EscapeString escapes "
// as &#34; rather than &quot;, so this copies the table by hand instead.
func escapeText(s string) string {
	var sb strings.Builder
	verbatimStart := 0
	for i, b := range []byte(s) {
		var entity string
		switch b {
		case '&':
			entity = "&amp;"
		case '\'':
			entity = "&#39;"
		case '<':
			entity = "&lt;"
		case '>':
			entity = "&gt;"
		case '"':
			entity = "&quot;"
		default:
			continue
		}
		sb.WriteString(s[verbatimStart:i])
		sb.WriteString(entity)
		verbatimStart = i + 1
	}
	sb.WriteString(s[verbatimStart:])
	return sb.String()
}

// escapeAttr uses the same escaping as escapeText; the renderer defines a
// single rule for both text and attribute contexts.
func escapeAttr(s string) string {
	return escapeText(s)
}

// escapeURL replaces only the double quote, per spec.md §4.6.
func escapeURL(s string) string {
	if !strings.ContainsRune(s, '"') {
		return s
	}
	return strings.ReplaceAll(s, `"`, "%22")
}
