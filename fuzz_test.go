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

import "testing"

// FuzzConvert checks the totality property (§8 of this package's governing
// specification): Convert must return for every input and never panic,
// regardless of how malformed the Markdown is.
func FuzzConvert(f *testing.F) {
	seeds := []string{
		"",
		"# Hello",
		"**bold** and *em*",
		"```js\nlet x=1;\n```",
		"- a\n- b\n",
		"[foo]: /u \"t\"\n",
		"***x***",
		"<http://example.com>",
		"    code\n",
		"> quote\n> more\n",
		"*unterminated",
		"`unterminated",
		"<div>\nbody\n</div>\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, source string) {
		out, err := Convert(source)
		if err != nil {
			t.Fatalf("Convert(%q) returned error: %v", source, err)
		}
		_ = out
	})
}

// FuzzParseDocument exercises the block and inline phases directly,
// independent of rendering.
func FuzzParseDocument(f *testing.F) {
	f.Add("# Heading\n\nParagraph *text*.\n")
	f.Fuzz(func(t *testing.T, source string) {
		doc := ParseDocument(source)
		if doc == nil {
			t.Fatal("ParseDocument returned nil")
		}
		if doc.Kind() != DocumentKind {
			t.Fatalf("doc.Kind() = %v; want DocumentKind", doc.Kind())
		}
	})
}
