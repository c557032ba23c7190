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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token
	}{
		{
			name:  "PlainText",
			input: "hello world",
			want:  []token{{kind: tokText, text: "hello world"}},
		},
		{
			name:  "Delimiters",
			input: "**bold** *em*",
			want: []token{
				{kind: tokDelim, text: "**"},
				{kind: tokText, text: "bold"},
				{kind: tokDelim, text: "**"},
				{kind: tokText, text: " "},
				{kind: tokDelim, text: "*"},
				{kind: tokText, text: "em"},
				{kind: tokDelim, text: "*"},
			},
		},
		{
			name:  "CodeSpan",
			input: "`code`",
			want:  []token{{kind: tokCodeSpan, text: "code"}},
		},
		{
			name:  "CodeSpanTrimsSingleSurroundingSpace",
			input: "` code `",
			want:  []token{{kind: tokCodeSpan, text: "code"}},
		},
		{
			name:  "UnmatchedBacktick",
			input: "`code",
			want:  []token{{kind: tokText, text: "`"}, {kind: tokText, text: "code"}},
		},
		{
			name:  "BackslashEscape",
			input: `\*not emphasis\*`,
			want: []token{
				{kind: tokText, text: "*"},
				{kind: tokText, text: "not emphasis"},
				{kind: tokText, text: "*"},
			},
		},
		{
			name:  "HardBreak",
			input: "line1\\\nline2",
			want: []token{
				{kind: tokText, text: "line1"},
				{kind: tokBreak},
				{kind: tokText, text: "line2"},
			},
		},
		{
			name:  "SoftBreak",
			input: "line1\nline2",
			want: []token{
				{kind: tokText, text: "line1"},
				{kind: tokSoftBreak},
				{kind: tokText, text: "line2"},
			},
		},
		{
			name:  "AutolinkURI",
			input: "<http://example.com>",
			want:  []token{{kind: tokAutolink, text: "http://example.com"}},
		},
		{
			name:  "AutolinkEmail",
			input: "<foo@example.com>",
			want:  []token{{kind: tokAutolink, text: "foo@example.com"}},
		},
		{
			name:  "LooseAngleBracketIsText",
			input: "a < b",
			want:  []token{{kind: tokText, text: "a < b"}},
		},
		{
			name:  "Brackets",
			input: "[text](url)",
			want: []token{
				{kind: tokLBracket, text: "["},
				{kind: tokText, text: "text"},
				{kind: tokRBracket, text: "]"},
				{kind: tokLParen, text: "("},
				{kind: tokText, text: "url"},
				{kind: tokRParen, text: ")"},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := tokenizeInline(test.input)
			if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(token{})); diff != "" {
				t.Errorf("tokenizeInline(%q) (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestTrimCodeSpanContent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"code", "code"},
		{" code ", "code"},
		{"  ", "  "},
		{" ", " "},
		{"", ""},
		{" a", " a"},
		{"a ", "a "},
	}
	for _, test := range tests {
		if got := trimCodeSpanContent(test.input); got != test.want {
			t.Errorf("trimCodeSpanContent(%q) = %q; want %q", test.input, got, test.want)
		}
	}
}
