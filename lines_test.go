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

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"Empty", "", []string{""}},
		{"NoTrailingNewline", "a", []string{"a"}},
		{"TrailingNewline", "a\n", []string{"a", ""}},
		{"LF", "a\nb\nc", []string{"a", "b", "c"}},
		{"CRLF", "a\r\nb\r\nc", []string{"a", "b", "c"}},
		{"LoneCR", "a\rb\rc", []string{"a", "b", "c"}},
		{"MixedEndings", "a\r\nb\nc\rd", []string{"a", "b", "c", "d"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := splitLines(test.source)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("splitLines(%q) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestIsBlankLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t", true},
		{" \t ", true},
		{"a", false},
		{"  a", false},
		{"a  ", false},
	}
	for _, test := range tests {
		if got := isBlankLine(test.line); got != test.want {
			t.Errorf("isBlankLine(%q) = %t; want %t", test.line, got, test.want)
		}
	}
}
