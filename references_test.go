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

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Foo", "foo"},
		{"  Foo   Bar  ", "foo bar"},
		{"foo\tbar", "foo bar"},
		{"FOO", "foo"},
		{"", ""},
	}
	for _, test := range tests {
		if got := normalizeLabel(test.label); got != test.want {
			t.Errorf("normalizeLabel(%q) = %q; want %q", test.label, got, test.want)
		}
	}
}

func TestExtractReferenceDefinitions(t *testing.T) {
	refs := ReferenceMap{}
	retained := extractReferenceDefinitions(`[foo]: /url "title"`+"\n"+"not a definition", refs)
	if retained != "not a definition" {
		t.Errorf("retained = %q; want %q", retained, "not a definition")
	}
	def, ok := refs["foo"]
	if !ok {
		t.Fatal(`refs["foo"] missing`)
	}
	if def.Destination != "/url" || def.Title != "title" || !def.TitlePresent {
		t.Errorf("def = %+v; want {/url title true}", def)
	}
}

func TestExtractReferenceDefinitionsFirstWins(t *testing.T) {
	refs := ReferenceMap{}
	extractReferenceDefinitions("[a]: /first", refs)
	extractReferenceDefinitions("[a]: /second", refs)
	if got := refs["a"].Destination; got != "/first" {
		t.Errorf("refs[a].Destination = %q; want /first (first definition wins)", got)
	}
}

func TestExtractReferenceDefinitionsNoTitle(t *testing.T) {
	refs := ReferenceMap{}
	extractReferenceDefinitions("[a]: /url", refs)
	def := refs["a"]
	if def.TitlePresent {
		t.Errorf("def.TitlePresent = true; want false")
	}
	if def.Destination != "/url" {
		t.Errorf("def.Destination = %q; want /url", def.Destination)
	}
}

func TestExtractReferenceDefinitionsAngleBracketURL(t *testing.T) {
	refs := ReferenceMap{}
	extractReferenceDefinitions("[a]: <https://example.com/x y>", refs)
	if got := refs["a"].Destination; got != "https://example.com/x y" {
		t.Errorf("refs[a].Destination = %q; want %q", got, "https://example.com/x y")
	}
}

func TestMatchReference(t *testing.T) {
	refs := ReferenceMap{"foo": LinkDefinition{Destination: "/url"}}
	if !refs.MatchReference("foo") {
		t.Error(`MatchReference("foo") = false; want true`)
	}
	if refs.MatchReference("bar") {
		t.Error(`MatchReference("bar") = true; want false`)
	}
}
