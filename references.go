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

	"golang.org/x/text/cases"
)

// labelFolder performs Unicode case folding for reference label matching,
// so that labels differing only by case in scripts beyond ASCII (e.g. the
// Turkish dotless i, German ß) still collide correctly. cases.Fold is safe
// for concurrent use, so one package-level instance is enough.
var labelFolder = cases.Fold()

// LinkDefinition is the data of a link reference definition:
//
//	[label]: destination "title"
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
}

// ReferenceMap is a mapping of normalized labels to link definitions,
// collected by the block phase and attached to a document's root node.
type ReferenceMap map[string]LinkDefinition

// MatchReference reports whether the normalized label appears in the map.
func (m ReferenceMap) MatchReference(normalizedLabel string) bool {
	_, ok := m[normalizedLabel]
	return ok
}

// normalizeLabel trims, case-folds, and collapses internal whitespace runs
// of a reference label to a single space.
func normalizeLabel(label string) string {
	fields := strings.Fields(label)
	return labelFolder.String(strings.Join(fields, " "))
}

// refDefLine matches a single link reference definition line, per the
// block-close extraction rule: a bracketed label, a colon, a destination
// (bare or angle-bracketed), and an optional title in one of three quoting
// styles.
var refDefLine = regexp.MustCompile(`^ {0,3}\[([^\]]+)\]:\s*(?:<(.*?)>|(\S+))\s*(?:"([^"]*)"|'([^']*)'|\(([^)]*)\))?\s*$`)

// extractReferenceDefinitions scans a closing paragraph's raw buffer
// line-by-line for link reference definitions, inserting any found into
// refs (first definition wins on a duplicate label) and returning the
// retained (non-definition) lines joined by LF. An empty return value means
// the paragraph was fully consumed and should be deleted.
func extractReferenceDefinitions(raw string, refs ReferenceMap) string {
	lines := strings.Split(raw, "\n")
	retained := lines[:0:0]
	for _, line := range lines {
		idx := refDefLine.FindStringSubmatchIndex(line)
		if idx == nil {
			retained = append(retained, line)
			continue
		}
		group := func(n int) (string, bool) {
			if idx[2*n] < 0 {
				return "", false
			}
			return line[idx[2*n]:idx[2*n+1]], true
		}
		labelRaw, _ := group(1)
		label := normalizeLabel(labelRaw)
		url, urlPresent := group(2)
		if !urlPresent {
			url, urlPresent = group(3)
		}
		if label == "" || !urlPresent {
			retained = append(retained, line)
			continue
		}
		if _, exists := refs[label]; exists {
			continue
		}
		def := LinkDefinition{Destination: url}
		for _, n := range []int{4, 5, 6} {
			if title, present := group(n); present {
				def.Title, def.TitlePresent = title, true
				break
			}
		}
		refs[label] = def
	}
	return strings.Join(retained, "\n")
}
