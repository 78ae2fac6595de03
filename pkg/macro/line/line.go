// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package line

import (
	"strings"

	"github.com/consensys/go-macro/pkg/util/source"
)

// LABEL_MARKER is the leading character which identifies a symbolic label,
// both in macro headers and in macro bodies.
const LABEL_MARKER = '.'

// END_OF signals the end of a line.
const END_OF uint = 0

// WHITESPACE signals a run of spaces or tabs.
const WHITESPACE uint = 1

// COMMA signals a single comma.
const COMMA uint = 2

// WORD signals a maximal run of characters which are neither whitespace nor
// commas.
const WORD uint = 3

// Rule for describing whitespace
var whitespace source.Scanner[rune] = source.Many(WHITESPACE, ' ', '\t', '\r')

var scanner source.Scanner[rune] = source.Or(
	source.One(COMMA, ','),
	whitespace,
	source.ManyNot(WORD, ' ', '\t', '\r', ','),
	source.Eof[rune](END_OF))

// Line is the result of splitting a raw source line into its label, primary
// token and operand group.
type Line struct {
	// Label is the leading label (with its marker), or empty if none.
	Label string
	// Op is the primary token (e.g. an instruction mnemonic or macro name).
	Op string
	// Operands holds the comma-separated pieces of the remaining words, in
	// order.
	Operands []string
	// Words holds every whitespace-delimited word of the line.
	Words []string
}

// Split a raw source line into a label, primary token and operand group.  A
// line whose first word carries the label marker is treated as having a
// label, in which case the primary token is the second word.
func Split(text string) Line {
	var (
		words = Fields(text)
		line  = Line{Words: words}
	)
	//
	if len(words) > 0 && IsLabel(words[0]) {
		line.Label = words[0]
		words = words[1:]
	}
	//
	if len(words) > 0 {
		line.Op = words[0]
		//
		for _, w := range words[1:] {
			line.Operands = append(line.Operands, Pieces(w)...)
		}
	}
	//
	return line
}

// Fields splits a line into its whitespace-delimited words.  Commas are
// retained within the words.
func Fields(text string) []string {
	var (
		words   []string
		current strings.Builder
		inWord  bool
	)
	//
	lexer := source.NewLexer([]rune(text), scanner)
	//
	for _, token := range lexer.Collect() {
		switch token.Kind {
		case WORD, COMMA:
			current.WriteString(string(lexer.Items(token)))
			inWord = true
		default:
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		}
	}
	//
	return words
}

// Pieces splits a single word into its comma-separated pieces.  Empty pieces
// are retained, so "X,,Y" gives three pieces.
func Pieces(word string) []string {
	var (
		pieces []string
		runes  = []rune(word)
		lexer  = source.NewLexer(runes, scanner)
		last   = 0
	)
	//
	for _, token := range lexer.Collect() {
		switch token.Kind {
		case COMMA, END_OF:
			pieces = append(pieces, string(runes[last:token.Span.Start()]))
			last = token.Span.End()
		}
	}
	//
	return pieces
}

// IsLabel determines whether a given word carries the label marker.
func IsLabel(word string) bool {
	return len(word) > 0 && word[0] == LABEL_MARKER
}
