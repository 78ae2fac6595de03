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
package define

import (
	"strings"

	"github.com/consensys/go-macro/pkg/macro/line"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// MACRO marks the start of a macro definition.
const MACRO = "MACRO"

// MEND marks the end of a macro definition.
const MEND = "MEND"

// OUTSIDE indicates the builder is between macro definitions.
const OUTSIDE = uint(0)

// HEADER indicates the next line is the header of a macro definition.
const HEADER = uint(1)

// BODY indicates the builder is within the body of a macro definition.
const BODY = uint(2)

// Options controls how macro definitions are interpreted.  The zero value
// counts dot-prefixed header tokens twice.
type Options struct {
	// Format used for placeholders in the resulting tables.
	Format table.Format `toml:"format"`
	// DotParamsOnce records a dot-prefixed header token as a parameter once,
	// rather than both as a whole token and as a comma-separated piece.
	DotParamsOnce bool `toml:"dot-params-once"`
}

// Build scans a given source file for macro definitions and constructs the
// corresponding tables.  Lines outside of MACRO...MEND blocks are ignored.  Any
// error is fatal, hence at most one error is returned.
func Build(srcfile *source.File, opts Options) (*table.Tables, []source.SyntaxError) {
	b := &builder{srcfile: srcfile, opts: opts, tables: table.NewTables(opts.Format)}
	//
	for _, l := range srcfile.Lines() {
		if err := b.process(l); err != nil {
			return nil, []source.SyntaxError{*err}
		}
	}
	//
	if b.state != OUTSIDE {
		return nil, b.errors(b.start.Span(), "unterminated macro block")
	}
	//
	return b.tables, nil
}

type builder struct {
	srcfile *source.File
	opts    Options
	tables  *table.Tables
	// Current state
	state uint
	// Line on which the current macro began
	start source.Line
	// Header line of the current macro
	head source.Line
	// Macro currently being defined
	macro *table.Macro
	// Index of first keyword default for current macro
	kpdStart uint
	// Header pieces seen for the current macro
	seen map[string]bool
}

func (b *builder) process(l source.Line) *source.SyntaxError {
	var (
		text  = strings.TrimSpace(l.String())
		words = line.Fields(text)
		first string
	)
	//
	if len(words) > 0 {
		first = words[0]
	}
	//
	switch b.state {
	case OUTSIDE:
		if first == MACRO {
			b.state = HEADER
			b.start = l
		} else if first == MEND {
			return b.error(l.Span(), "MEND without matching MACRO")
		}
	case HEADER:
		if len(words) == 0 || first == MEND || first == MACRO {
			return b.error(l.Span(), "malformed header line")
		}
		//
		b.head = l
		b.state = BODY
		//
		return b.header(words)
	case BODY:
		switch first {
		case "":
			// skip blank lines
		case MACRO:
			return b.error(l.Span(), "nested macro definition")
		case MEND:
			b.state = OUTSIDE
			return b.end()
		case table.DECLARATION:
			b.declaration(text)
		default:
			return b.body(l, words)
		}
	}
	//
	return nil
}

// Process the header of a macro definition.  The first word is the macro name,
// and every subsequent word contributes one or more parameters.
func (b *builder) header(words []string) *source.SyntaxError {
	b.macro = &table.Macro{Name: words[0]}
	b.kpdStart = uint(len(b.tables.Defaults()))
	b.seen = make(map[string]bool)
	//
	skeleton := uint(len(b.tables.Arena()))
	b.macro.Skeleton = table.NewRange(skeleton, skeleton)
	labels := uint(len(b.tables.Labels()))
	b.macro.Labels = table.NewRange(labels, labels)
	//
	for _, word := range words[1:] {
		if line.IsLabel(word) {
			b.tables.AddLabel(table.LabelBinding{Name: word, Offset: skeleton})
			//
			if !b.opts.DotParamsOnce {
				b.macro.Params = append(b.macro.Params, word)
			}
		}
		//
		for _, piece := range line.Pieces(word) {
			var name = piece
			//
			if piece == "" {
				continue
			} else if kv := strings.SplitN(piece, "=", 2); len(kv) == 2 {
				name = kv[0]
				b.tables.AddDefault(table.KeywordDefault{Param: kv[0], Value: kv[1]})
			}
			//
			// Names are compared without markers, as the tables file
			// does not retain them.
			if b.seen[table.StripMarker(name)] {
				return b.error(b.head.Span(), "duplicate parameter "+name)
			}
			//
			b.seen[table.StripMarker(name)] = true
			b.macro.Params = append(b.macro.Params, name)
		}
	}
	//
	return nil
}

// Process a local variable declaration.  Each declared name gives rise to its
// own skeleton statement, in which every occurrence of that name after the
// directive is replaced by a placeholder.  The directive itself is never
// rewritten, so a local such as C cannot corrupt it.
func (b *builder) declaration(text string) {
	rest := text[len(table.DECLARATION):]
	//
	for _, name := range strings.Split(rest, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		//
		b.macro.Locals = append(b.macro.Locals, name)
		//
		var (
			index  = table.LocalRef(uint(len(b.macro.Locals) - 1))
			parts  = strings.Split(rest, name)
			tokens = []table.Token{table.Literal(table.DECLARATION + parts[0])}
		)
		//
		for _, part := range parts[1:] {
			tokens = append(tokens, index, table.Literal(part))
		}
		//
		b.tables.AddStatement(table.NewStatement(true, tokens...))
	}
}

// Process a body line.  Labels are recorded against the offset of the
// statement being constructed, whilst all other words are split into pieces
// which are either placeholders or literal text.  A statement which would
// begin with the LCL directive is rejected, since it would be read back as a
// declaration.
func (b *builder) body(l source.Line, words []string) *source.SyntaxError {
	var (
		tokens []table.Token
		labels []string
		offset = uint(len(b.tables.Arena()))
	)
	//
	for _, word := range words {
		if line.IsLabel(word) {
			name := word[1:]
			labels = append(labels, name)
			b.macro.LabelNames = append(b.macro.LabelNames, name)
			b.tables.AddLabel(table.LabelBinding{Name: name, Offset: offset})
			//
			continue
		} else if len(tokens) > 0 {
			tokens = append(tokens, table.Literal(" "))
		}
		//
		for _, piece := range line.Pieces(word) {
			if i, ok := b.macro.ParamIndex(piece); ok {
				tokens = append(tokens, table.Literal(" "), table.ParamRef(i))
			} else if i, ok := b.macro.LocalIndex(piece); ok {
				tokens = append(tokens, table.Literal(" "), table.LocalRef(i))
			} else {
				tokens = append(tokens, table.Literal(piece))
			}
		}
	}
	//
	stmt := finish(tokens, labels)
	//
	if fields := strings.Fields(stmt.String()); len(fields) > 0 && fields[0] == table.DECLARATION {
		return b.error(l.Span(), "LCL declaration must begin its line")
	} else if !stmt.IsEmpty() {
		b.tables.AddStatement(stmt)
	}
	//
	return nil
}

// Complete a body statement by collapsing whitespace, trimming both ends, and
// removing any remnants of the line's labels.
func finish(tokens []table.Token, labels []string) table.Statement {
	merged := table.NewStatement(false, tokens...).Tokens()
	//
	for i := range merged {
		if merged[i].Kind != table.LITERAL {
			continue
		}
		//
		text := merged[i].Text
		for _, l := range labels {
			text = strings.ReplaceAll(text, string(line.LABEL_MARKER)+l, "")
		}
		//
		text = collapse(text)
		//
		if i == 0 {
			text = strings.TrimLeft(text, " ")
		}
		//
		if i == len(merged)-1 {
			text = strings.TrimRight(text, " ")
		}
		//
		merged[i].Text = text
	}
	//
	return table.NewStatement(false, merged...)
}

// Collapse runs of spaces into a single space.
func collapse(text string) string {
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	//
	return text
}

// End the current macro definition, registering it with the tables.
func (b *builder) end() *source.SyntaxError {
	m := b.macro
	m.Positional = uint(len(m.Params))
	m.Skeleton = table.NewRange(m.Skeleton.Start(), uint(len(b.tables.Arena())))
	m.Keywords = table.NewRange(b.kpdStart, uint(len(b.tables.Defaults())))
	m.Labels = table.NewRange(m.Labels.Start(), uint(len(b.tables.Labels())))
	//
	if err := b.tables.Define(m); err != nil {
		return b.error(b.head.Span(), err.Error())
	}
	//
	log.Debugf("defined macro %s with %d parameter(s), %d keyword(s), %d local(s), skeleton %s", m.Name,
		len(m.Params), m.Keywords.Len(), len(m.Locals), m.Skeleton.String())
	//
	b.macro = nil
	//
	return nil
}

func (b *builder) error(span source.Span, msg string) *source.SyntaxError {
	return b.srcfile.SyntaxError(span, msg)
}

func (b *builder) errors(span source.Span, msg string) []source.SyntaxError {
	return []source.SyntaxError{*b.error(span, msg)}
}
