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
package expand

import (
	"io"
	"strings"

	"github.com/consensys/go-macro/pkg/macro/line"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// NULL is the value bound to a parameter for which no argument was given, and
// for which there is no keyword default.
const NULL = "null"

// Options controls how invocations are recognised and expanded.
type Options struct {
	// Start is the marker line which opens the region in which invocations are
	// recognised (compared case-insensitively).
	Start string `toml:"start"`
	// End is the marker line which closes the region.
	End string `toml:"end"`
	// JoinOperands concatenates all words following the macro name before
	// splitting them into arguments, rather than reading only the first.
	JoinOperands bool `toml:"join-operands"`
	// SkipDeclarations omits LCL declarations from the expanded output, so
	// that it contains plain instructions only.
	SkipDeclarations bool `toml:"skip-declarations"`
}

// DefaultOptions returns the default expansion options.
func DefaultOptions() Options {
	return Options{Start: "START", End: "END"}
}

// Expander instantiates macro invocations using a given set of tables.
type Expander struct {
	tables *table.Tables
	opts   Options
	// Argument-binding log, one record per expanded invocation.
	bindings []Binding
}

// NewExpander constructs a new expander for a given set of tables.
func NewExpander(tables *table.Tables, opts Options) *Expander {
	return &Expander{tables, opts, nil}
}

// Bindings returns the argument-binding log accumulated so far.
func (e *Expander) Bindings() []Binding {
	return e.bindings
}

// Expand every invocation within the region of a given source file, writing
// the resulting lines to a writer.  Lines outside the region, and lines which
// do not invoke a known macro, are written unchanged.
func (e *Expander) Expand(srcfile *source.File, w io.Writer) error {
	var (
		builder strings.Builder
		inside  bool
		lineno  uint
	)
	//
	for _, l := range srcfile.Lines() {
		var (
			raw  = l.String()
			text = strings.TrimSpace(raw)
		)
		// Region markers are not counted.
		switch {
		case strings.EqualFold(text, e.opts.Start):
			inside = true
		case strings.EqualFold(text, e.opts.End):
			inside = false
		default:
			lineno++
			//
			if inside {
				if lines, ok := e.ExpandLine(text, lineno); ok {
					for _, expanded := range lines {
						builder.WriteString(expanded)
						builder.WriteString("\n")
					}
					//
					continue
				}
			}
		}
		//
		builder.WriteString(raw)
		builder.WriteString("\n")
	}
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}

// ExpandLine expands a single line, if it invokes a known macro.  The given
// line number is recorded in the argument-binding log.  If the line does not
// invoke a known macro, then false is returned.
func (e *Expander) ExpandLine(text string, lineno uint) ([]string, bool) {
	words := line.Fields(text)
	//
	if len(words) == 0 {
		return nil, false
	}
	//
	m := e.tables.Lookup(words[0])
	if m.IsEmpty() {
		return nil, false
	}
	//
	var (
		macro  = m.Unwrap()
		args   = e.arguments(words)
		values = Bind(e.tables, macro, args)
		lines  []string
	)
	//
	for _, stmt := range e.tables.Skeleton(macro) {
		if e.opts.SkipDeclarations && stmt.IsDeclaration() {
			continue
		}
		//
		expanded := stmt.Substitute(func(i uint) string {
			return values[macro.Params[i]]
		}, func(i uint) string {
			return table.StripMarker(macro.Locals[i])
		})
		//
		lines = append(lines, strings.TrimSpace(expanded))
	}
	//
	e.bindings = append(e.bindings, Binding{macro.Name, args, lineno})
	//
	log.Debugf("line %d: expanded %s%v into %d line(s)", lineno, macro.Name, args, len(lines))
	//
	return lines, true
}

// Determine the arguments of an invocation.  By default, only the first word
// after the macro name is considered.
func (e *Expander) arguments(words []string) []string {
	switch {
	case len(words) < 2:
		return nil
	case e.opts.JoinOperands:
		return line.Pieces(strings.Join(words[1:], ""))
	default:
		return line.Pieces(words[1])
	}
}

// Bind the actual arguments of an invocation to the formal parameters of a
// macro, producing a value for every formal parameter name.  An argument of
// the form NAME=VALUE binds VALUE to the parameter in its position.  Any
// parameter left without a value takes its keyword default (if it has one), or
// NULL otherwise.
func Bind(tables *table.Tables, m *table.Macro, args []string) map[string]string {
	var (
		values = make(map[string]string)
		n      = min(m.Positional, uint(len(m.Params)))
	)
	//
	for _, name := range m.Params {
		values[name] = NULL
	}
	//
	for i := uint(0); i < n && i < uint(len(args)); i++ {
		if k := strings.Index(args[i], "="); k >= 0 {
			values[m.Params[i]] = args[i][k+1:]
		} else if arg := strings.TrimSpace(args[i]); arg != "" {
			values[m.Params[i]] = arg
		} else {
			values[m.Params[i]] = NULL
		}
	}
	//
	for _, kpd := range tables.KeywordDefaults(m) {
		if v, ok := values[kpd.Param]; !ok || v == NULL {
			values[kpd.Param] = kpd.Value
		}
	}
	//
	return values
}
