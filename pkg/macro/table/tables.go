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
package table

import (
	"fmt"

	"github.com/consensys/go-macro/pkg/util"
)

// Range identifies a contiguous region [start,end) of one of the shared tables
// (e.g. the skeleton arena).
type Range struct {
	start uint
	end   uint
}

// NewRange constructs a new range, whilst checking it is well-formed.
func NewRange(start uint, end uint) Range {
	if start > end {
		panic(fmt.Sprintf("invalid range [%d,%d)", start, end))
	}
	//
	return Range{start, end}
}

// Start returns the first index of this range.
func (r Range) Start() uint {
	return r.start
}

// End returns one past the last index of this range.
func (r Range) End() uint {
	return r.end
}

// Len returns the number of entries covered by this range.
func (r Range) Len() uint {
	return r.end - r.start
}

// Contains checks whether a given index falls within this range.
func (r Range) Contains(index uint) bool {
	return r.start <= index && index < r.end
}

// String returns a suitable string representation of this range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.start, r.end)
}

// KeywordDefault associates a keyword parameter with its default value.
type KeywordDefault struct {
	Param string
	Value string
}

// LabelBinding associates a symbolic label with an offset into the skeleton
// arena.  Label bindings are only used at definition time.
type LabelBinding struct {
	Name   string
	Offset uint
}

// Macro describes a single macro definition.  A macro owns ranges into the
// shared tables of the enclosing Tables, rather than the entries themselves.
type Macro struct {
	// Name of this macro.
	Name string
	// Number of positional parameters recorded for this macro.
	Positional uint
	// Formal parameter names, in declaration order.
	Params []string
	// Local variable names, in declaration order.
	Locals []string
	// Names of labels appearing within the body, in order of appearance.
	LabelNames []string
	// Region of the skeleton arena owned by this macro.
	Skeleton Range
	// Region of the keyword default table owned by this macro.
	Keywords Range
	// Region of the label table owned by this macro.
	Labels Range
}

// ParamIndex returns the index of the first formal parameter with the given
// name, or false if there is none.
func (m *Macro) ParamIndex(name string) (uint, bool) {
	return indexOf(m.Params, name)
}

// LocalIndex returns the index of the first local variable with the given
// name, or false if there is none.
func (m *Macro) LocalIndex(name string) (uint, bool) {
	return indexOf(m.Locals, name)
}

// HasKeywords determines whether this macro has any keyword parameters.
func (m *Macro) HasKeywords() bool {
	return m.Keywords.Len() > 0
}

// KeywordPointer returns the index of the first keyword default owned by this
// macro, or -1 if it has none.
func (m *Macro) KeywordPointer() int {
	if m.HasKeywords() {
		return int(m.Keywords.start)
	}
	//
	return -1
}

// Tables holds the complete set of tables produced by the definition phase and
// consumed by the expansion phase.  Entries are appended in declaration order,
// and each macro owns a contiguous region of each shared table.
type Tables struct {
	// Format used when rendering or parsing placeholders.
	Format Format
	// Macro definitions in declaration order.
	macros []*Macro
	// Maps macro names to their position in macros.
	index map[string]uint
	// Skeleton arena, partitioned into per-macro ranges.
	skeleton []Statement
	// Keyword default table.
	defaults []KeywordDefault
	// Label table.
	labels []LabelBinding
}

// NewTables constructs an empty set of tables using a given placeholder
// format.
func NewTables(format Format) *Tables {
	return &Tables{format, nil, make(map[string]uint), nil, nil, nil}
}

// Macros returns the macro definitions in declaration order.
func (t *Tables) Macros() []*Macro {
	return t.macros
}

// Lookup a macro by name.
func (t *Tables) Lookup(name string) util.Option[*Macro] {
	if i, ok := t.index[name]; ok {
		return util.Some(t.macros[i])
	}
	//
	return util.None[*Macro]()
}

// Arena returns the complete skeleton arena.
func (t *Tables) Arena() []Statement {
	return t.skeleton
}

// Defaults returns the complete keyword default table.
func (t *Tables) Defaults() []KeywordDefault {
	return t.defaults
}

// Labels returns the complete label table.
func (t *Tables) Labels() []LabelBinding {
	return t.labels
}

// Skeleton returns the skeleton statements owned by a given macro.
func (t *Tables) Skeleton(m *Macro) []Statement {
	return slice(t.skeleton, m.Skeleton)
}

// KeywordDefaults returns the keyword defaults owned by a given macro.
func (t *Tables) KeywordDefaults(m *Macro) []KeywordDefault {
	return slice(t.defaults, m.Keywords)
}

// LabelBindings returns the label bindings owned by a given macro.
func (t *Tables) LabelBindings(m *Macro) []LabelBinding {
	return slice(t.labels, m.Labels)
}

// AddStatement appends a statement to the skeleton arena, returning its
// offset.
func (t *Tables) AddStatement(stmt Statement) uint {
	t.skeleton = append(t.skeleton, stmt)
	return uint(len(t.skeleton) - 1)
}

// AddDefault appends an entry to the keyword default table, returning its
// offset.
func (t *Tables) AddDefault(kpd KeywordDefault) uint {
	t.defaults = append(t.defaults, kpd)
	return uint(len(t.defaults) - 1)
}

// AddLabel appends an entry to the label table, returning its offset.
func (t *Tables) AddLabel(label LabelBinding) uint {
	t.labels = append(t.labels, label)
	return uint(len(t.labels) - 1)
}

// Define registers a new macro.  The macro's skeleton range must begin exactly
// where the previous macro's range ended, and it must not share its name with
// any existing macro.
func (t *Tables) Define(m *Macro) error {
	var start uint
	//
	if n := len(t.macros); n > 0 {
		start = t.macros[n-1].Skeleton.end
	}
	//
	if _, ok := t.index[m.Name]; ok {
		return fmt.Errorf("duplicate macro %s", m.Name)
	} else if m.Skeleton.start != start {
		return fmt.Errorf("macro %s skeleton starts at %d (expected %d)", m.Name, m.Skeleton.start, start)
	} else if m.Skeleton.end > uint(len(t.skeleton)) {
		return fmt.Errorf("macro %s skeleton %s exceeds arena", m.Name, m.Skeleton.String())
	} else if m.Keywords.end > uint(len(t.defaults)) {
		return fmt.Errorf("macro %s keywords %s exceed table", m.Name, m.Keywords.String())
	} else if m.Labels.end > uint(len(t.labels)) {
		return fmt.Errorf("macro %s labels %s exceed table", m.Name, m.Labels.String())
	}
	//
	t.index[m.Name] = uint(len(t.macros))
	t.macros = append(t.macros, m)
	//
	return nil
}

// Validate checks the invariants of these tables.  Specifically, that the
// skeleton arena and keyword default table are partitioned without gaps, that
// every keyword default names a parameter of its owning macro, and that every
// placeholder refers to a parameter or local variable of its owning macro.
func (t *Tables) Validate() error {
	var next, kpd uint
	//
	for _, m := range t.macros {
		if m.Skeleton.start != next {
			return fmt.Errorf("macro %s skeleton %s not contiguous", m.Name, m.Skeleton.String())
		}
		//
		next = m.Skeleton.end
		//
		if m.HasKeywords() {
			if m.Keywords.start != kpd {
				return fmt.Errorf("macro %s keyword defaults %s not contiguous", m.Name, m.Keywords.String())
			}
			//
			kpd = m.Keywords.end
		}
		//
		for _, d := range t.KeywordDefaults(m) {
			if _, ok := m.ParamIndex(d.Param); !ok {
				return fmt.Errorf("macro %s has no keyword parameter %s", m.Name, d.Param)
			}
		}
		//
		for i, stmt := range t.Skeleton(m) {
			if err := checkPlaceholders(m, stmt); err != nil {
				return fmt.Errorf("statement %d: %w", m.Skeleton.start+uint(i), err)
			}
		}
	}
	//
	if next != uint(len(t.skeleton)) {
		return fmt.Errorf("skeleton arena has %d unowned statements", uint(len(t.skeleton))-next)
	} else if kpd != uint(len(t.defaults)) {
		return fmt.Errorf("keyword default table has %d unowned entries", uint(len(t.defaults))-kpd)
	}
	//
	return nil
}

func checkPlaceholders(m *Macro, stmt Statement) error {
	for _, tok := range stmt.Tokens() {
		switch {
		case tok.Kind == PARAM_REF && tok.Index >= uint(len(m.Params)):
			return fmt.Errorf("macro %s has no parameter %d", m.Name, tok.Index+1)
		case tok.Kind == LOCAL_REF && tok.Index >= uint(len(m.Locals)):
			return fmt.Errorf("macro %s has no local variable %d", m.Name, tok.Index+1)
		}
	}
	//
	return nil
}

func slice[T any](items []T, r Range) []T {
	if r.end > uint(len(items)) {
		panic(fmt.Sprintf("range %s out-of-bounds (%d)", r.String(), len(items)))
	}
	//
	return items[r.start:r.end]
}

func indexOf(items []string, name string) (uint, bool) {
	for i, n := range items {
		if n == name {
			return uint(i), true
		}
	}
	//
	return 0, false
}
