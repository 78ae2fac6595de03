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
	"strconv"
	"strings"

	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// row is a single (non-blank) entry within a section of a tables file.
type row struct {
	text string
	span source.Span
}

// macroRow holds the fields parsed from a single macro name table row.
type macroRow struct {
	row
	name       string
	positional uint
	keywords   uint
	locals     uint
	mdtPtr     uint
	kpdtPtr    int
	sstPtr     uint
}

// reader accumulates the rows of each section whilst a tables file is read.
type reader struct {
	srcfile  *source.File
	format   Format
	sections map[string][]row
	errors   []source.SyntaxError
}

// Read parses a set of tables from the textual form produced by Write.  The
// given format determines how local-variable placeholders are numbered.
func Read(srcfile *source.File, format Format) (*Tables, []source.SyntaxError) {
	p := &reader{srcfile, format, make(map[string][]row), nil}
	//
	p.split()
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	return p.build()
}

// Split the file into its sections.  Only a zero-length line separates one
// section from the next; a line of whitespace is an (empty) entry.
func (p *reader) split() {
	var section string
	//
	for _, line := range p.srcfile.Lines() {
		text := line.String()
		//
		switch strings.TrimSpace(text) {
		case MNT_HEADER, MDT_HEADER, PNTAB_HEADER, KPDTAB_HEADER, EVNTAB_HEADER, SSNTAB_HEADER, SSTAB_HEADER:
			section = strings.TrimSpace(text)
			//
			if _, ok := p.sections[section]; ok {
				p.error(line.Span(), fmt.Sprintf("duplicate section %s", section))
			}
			//
			p.sections[section] = []row{}
		default:
			if text == "" {
				continue
			} else if section == "" {
				p.error(line.Span(), "expected section header")
				continue
			}
			//
			p.sections[section] = append(p.sections[section], row{text, line.Span()})
		}
	}
	//
	for _, s := range []string{MNT_HEADER, MDT_HEADER, PNTAB_HEADER, KPDTAB_HEADER, EVNTAB_HEADER, SSNTAB_HEADER,
		SSTAB_HEADER} {
		if _, ok := p.sections[s]; !ok {
			p.error(source.NewSpan(0, 0), fmt.Sprintf("missing section %s", s))
		}
	}
}

func (p *reader) build() (*Tables, []source.SyntaxError) {
	var (
		tables   = NewTables(p.format)
		macros   = p.macroRows()
		params   = p.listRows(PNTAB_HEADER, len(macros))
		locals   = p.listRows(EVNTAB_HEADER, len(macros))
		labelNms = p.listRows(SSNTAB_HEADER, len(macros))
	)
	//
	for _, r := range nonBlank(p.sections[MDT_HEADER]) {
		stmt, err := ParseStatement(strings.TrimSpace(r.text), p.format)
		if err != nil {
			p.error(r.span, err.Error())
		}
		//
		tables.AddStatement(stmt)
	}
	//
	for _, r := range nonBlank(p.sections[KPDTAB_HEADER]) {
		tables.AddDefault(parseDefault(r.text))
	}
	//
	for _, r := range nonBlank(p.sections[SSTAB_HEADER]) {
		if label, ok := parseLabel(r.text); ok {
			tables.AddLabel(label)
		} else {
			p.error(r.span, "malformed label entry")
		}
	}
	// Stop if anything went wrong thus far.
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	for i, mr := range macros {
		m := &Macro{
			Name:       mr.name,
			Positional: mr.positional,
			Params:     params[i],
			Locals:     locals[i],
			LabelNames: labelNms[i],
		}
		// Skeleton extends to where the next macro begins.
		m.Skeleton = p.extent(mr, mr.mdtPtr, i, macros, func(r macroRow) uint { return r.mdtPtr },
			uint(len(tables.skeleton)))
		m.Labels = p.extent(mr, mr.sstPtr, i, macros, func(r macroRow) uint { return r.sstPtr },
			uint(len(tables.labels)))
		//
		if mr.kpdtPtr >= 0 {
			m.Keywords = NewRange(uint(mr.kpdtPtr), uint(mr.kpdtPtr)+mr.keywords)
		} else if mr.keywords != 0 {
			p.error(mr.span, fmt.Sprintf("macro %s has %d keywords but no KPDTAB pointer", mr.name, mr.keywords))
			continue
		}
		//
		if uint(len(m.Locals)) != mr.locals {
			p.error(mr.span, fmt.Sprintf("macro %s expects %d local variables (found %d)", mr.name, mr.locals,
				len(m.Locals)))
		} else if err := tables.Define(m); err != nil {
			p.error(mr.span, err.Error())
		}
	}
	//
	if len(p.errors) == 0 {
		if err := tables.Validate(); err != nil {
			p.error(source.NewSpan(0, 0), err.Error())
		}
	}
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	log.Debugf("read %d macro(s), %d skeleton statement(s) from %s", len(tables.macros), len(tables.skeleton),
		p.srcfile.Filename())
	//
	return tables, nil
}

// Determine the extent of the region owned by the ith macro in one of the
// shared tables, given that its region ends where the next macro's begins.
func (p *reader) extent(mr macroRow, start uint, i int, macros []macroRow, ptr func(macroRow) uint,
	size uint) Range {
	end := size
	//
	if i+1 < len(macros) {
		end = ptr(macros[i+1])
	}
	//
	if start > end || end > size {
		p.error(mr.span, fmt.Sprintf("macro %s has invalid table pointer %d", mr.name, start))
		return NewRange(0, 0)
	}
	//
	return NewRange(start, end)
}

func (p *reader) macroRows() []macroRow {
	var rows []macroRow
	//
	for _, r := range nonBlank(p.sections[MNT_HEADER]) {
		if mr, err := parseMacroRow(r); err != nil {
			p.error(r.span, err.Error())
		} else {
			rows = append(rows, mr)
		}
	}
	//
	return rows
}

// Read the rows of a list section, of which there should be exactly one per
// macro.
func (p *reader) listRows(section string, n int) [][]string {
	var (
		rows  = p.sections[section]
		lists = make([][]string, n)
	)
	//
	if len(rows) != n {
		p.error(source.NewSpan(0, 0), fmt.Sprintf("section %s has %d entries (expected %d)", section, len(rows), n))
		return lists
	}
	//
	for i, r := range rows {
		text := strings.TrimSpace(r.text)
		//
		if section == PNTAB_HEADER {
			if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
				p.error(r.span, "malformed parameter list")
				continue
			}
			//
			for _, name := range strings.Split(text[1:len(text)-1], ", ") {
				if name = strings.TrimSpace(name); name != "" {
					lists[i] = append(lists[i], name)
				}
			}
		} else {
			lists[i] = strings.Fields(text)
		}
	}
	//
	return lists
}

func (p *reader) error(span source.Span, msg string) {
	p.errors = append(p.errors, *p.srcfile.SyntaxError(span, msg))
}

func parseMacroRow(r row) (macroRow, error) {
	var (
		mr     = macroRow{row: r}
		fields = make(map[string]string)
		err    error
	)
	//
	for _, field := range strings.Split(r.text, ",") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return mr, fmt.Errorf("malformed macro entry \"%s\"", strings.TrimSpace(field))
		}
		//
		fields[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	//
	mr.name = fields["Name"]
	if mr.name == "" {
		return mr, fmt.Errorf("macro entry has no name")
	}
	//
	for _, f := range []struct {
		key string
		ptr *uint
	}{{"PosParams", &mr.positional}, {"KeyParams", &mr.keywords}, {"ExpVars", &mr.locals},
		{"MDT Ptr", &mr.mdtPtr}, {"SST Ptr", &mr.sstPtr}} {
		if *f.ptr, err = parseUint(fields, f.key); err != nil {
			return mr, err
		}
	}
	//
	kpdt, ok := fields["KPDTAB Ptr"]
	if !ok {
		return mr, fmt.Errorf("macro entry missing KPDTAB Ptr")
	} else if mr.kpdtPtr, err = strconv.Atoi(kpdt); err != nil || mr.kpdtPtr < -1 {
		return mr, fmt.Errorf("invalid KPDTAB Ptr \"%s\"", kpdt)
	}
	//
	return mr, nil
}

func parseUint(fields map[string]string, key string) (uint, error) {
	val, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("macro entry missing %s", key)
	}
	//
	n, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s \"%s\"", key, val)
	}
	//
	return uint(n), nil
}

// Parse a keyword default entry.  An entry without a value has the default
// "null".
func parseDefault(text string) KeywordDefault {
	kv := strings.SplitN(strings.TrimSpace(text), "=", 2)
	//
	if len(kv) == 1 {
		return KeywordDefault{strings.TrimSpace(kv[0]), "null"}
	}
	//
	return KeywordDefault{strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])}
}

func parseLabel(text string) (LabelBinding, bool) {
	i := strings.LastIndex(text, ":")
	if i < 0 {
		return LabelBinding{}, false
	}
	//
	offset, err := strconv.ParseUint(strings.TrimSpace(text[i+1:]), 10, 32)
	if err != nil {
		return LabelBinding{}, false
	}
	//
	return LabelBinding{strings.TrimSpace(text[:i]), uint(offset)}, true
}

func nonBlank(rows []row) []row {
	var result []row
	//
	for _, r := range rows {
		if strings.TrimSpace(r.text) != "" {
			result = append(result, r)
		}
	}
	//
	return result
}
