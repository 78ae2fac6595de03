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
	"io"
	"strings"
)

// PARAM_MARKER is the leading character of parameter and local variable names.
// This is stripped from names when tables are written.
const PARAM_MARKER = "&"

// MNT_HEADER introduces the macro name table.
const MNT_HEADER = "MNT:"

// MDT_HEADER introduces the skeleton arena (macro definition table).
const MDT_HEADER = "MDT:"

// PNTAB_HEADER introduces the formal parameter lists.
const PNTAB_HEADER = "PNTAB:"

// KPDTAB_HEADER introduces the keyword default table.
const KPDTAB_HEADER = "KPDTAB:"

// EVNTAB_HEADER introduces the local variable lists.
const EVNTAB_HEADER = "EVNTAB:"

// SSNTAB_HEADER introduces the label name lists.
const SSNTAB_HEADER = "SSNTAB:"

// SSTAB_HEADER introduces the label table.
const SSTAB_HEADER = "SSTAB:"

// Write a given set of tables to a writer in the textual form understood by
// Read.  Observe that parameter markers are stripped from names, hence cannot
// be recovered when reading the tables back.
func Write(w io.Writer, t *Tables) error {
	var builder strings.Builder
	//
	builder.WriteString(MNT_HEADER + "\n")
	//
	for _, m := range t.macros {
		builder.WriteString(FormatMacro(m))
		builder.WriteString("\n")
	}
	//
	builder.WriteString("\n" + MDT_HEADER + "\n")
	//
	for _, stmt := range t.skeleton {
		builder.WriteString(stmt.Render(t.Format))
		builder.WriteString("\n")
	}
	//
	builder.WriteString("\n" + PNTAB_HEADER + "\n")
	//
	for _, m := range t.macros {
		fmt.Fprintf(&builder, " [%s]\n", StripMarker(strings.Join(m.Params, ", ")))
	}
	//
	builder.WriteString("\n" + KPDTAB_HEADER + "\n")
	//
	for _, kpd := range t.defaults {
		fmt.Fprintf(&builder, " %s = %s\n", StripMarker(kpd.Param), kpd.Value)
	}
	//
	builder.WriteString("\n" + EVNTAB_HEADER + "\n")
	//
	for _, m := range t.macros {
		fmt.Fprintf(&builder, " %s\n", StripMarker(strings.Join(m.Locals, " ")))
	}
	//
	builder.WriteString("\n" + SSNTAB_HEADER + "\n")
	//
	for _, m := range t.macros {
		fmt.Fprintf(&builder, " %s\n", StripMarker(strings.Join(m.LabelNames, " ")))
	}
	//
	builder.WriteString("\n" + SSTAB_HEADER + "\n")
	//
	for _, label := range t.labels {
		fmt.Fprintf(&builder, "%s: %d\n", label.Name, label.Offset)
	}
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}

// FormatMacro returns the macro name table row for a given macro.
func FormatMacro(m *Macro) string {
	return fmt.Sprintf(" Name=%s, PosParams=%d, KeyParams=%d, ExpVars=%d, MDT Ptr=%d, KPDTAB Ptr=%d, SST Ptr=%d",
		m.Name, m.Positional, m.Keywords.Len(), len(m.Locals), m.Skeleton.start, m.KeywordPointer(), m.Labels.start)
}

// StripMarker removes all parameter markers from a name (or list of names).
func StripMarker(text string) string {
	return strings.ReplaceAll(text, PARAM_MARKER, "")
}
