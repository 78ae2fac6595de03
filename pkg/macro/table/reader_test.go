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
package table_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/consensys/go-macro/pkg/macro/define"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
)

var definitions = []string{
	"MACRO",
	"INCR &A,&B=ONE",
	"ADD &A,&B",
	"MEND",
	"MACRO",
	"CLEAR &R,&S=0",
	"LCL &T",
	".TOP MOVER &R,&T",
	"MOVEM &S,&R",
	"BC ANY,TOP",
	"MEND",
	"MACRO",
	"NOP",
	"STOP",
	"MEND",
}

func Test_Write_01(t *testing.T) {
	tables := checkBuild(t, define.Options{}, definitions...)
	expected := []string{
		"MNT:",
		" Name=INCR, PosParams=2, KeyParams=1, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=0, SST Ptr=0",
		" Name=CLEAR, PosParams=2, KeyParams=1, ExpVars=1, MDT Ptr=1, KPDTAB Ptr=1, SST Ptr=0",
		" Name=NOP, PosParams=0, KeyParams=0, ExpVars=0, MDT Ptr=5, KPDTAB Ptr=-1, SST Ptr=1",
		"",
		"MDT:",
		"ADD (P,1) (P,2)",
		"LCL (E,0)",
		"MOVER (P,1) (E,1)",
		"MOVEM (P,2) (P,1)",
		"BC ANYTOP",
		"STOP",
		"",
		"PNTAB:",
		" [A, B]",
		" [R, S]",
		" []",
		"",
		"KPDTAB:",
		" B = ONE",
		" S = 0",
		"",
		"EVNTAB:",
		" ",
		" T",
		" ",
		"",
		"SSNTAB:",
		" ",
		" TOP",
		" ",
		"",
		"SSTAB:",
		"TOP: 2",
		"",
	}
	//
	var builder strings.Builder
	if err := table.Write(&builder, tables); err != nil {
		t.Fatal(err)
	}
	//
	if actual := strings.Split(builder.String(), "\n"); !slices.Equal(actual, expected) {
		t.Errorf("got:\n%s\nexpected:\n%s", strings.Join(actual, "\n"), strings.Join(expected, "\n"))
	}
}

func Test_RoundTrip_01(t *testing.T) {
	checkRoundTrip(t, define.Options{}, definitions...)
}

func Test_RoundTrip_02(t *testing.T) {
	opts := define.Options{Format: table.Format{UniformLocalIndex: true}}
	checkRoundTrip(t, opts, definitions...)
}

func Test_RoundTrip_03(t *testing.T) {
	checkRoundTrip(t, define.Options{}, "MACRO", "JMP .L,&X", "BC ANY,.L", "MEND")
}

// A local whose name occurs within the directive leaves the directive intact.
func Test_RoundTrip_LocalInDirective(t *testing.T) {
	tables := checkBuild(t, define.Options{}, "MACRO", "M &A", "LCL C", "ADD &A,C", "MEND")
	//
	if s := tables.Arena()[0].String(); s != "LCL (E,0)" {
		t.Errorf("got %q, expected %q", s, "LCL (E,0)")
	}
	//
	checkRoundTrip(t, define.Options{}, "MACRO", "M &A", "LCL C", "ADD &A,C", "MEND")
	checkRoundTrip(t, define.Options{}, "MACRO", "M &A", "LCL L,CL", "ADD &A,L", "SUB &A,CL", "MEND")
}

func Test_RoundTrip_Empty(t *testing.T) {
	checkRoundTrip(t, define.Options{})
}

func Test_Read_Invalid_01(t *testing.T) {
	checkReadError(t, "missing section SSTAB:", "MNT:", "", "MDT:", "", "PNTAB:", "", "KPDTAB:", "", "EVNTAB:", "",
		"SSNTAB:")
}

func Test_Read_Invalid_02(t *testing.T) {
	checkReadError(t, "expected section header", "ADD (P,1)")
}

func Test_Read_Invalid_03(t *testing.T) {
	checkReadError(t, "invalid MDT Ptr \"x\"",
		"MNT:", " Name=A, PosParams=0, KeyParams=0, ExpVars=0, MDT Ptr=x, KPDTAB Ptr=-1, SST Ptr=0", "",
		"MDT:", "", "PNTAB:", " []", "", "KPDTAB:", "", "EVNTAB:", " ", "", "SSNTAB:", " ", "", "SSTAB:")
}

func Test_Read_Invalid_04(t *testing.T) {
	checkReadError(t, "statement 0: macro B has no parameter 2",
		"MNT:", " Name=B, PosParams=1, KeyParams=0, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=-1, SST Ptr=0", "",
		"MDT:", "ADD (P,2)", "", "PNTAB:", " [X]", "", "KPDTAB:", "", "EVNTAB:", " ", "", "SSNTAB:", " ", "",
		"SSTAB:")
}

func Test_Read_Invalid_KeywordParam(t *testing.T) {
	checkReadError(t, "macro B has no keyword parameter Y",
		"MNT:", " Name=B, PosParams=1, KeyParams=1, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=0, SST Ptr=0", "",
		"MDT:", "ADD (P,1)", "", "PNTAB:", " [X]", "", "KPDTAB:", " Y = 1", "", "EVNTAB:", " ", "", "SSNTAB:", " ",
		"", "SSTAB:")
}

func Test_Read_Invalid_KeywordUnowned(t *testing.T) {
	checkReadError(t, "keyword default table has 1 unowned entries",
		"MNT:", " Name=B, PosParams=1, KeyParams=0, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=-1, SST Ptr=0", "",
		"MDT:", "ADD (P,1)", "", "PNTAB:", " [X]", "", "KPDTAB:", " X = 1", "", "EVNTAB:", " ", "", "SSNTAB:", " ",
		"", "SSTAB:")
}

func Test_Read_Invalid_05(t *testing.T) {
	checkReadError(t, "duplicate macro A",
		"MNT:",
		" Name=A, PosParams=0, KeyParams=0, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=-1, SST Ptr=0",
		" Name=A, PosParams=0, KeyParams=0, ExpVars=0, MDT Ptr=0, KPDTAB Ptr=-1, SST Ptr=0", "",
		"MDT:", "", "PNTAB:", " []", " []", "", "KPDTAB:", "", "EVNTAB:", " ", " ", "", "SSNTAB:", " ", " ", "",
		"SSTAB:")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkBuild(t *testing.T, opts define.Options, lines ...string) *table.Tables {
	srcfile := source.NewSourceFile("test.mac", []byte(strings.Join(lines, "\n")))
	tables, errs := define.Build(srcfile, opts)
	//
	if len(errs) != 0 {
		t.Fatalf("unexpected error: %s", errs[0].Error())
	}
	//
	return tables
}

// Check that reading back written tables preserves counts, pointers and
// skeleton text.  Names lose their parameter markers.
func checkRoundTrip(t *testing.T, opts define.Options, lines ...string) {
	var (
		original = checkBuild(t, opts, lines...)
		builder  strings.Builder
	)
	//
	if err := table.Write(&builder, original); err != nil {
		t.Fatal(err)
	}
	//
	srcfile := source.NewSourceFile("test.tab", []byte(builder.String()))
	tables, errs := table.Read(srcfile, opts.Format)
	//
	if len(errs) != 0 {
		t.Fatalf("unexpected error: %s", errs[0].Error())
	} else if len(tables.Macros()) != len(original.Macros()) {
		t.Fatalf("got %d macros, expected %d", len(tables.Macros()), len(original.Macros()))
	}
	//
	for i, m := range tables.Macros() {
		o := original.Macros()[i]
		//
		if table.FormatMacro(m) != table.FormatMacro(o) {
			t.Errorf("got %s, expected %s", table.FormatMacro(m), table.FormatMacro(o))
		} else if m.Skeleton != o.Skeleton || m.Labels != o.Labels {
			t.Errorf("macro %s: ranges differ", m.Name)
		}
		//
		checkNames(t, m.Params, o.Params)
		checkNames(t, m.Locals, o.Locals)
		checkNames(t, m.LabelNames, o.LabelNames)
	}
	//
	for i, stmt := range tables.Arena() {
		expected := original.Arena()[i]
		//
		if stmt.Render(opts.Format) != expected.Render(opts.Format) {
			t.Errorf("statement %d: got %q, expected %q", i, stmt.Render(opts.Format), expected.Render(opts.Format))
		} else if !slices.Equal(stmt.Tokens(), expected.Tokens()) {
			t.Errorf("statement %d: tokens differ", i)
		}
	}
	//
	if !slices.Equal(tables.Labels(), original.Labels()) {
		t.Errorf("got labels %v, expected %v", tables.Labels(), original.Labels())
	}
}

func checkNames(t *testing.T, actual []string, expected []string) {
	var stripped []string
	//
	for _, n := range expected {
		stripped = append(stripped, table.StripMarker(n))
	}
	//
	if !slices.Equal(actual, stripped) {
		t.Errorf("got names %v, expected %v", actual, stripped)
	}
}

func checkReadError(t *testing.T, msg string, lines ...string) {
	srcfile := source.NewSourceFile("test.tab", []byte(strings.Join(lines, "\n")))
	_, errs := table.Read(srcfile, table.Format{})
	//
	if len(errs) == 0 {
		t.Fatalf("expected error %q", msg)
	}
	//
	for _, err := range errs {
		if err.Message() == msg {
			return
		}
	}
	//
	t.Errorf("got error %q, expected %q", errs[0].Message(), msg)
}
