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
package termio

import (
	"bytes"
	"testing"
)

func Test_TablePrinter_01(t *testing.T) {
	tbl := NewTablePrinter(2)
	tbl.AddRow("Name", "Ptr")
	tbl.AddRow("INCR", "0")
	tbl.AnsiEscapes(false)
	//
	checkTable(t, tbl, " Name | Ptr |\n INCR |   0 |\n")
}

func Test_TablePrinter_02(t *testing.T) {
	tbl := NewTablePrinter(1)
	tbl.AddRow("CLEARALL")
	tbl.SetMaxWidths(5)
	tbl.AnsiEscapes(false)
	//
	checkTable(t, tbl, " CLE.. |\n")
}

func Test_TablePrinter_03(t *testing.T) {
	tbl := NewTablePrinter(1)
	row := tbl.AddRow("X")
	tbl.SetRowEscape(row, BoldAnsiEscape())
	//
	checkTable(t, tbl, "\033[1m X\033[0m |\n")
}

func Test_AnsiEscape_01(t *testing.T) {
	if e := NewAnsiEscape().FgColour(TERM_GREEN).Build(); e != "\033[32m" {
		t.Errorf("unexpected escape %q", e)
	}
	//
	if e := BoldAnsiEscape().FgColour(TERM_RED).Build(); e != "\033[1;31m" {
		t.Errorf("unexpected escape %q", e)
	}
}

func checkTable(t *testing.T, tbl *TablePrinter, expected string) {
	var buf bytes.Buffer
	//
	if err := tbl.Print(&buf); err != nil {
		t.Fatal(err)
	} else if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
