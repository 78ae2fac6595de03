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
package util

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-macro/pkg/macro/define"
	"github.com/consensys/go-macro/pkg/macro/expand"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
)

// MACRO_EXT is the extension of macro definition files.
const MACRO_EXT = "mac"

// SOURCE_EXT is the extension of source files containing invocations.
const SOURCE_EXT = "asm"

// EXPANDED_EXT is the extension of files holding the expected expansion.
const EXPANDED_EXT = "out"

// TABLES_EXT is the extension of files holding the expected tables.
const TABLES_EXT = "tab"

// CheckValid runs both phases over a given test.  The macro definitions are
// built into tables, which are written out and read back before being used to
// expand the source file.  The tables (if an expected tables file exists) and
// the expansion are compared against what is expected.
func CheckValid(t *testing.T, test string, defOpts define.Options, expOpts expand.Options) {
	var (
		base    = fmt.Sprintf("%s/%s", TestDir, test)
		defs    = readSourceFile(t, base+"."+MACRO_EXT)
		srcfile = readSourceFile(t, base+"."+SOURCE_EXT)
		builder strings.Builder
	)
	// Enable testing each file in parallel
	t.Parallel()
	// Definition phase
	tables, errs := define.Build(defs, defOpts)
	if len(errs) > 0 {
		t.Fatal(errorToString(errs[0]))
	} else if err := table.Write(&builder, tables); err != nil {
		t.Fatal(err)
	}
	//
	checkFileContents(t, base+"."+TABLES_EXT, builder.String())
	// Expansion phase
	tables, errs = table.Read(source.NewSourceFile(base+"."+TABLES_EXT, []byte(builder.String())), defOpts.Format)
	if len(errs) > 0 {
		t.Fatal(errorToString(errs[0]))
	}
	//
	builder.Reset()
	//
	if err := expand.NewExpander(tables, expOpts).Expand(srcfile, &builder); err != nil {
		t.Fatal(err)
	}
	//
	checkFileContents(t, base+"."+EXPANDED_EXT, builder.String())
}

// Check generated text against the contents of a given file.  If the file does
// not exist, then the check is skipped.
func checkFileContents(t *testing.T, filename string, actual string) {
	bytes, err := os.ReadFile(filename)
	//
	if os.IsNotExist(err) {
		return
	} else if err != nil {
		t.Fatal(err)
	}
	//
	expected := strings.Split(strings.ReplaceAll(string(bytes), "\r\n", "\n"), "\n")
	lines := strings.Split(actual, "\n")
	//
	for i := 0; i < max(len(expected), len(lines)); i++ {
		var e, a string
		//
		if i < len(expected) {
			e = expected[i]
		}
		//
		if i < len(lines) {
			a = lines[i]
		}
		//
		if e != a {
			t.Fatalf("%s:%d: got %q, expected %q", filename, i+1, a, e)
		}
	}
}
