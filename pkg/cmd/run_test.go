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
package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-macro/pkg/util/source"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var incrDefs = []string{
	"MACRO",
	"INCR &A,&B=1",
	"ADD &A,&B",
	"MEND",
}

var incrSource = []string{
	"START",
	"INCR X",
	"INCR X,B=5",
	"FOO X,Y",
	"END",
}

func Test_Run_Incr(t *testing.T) {
	var buf bytes.Buffer
	//
	bindings, err := RunMacros(sourceFile("incr.mac", incrDefs...), sourceFile("incr.asm", incrSource...),
		DefaultConfig(), &buf)
	//
	require.NoError(t, err)
	assert.Equal(t, "START\nADD X 1\nADD X 5\nFOO X,Y\nEND\n", buf.String())
	require.Len(t, bindings, 2)
	assert.Equal(t, "Macro=INCR, Arguments=[X], Line=1", bindings[0].String())
	assert.Equal(t, "Macro=INCR, Arguments=[X, B=5], Line=2", bindings[1].String())
}

func Test_Run_Markers(t *testing.T) {
	var (
		buf bytes.Buffer
		cfg = DefaultConfig()
	)
	//
	cfg.Expand.Start = "BEGIN"
	cfg.Expand.End = "FINISH"
	//
	bindings, err := RunMacros(sourceFile("incr.mac", incrDefs...),
		sourceFile("incr.asm", "INCR Y", "begin", "INCR X", "finish", "INCR Z"), cfg, &buf)
	//
	require.NoError(t, err)
	assert.Equal(t, "INCR Y\nbegin\nADD X 1\nfinish\nINCR Z\n", buf.String())
	assert.Len(t, bindings, 1)
}

func Test_Run_Uniform(t *testing.T) {
	var (
		buf bytes.Buffer
		cfg = DefaultConfig()
	)
	//
	cfg.Define.Format.UniformLocalIndex = true
	defs := sourceFile("clear.mac", "MACRO", "CLEAR &R", "LCL &T", "MOV &T,&R", "MEND")
	//
	_, err := RunMacros(defs, sourceFile("clear.asm", "START", "CLEAR AREG", "END"), cfg, &buf)
	//
	require.NoError(t, err)
	assert.Equal(t, "START\nLCL T\nMOV T AREG\nEND\n", buf.String())
}

func Test_Run_Invalid_Define(t *testing.T) {
	var buf bytes.Buffer
	//
	_, err := RunMacros(sourceFile("bad.mac", "MACRO", "INCR &A"), sourceFile("incr.asm", incrSource...),
		DefaultConfig(), &buf)
	//
	checkFailure(t, err, EXIT_DEFINE, "unterminated macro block")
	assert.Empty(t, buf.String())
}

func Test_Read_Invalid_Tables(t *testing.T) {
	_, err := ReadTables(sourceFile("bad.tab", "MNT:", " Name=X"), DefaultConfig())
	//
	require.Error(t, err)
	//
	f, ok := errors.Cause(err).(*Failure)
	require.True(t, ok)
	assert.Equal(t, EXIT_TABLES, f.Code())
	assert.NotEmpty(t, f.SyntaxErrors())
}

func Test_Read_Missing_File(t *testing.T) {
	_, err := ReadSourceFile(t.TempDir() + "/missing.mac")
	//
	require.Error(t, err)
	//
	f, ok := errors.Cause(err).(*Failure)
	require.True(t, ok)
	assert.Equal(t, EXIT_IO, f.Code())
	assert.Contains(t, err.Error(), "missing.mac")
}

func Test_Write_Bindings(t *testing.T) {
	var buf bytes.Buffer
	//
	bindings, err := RunMacros(sourceFile("incr.mac", incrDefs...), sourceFile("incr.asm", incrSource...),
		DefaultConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	//
	require.NoError(t, WriteBindings(&buf, bindings))
	assert.Equal(t, "Macro=INCR, Arguments=[X], Line=1\nMacro=INCR, Arguments=[X, B=5], Line=2\n", buf.String())
}

func checkFailure(t *testing.T, err error, code int, msg string) {
	t.Helper()
	require.Error(t, err)
	//
	f, ok := errors.Cause(err).(*Failure)
	require.True(t, ok, "expected failure, got %v", err)
	assert.Equal(t, code, f.Code())
	require.Len(t, f.SyntaxErrors(), 1)
	assert.Equal(t, msg, f.SyntaxErrors()[0].Message())
}

func sourceFile(filename string, lines ...string) *source.File {
	return source.NewSourceFile(filename, []byte(strings.Join(lines, "\n")+"\n"))
}
