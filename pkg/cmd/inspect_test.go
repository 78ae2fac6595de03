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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Inspect_Plain(t *testing.T) {
	var buf bytes.Buffer
	//
	tables, err := DefineMacros(sourceFile("incr.mac", incrDefs...), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, InspectTables(&buf, tables, false, false))
	//
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, " Name | Params | Pos | Key | Locals | MDT | KPDTAB | SST |", lines[0])
	assert.Equal(t, " INCR |    A,B |   2 |   1 |      0 |   0 |      0 |   0 |", lines[1])
	assert.NotContains(t, buf.String(), "\033")
}

func Test_Inspect_Skeleton(t *testing.T) {
	var buf bytes.Buffer
	//
	tables, err := DefineMacros(sourceFile("incr.mac", incrDefs...), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, InspectTables(&buf, tables, false, true))
	//
	assert.Contains(t, buf.String(), "\nINCR:\n")
	assert.Contains(t, buf.String(), "  B = 1\n")
	assert.Contains(t, buf.String(), "    0: ADD (P,1) (P,2)\n")
}

func Test_Inspect_Colour(t *testing.T) {
	var buf bytes.Buffer
	//
	tables, err := DefineMacros(sourceFile("incr.mac", incrDefs...), DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, InspectTables(&buf, tables, true, false))
	//
	assert.Contains(t, buf.String(), "\033[1m")
	assert.Contains(t, buf.String(), "\033[36m")
}
