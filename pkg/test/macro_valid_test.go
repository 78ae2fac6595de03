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
package test

import (
	"testing"

	"github.com/consensys/go-macro/pkg/macro/define"
	"github.com/consensys/go-macro/pkg/macro/expand"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/test/util"
)

func Test_MacroValid_Incr(t *testing.T) {
	util.CheckValid(t, "macro/valid/incr", define.Options{}, expand.DefaultOptions())
}

func Test_MacroValid_Clear(t *testing.T) {
	util.CheckValid(t, "macro/valid/clear", define.Options{}, expand.DefaultOptions())
}

func Test_MacroValid_Uniform(t *testing.T) {
	opts := define.Options{Format: table.Format{UniformLocalIndex: true}}
	util.CheckValid(t, "macro/valid/uniform", opts, expand.DefaultOptions())
}
