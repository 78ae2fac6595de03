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
	"fmt"
	"strings"
)

// Binding records a single invocation of a macro, as part of the
// argument-binding log.
type Binding struct {
	// Name of the invoked macro.
	Macro string
	// Arguments exactly as given in the invocation.
	Arguments []string
	// Line number of the invocation (counting from 1, excluding region
	// markers).
	Line uint
}

func (b Binding) String() string {
	return fmt.Sprintf("Macro=%s, Arguments=[%s], Line=%d", b.Macro, strings.Join(b.Arguments, ", "), b.Line)
}
