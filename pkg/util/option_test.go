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

import "testing"

func Test_Option_Some(t *testing.T) {
	o := Some("INCR")
	//
	if !o.HasValue() || o.IsEmpty() {
		t.Errorf("expected value")
	} else if o.Unwrap() != "INCR" {
		t.Errorf("unexpected value %s", o.Unwrap())
	}
}

func Test_Option_None(t *testing.T) {
	o := None[int]()
	//
	if o.HasValue() || !o.IsEmpty() {
		t.Errorf("expected no value")
	}
	//
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	//
	o.Unwrap()
}
