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
	"slices"
	"testing"
)

func Test_Statement_Normalise(t *testing.T) {
	stmt := NewStatement(false, Literal("ADD"), Literal(""), Literal(" "), ParamRef(0), Literal(""))
	expected := []Token{Literal("ADD "), ParamRef(0)}
	//
	if !slices.Equal(stmt.Tokens(), expected) {
		t.Errorf("got %v, expected %v", stmt.Tokens(), expected)
	}
}

func Test_Statement_Parse_01(t *testing.T) {
	checkParse(t, "ADD (P,1) (P,2)", false, Literal("ADD "), ParamRef(0), Literal(" "), ParamRef(1))
}

func Test_Statement_Parse_02(t *testing.T) {
	checkParse(t, "MOVER (E,2),X", false, Literal("MOVER "), LocalRef(1), Literal(",X"))
}

func Test_Statement_Parse_03(t *testing.T) {
	checkParse(t, "LCL (E,0),&U", true, Literal("LCL "), LocalRef(0), Literal(",&U"))
}

func Test_Statement_Parse_04(t *testing.T) {
	// Not placeholders
	checkParse(t, "DC (X,1) (P,A)", false, Literal("DC (X,1) (P,A)"))
}

func Test_Statement_Parse_05(t *testing.T) {
	checkParse(t, "", false)
}

func Test_Statement_Parse_Uniform(t *testing.T) {
	format := Format{UniformLocalIndex: true}
	stmt, err := ParseStatement("LCL (E,1)", format)
	//
	if err != nil {
		t.Fatal(err)
	} else if !slices.Equal(stmt.Tokens(), []Token{Literal("LCL "), LocalRef(0)}) {
		t.Errorf("unexpected tokens %v", stmt.Tokens())
	} else if stmt.Render(format) != "LCL (E,1)" || stmt.String() != "LCL (E,0)" {
		t.Errorf("unexpected rendering %q / %q", stmt.Render(format), stmt.String())
	}
}

func Test_Statement_Parse_Invalid_01(t *testing.T) {
	if _, err := ParseStatement("ADD (P,0)", Format{}); err == nil {
		t.Errorf("expected error")
	}
}

func Test_Statement_Parse_Invalid_02(t *testing.T) {
	if _, err := ParseStatement("ADD (E,0)", Format{}); err == nil {
		t.Errorf("expected error")
	}
}

// Substitution is by token, so the value bound to one parameter can never be
// mistaken for the name of another.
func Test_Statement_Substitute(t *testing.T) {
	stmt := NewStatement(false, Literal("ADD "), ParamRef(0), Literal(" "), ParamRef(1), Literal(" "), LocalRef(0))
	values := []string{"(P,2)", "Y"}
	//
	actual := stmt.Substitute(func(i uint) string { return values[i] }, func(i uint) string { return "T" })
	//
	if actual != "ADD (P,2) Y T" {
		t.Errorf("got %q", actual)
	}
}

func checkParse(t *testing.T, text string, declaration bool, expected ...Token) {
	stmt, err := ParseStatement(text, Format{})
	//
	if err != nil {
		t.Fatal(err)
	} else if !slices.Equal(stmt.Tokens(), expected) {
		t.Errorf("got %v, expected %v", stmt.Tokens(), expected)
	} else if stmt.IsDeclaration() != declaration {
		t.Errorf("declaration should be %t", declaration)
	} else if stmt.String() != text {
		t.Errorf("rendered %q, expected %q", stmt.String(), text)
	}
}
