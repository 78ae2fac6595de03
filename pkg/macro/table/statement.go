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
	"regexp"
	"strconv"
	"strings"
)

// LITERAL identifies a token of literal text.
const LITERAL = uint(0)

// PARAM_REF identifies a reference to a formal parameter of the enclosing
// macro.
const PARAM_REF = uint(1)

// LOCAL_REF identifies a reference to a local variable of the enclosing macro.
const LOCAL_REF = uint(2)

// DECLARATION is the directive which introduces local variables.
const DECLARATION = "LCL"

// Token is a single element of a skeleton statement.  This is either a span of
// literal text, or a placeholder referring (by index) to a formal parameter or
// local variable of the macro which owns the statement.
type Token struct {
	Kind uint
	// Text of a literal token (empty for placeholders).
	Text string
	// Index of a placeholder token (counting from 0).
	Index uint
}

// Literal constructs a token of literal text.
func Literal(text string) Token {
	return Token{LITERAL, text, 0}
}

// ParamRef constructs a placeholder for the nth formal parameter (counting from
// 0).
func ParamRef(index uint) Token {
	return Token{PARAM_REF, "", index}
}

// LocalRef constructs a placeholder for the nth local variable (counting from
// 0).
func LocalRef(index uint) Token {
	return Token{LOCAL_REF, "", index}
}

// Statement is a single templated instruction belonging to the body of a
// macro.  Statements are parsed once (at definition time, or when tables are
// read back) and are rewritten by token at expansion time.
type Statement struct {
	tokens []Token
	// Indicates whether this statement declares local variables.
	declaration bool
}

// NewStatement constructs a new statement from a given sequence of tokens.
// Adjacent literal tokens are merged, and empty literals are dropped.
func NewStatement(declaration bool, tokens ...Token) Statement {
	var normalised []Token
	//
	for _, t := range tokens {
		n := len(normalised)
		//
		switch {
		case t.Kind == LITERAL && t.Text == "":
			continue
		case t.Kind == LITERAL && n > 0 && normalised[n-1].Kind == LITERAL:
			normalised[n-1].Text += t.Text
		default:
			normalised = append(normalised, t)
		}
	}
	//
	return Statement{normalised, declaration}
}

// Tokens returns the tokens making up this statement.
func (s Statement) Tokens() []Token {
	return s.tokens
}

// IsDeclaration determines whether this statement declares local variables
// (i.e. it originates from an LCL directive).
func (s Statement) IsDeclaration() bool {
	return s.declaration
}

// IsEmpty determines whether this statement has no tokens.
func (s Statement) IsEmpty() bool {
	return len(s.tokens) == 0
}

// Render this statement into the external placeholder syntax using a given
// format.
func (s Statement) Render(format Format) string {
	var builder strings.Builder
	//
	for _, t := range s.tokens {
		switch t.Kind {
		case LITERAL:
			builder.WriteString(t.Text)
		case PARAM_REF:
			fmt.Fprintf(&builder, "(P,%d)", t.Index+1)
		case LOCAL_REF:
			fmt.Fprintf(&builder, "(E,%d)", t.Index+format.localBase(s.declaration))
		}
	}
	//
	return builder.String()
}

// String renders this statement in the default format.
func (s Statement) String() string {
	return s.Render(Format{})
}

// Substitute rewrites this statement by replacing every placeholder using the
// given functions, producing plain text.
func (s Statement) Substitute(param func(uint) string, local func(uint) string) string {
	var builder strings.Builder
	//
	for _, t := range s.tokens {
		switch t.Kind {
		case LITERAL:
			builder.WriteString(t.Text)
		case PARAM_REF:
			builder.WriteString(param(t.Index))
		case LOCAL_REF:
			builder.WriteString(local(t.Index))
		}
	}
	//
	return builder.String()
}

// Format captures choices about how placeholders are encoded in text.  The
// zero value numbers local placeholders in LCL declarations from 0.
type Format struct {
	// UniformLocalIndex renders local-variable placeholders within LCL
	// declarations counting from 1 (as for all other placeholders), rather
	// than counting from 0.
	UniformLocalIndex bool `toml:"uniform-local-index"`
}

func (f Format) localBase(declaration bool) uint {
	if declaration && !f.UniformLocalIndex {
		return 0
	}
	//
	return 1
}

var placeholder = regexp.MustCompile(`\(([PE]),([0-9]+)\)`)

// ParseStatement parses a statement from its external placeholder syntax
// under a given format.  A statement whose first word is the LCL directive is
// treated as a declaration.
func ParseStatement(text string, format Format) (Statement, error) {
	var (
		tokens      []Token
		last        = 0
		fields      = strings.Fields(text)
		declaration = len(fields) > 0 && fields[0] == DECLARATION
	)
	//
	for _, m := range placeholder.FindAllStringSubmatchIndex(text, -1) {
		tokens = append(tokens, Literal(text[last:m[0]]))
		//
		n, err := strconv.ParseUint(text[m[4]:m[5]], 10, 32)
		if err != nil {
			return Statement{}, err
		}
		//
		switch text[m[2]:m[3]] {
		case "P":
			if n == 0 {
				return Statement{}, fmt.Errorf("invalid parameter placeholder %s", text[m[0]:m[1]])
			}
			//
			tokens = append(tokens, ParamRef(uint(n-1)))
		default:
			base := uint64(format.localBase(declaration))
			if n < base {
				return Statement{}, fmt.Errorf("invalid local placeholder %s", text[m[0]:m[1]])
			}
			//
			tokens = append(tokens, LocalRef(uint(n-base)))
		}
		//
		last = m[1]
	}
	//
	tokens = append(tokens, Literal(text[last:]))
	//
	return NewStatement(declaration, tokens...), nil
}
