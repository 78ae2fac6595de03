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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-macro/pkg/util/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EXIT_USAGE is the exit code for malformed command lines and configuration.
const EXIT_USAGE = 1

// EXIT_IO is the exit code when a file cannot be read or written.
const EXIT_IO = 2

// EXIT_DEFINE is the exit code when macro definitions are malformed.
const EXIT_DEFINE = 3

// EXIT_TABLES is the exit code when a tables file is malformed.
const EXIT_TABLES = 4

// Failure is an error which determines the exit code of a command.  A failure
// arising from malformed input carries the syntax errors which were found.
type Failure struct {
	code   int
	cause  error
	errors []source.SyntaxError
}

func ioFailure(err error) error {
	return &Failure{EXIT_IO, err, nil}
}

func syntaxFailure(code int, errs []source.SyntaxError) error {
	return &Failure{code, nil, errs}
}

// Code returns the exit code associated with this failure.
func (f *Failure) Code() int {
	return f.code
}

// SyntaxErrors returns the syntax errors associated with this failure (if any).
func (f *Failure) SyntaxErrors() []source.SyntaxError {
	return f.errors
}

func (f *Failure) Error() string {
	if f.cause != nil {
		return f.cause.Error()
	} else if len(f.errors) > 0 {
		return f.errors[0].Error()
	}
	//
	return fmt.Sprintf("failed with exit code %d", f.code)
}

// ExitOnError reports a given error (if not nil) and terminates with the exit
// code it determines.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	//
	if f, ok := errors.Cause(err).(*Failure); ok && len(f.errors) > 0 {
		for _, e := range f.errors {
			printSyntaxError(&e)
		}
		//
		os.Exit(f.code)
	} else if ok {
		fmt.Println(err)
		os.Exit(f.code)
	}
	//
	fmt.Println(err)
	os.Exit(EXIT_USAGE)
}

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_USAGE)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_USAGE)
	}

	return r
}

// ReadSourceFile reads a given file, producing a failure if it cannot be read.
func ReadSourceFile(filename string) (*source.File, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return nil, ioFailure(err)
	}
	//
	return srcfile, nil
}

// WriteOutput creates a given output file and passes it to a given writer
// function.  An empty filename (or "-") denotes stdout.
func WriteOutput(filename string, fn func(io.Writer) error) error {
	if filename == "" || filename == "-" {
		return fn(os.Stdout)
	}
	//
	f, err := os.Create(filename)
	if err != nil {
		return ioFailure(errors.Wrapf(err, "creating %s", filename))
	}
	//
	if err = fn(f); err != nil {
		f.Close()
		//
		if _, ok := errors.Cause(err).(*Failure); ok {
			return err
		}
		//
		return ioFailure(errors.Wrapf(err, "writing %s", filename))
	}
	//
	if err = f.Close(); err != nil {
		return ioFailure(errors.Wrapf(err, "closing %s", filename))
	}
	//
	return nil
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(min(line.Length()-lineOffset, span.Length()), 0)
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(lineOffset, 0)))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
