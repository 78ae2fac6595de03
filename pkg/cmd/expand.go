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

	"github.com/consensys/go-macro/pkg/macro/expand"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] source_file",
	Short: "expand macro calls using previously defined tables.",
	Long: `Expand every macro call within the START...END region of a given source
	file, using tables written by the define command.  Lines which are not macro
	calls are copied unchanged.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(EXIT_USAGE)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg := GetConfig(cmd)
		output := GetString(cmd, "output")
		bindings := GetString(cmd, "bindings")
		//
		tabfile, err := ReadSourceFile(GetString(cmd, "tables"))
		ExitOnError(err)
		//
		tables, err := ReadTables(tabfile, cfg)
		ExitOnError(err)
		//
		srcfile, err := ReadSourceFile(args[0])
		ExitOnError(err)
		//
		var records []expand.Binding
		//
		ExitOnError(WriteOutput(output, func(w io.Writer) error {
			records, err = ExpandMacros(tables, srcfile, cfg, w)
			return err
		}))
		//
		if bindings != "" {
			ExitOnError(WriteOutput(bindings, func(w io.Writer) error {
				return WriteBindings(w, records)
			}))
		}
	},
}

// ReadTables reads tables previously written by the definition phase.
func ReadTables(srcfile *source.File, cfg Config) (*table.Tables, error) {
	tables, errs := table.Read(srcfile, cfg.Define.Format)
	if len(errs) > 0 {
		return nil, syntaxFailure(EXIT_TABLES, errs)
	}
	//
	return tables, nil
}

// ExpandMacros runs the expansion phase over a given source file, writing the
// expanded text to a given writer.  The argument-binding log is returned.
func ExpandMacros(tables *table.Tables, srcfile *source.File, cfg Config, w io.Writer) ([]expand.Binding, error) {
	expander := expand.NewExpander(tables, cfg.Expand)
	//
	if err := expander.Expand(srcfile, w); err != nil {
		return nil, err
	}
	//
	log.Debugf("expanded %d call(s) in %s", len(expander.Bindings()), srcfile.Filename())
	//
	return expander.Bindings(), nil
}

// WriteBindings writes an argument-binding log, one record per line.
func WriteBindings(w io.Writer, bindings []expand.Binding) error {
	for _, b := range bindings {
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("tables", "t", "", "specify tables file written by define.")
	expandCmd.Flags().StringP("output", "o", "", "specify output file (default stdout).")
	expandCmd.Flags().StringP("bindings", "b", "", "write argument-binding log to file.")
	addExpandFlags(expandCmd.Flags())
	expandCmd.MarkFlagRequired("tables")
}
