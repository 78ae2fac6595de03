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
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-macro/pkg/macro/expand"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] definitions_file source_file",
	Short: "define and expand macros in one step.",
	Long: `Build macro tables from a definitions file, and then use them to expand a
	source file.  The tables are passed between the two phases in their written
	form, exactly as for separate define and expand commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
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
		defs, err := ReadSourceFile(args[0])
		ExitOnError(err)
		//
		srcfile, err := ReadSourceFile(args[1])
		ExitOnError(err)
		//
		var records []expand.Binding
		//
		ExitOnError(WriteOutput(output, func(w io.Writer) error {
			records, err = RunMacros(defs, srcfile, cfg, w)
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

// RunMacros defines the macros of one file and expands the calls in another.
// The tables are written and read back in between.
func RunMacros(defs *source.File, srcfile *source.File, cfg Config, w io.Writer) ([]expand.Binding, error) {
	var buf bytes.Buffer
	//
	tables, err := DefineMacros(defs, cfg)
	if err != nil {
		return nil, err
	}
	//
	if err = table.Write(&buf, tables); err != nil {
		return nil, err
	}
	//
	tabfile := source.NewSourceFile(defs.Filename()+".tab", buf.Bytes())
	//
	if tables, err = ReadTables(tabfile, cfg); err != nil {
		return nil, err
	}
	//
	return ExpandMacros(tables, srcfile, cfg, w)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("output", "o", "", "specify output file (default stdout).")
	runCmd.Flags().StringP("bindings", "b", "", "write argument-binding log to file.")
	addDefineFlags(runCmd.Flags())
	addExpandFlags(runCmd.Flags())
}
