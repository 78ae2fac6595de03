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

	"github.com/consensys/go-macro/pkg/macro/define"
	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var defineCmd = &cobra.Command{
	Use:   "define [flags] source_file",
	Short: "build macro tables from a source file.",
	Long: `Scan a given source file for MACRO...MEND blocks, and write the resulting
	macro tables for use by a subsequent expansion.`,
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
		//
		srcfile, err := ReadSourceFile(args[0])
		ExitOnError(err)
		//
		tables, err := DefineMacros(srcfile, cfg)
		ExitOnError(err)
		//
		ExitOnError(WriteOutput(output, func(w io.Writer) error {
			return table.Write(w, tables)
		}))
	},
}

// DefineMacros runs the definition phase over a given source file.
func DefineMacros(srcfile *source.File, cfg Config) (*table.Tables, error) {
	tables, errs := define.Build(srcfile, cfg.Define)
	if len(errs) > 0 {
		return nil, syntaxFailure(EXIT_DEFINE, errs)
	}
	//
	log.Debugf("defined %d macro(s) from %s", len(tables.Macros()), srcfile.Filename())
	//
	return tables, nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(defineCmd)
	defineCmd.Flags().StringP("output", "o", "", "specify output file for tables.")
	addDefineFlags(defineCmd.Flags())
	defineCmd.MarkFlagRequired("output")
}
