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
	"strconv"
	"strings"

	"github.com/consensys/go-macro/pkg/macro/table"
	"github.com/consensys/go-macro/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] tables_file",
	Short: "Inspect a tables file.",
	Long: `Print the macro name table of a given tables file, along with the
	parameters and skeleton of each macro.`,
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
		colour := term.IsTerminal(int(os.Stdout.Fd())) && !GetFlag(cmd, "no-colour")
		skeleton := GetFlag(cmd, "skeleton")
		//
		tabfile, err := ReadSourceFile(args[0])
		ExitOnError(err)
		//
		tables, err := ReadTables(tabfile, cfg)
		ExitOnError(err)
		//
		ExitOnError(InspectTables(os.Stdout, tables, colour, skeleton))
	},
}

// InspectTables prints a human-readable view of a given set of tables.  When
// requested, the skeleton of each macro is printed as well.
func InspectTables(w io.Writer, tables *table.Tables, colour bool, skeleton bool) error {
	tbl := termio.NewTablePrinter(8)
	header := tbl.AddRow("Name", "Params", "Pos", "Key", "Locals", "MDT", "KPDTAB", "SST")
	//
	tbl.AnsiEscapes(colour)
	tbl.SetRowEscape(header, termio.BoldAnsiEscape())
	tbl.SetMaxWidths(32)
	//
	for _, m := range tables.Macros() {
		row := tbl.AddRow(m.Name,
			table.StripMarker(strings.Join(m.Params, ",")),
			strconv.Itoa(int(m.Positional)),
			strconv.Itoa(int(m.Keywords.Len())),
			strconv.Itoa(len(m.Locals)),
			strconv.Itoa(int(m.Skeleton.Start())),
			strconv.Itoa(m.KeywordPointer()),
			strconv.Itoa(int(m.Labels.Start())))
		//
		tbl.SetEscape(0, row, termio.NewAnsiEscape().FgColour(termio.TERM_CYAN))
	}
	//
	if err := tbl.Print(w); err != nil {
		return err
	}
	//
	if skeleton {
		return printSkeletons(w, tables, colour)
	}
	//
	return nil
}

func printSkeletons(w io.Writer, tables *table.Tables, colour bool) error {
	var (
		name  = termio.NewAnsiEscape().FgColour(termio.TERM_CYAN).Build()
		value = termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW).Build()
		reset = termio.ResetAnsiEscape().Build()
	)
	//
	if !colour {
		name, value, reset = "", "", ""
	}
	//
	for _, m := range tables.Macros() {
		if _, err := fmt.Fprintf(w, "\n%s%s%s:\n", name, m.Name, reset); err != nil {
			return err
		}
		//
		for _, kpd := range tables.KeywordDefaults(m) {
			if _, err := fmt.Fprintf(w, "  %s = %s%s%s\n", table.StripMarker(kpd.Param), value, kpd.Value, reset); err != nil {
				return err
			}
		}
		//
		for i, stmt := range tables.Skeleton(m) {
			offset := m.Skeleton.Start() + uint(i)
			if _, err := fmt.Fprintf(w, "  %3d: %s\n", offset, stmt.Render(tables.Format)); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("no-colour", false, "disable colour output")
	inspectCmd.Flags().BoolP("skeleton", "s", false, "print the skeleton of each macro")
}
