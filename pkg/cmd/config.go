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
	"github.com/BurntSushi/toml"
	"github.com/consensys/go-macro/pkg/macro/define"
	"github.com/consensys/go-macro/pkg/macro/expand"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config gathers the options for both phases.  A configuration file may be
// given in TOML, for example:
//
//	[define]
//	dot-params-once = true
//
//	[define.format]
//	uniform-local-index = true
//
//	[expand]
//	start = "BEGIN"
//	end = "FINISH"
//	join-operands = true
//	skip-declarations = true
//
// Command-line flags take precedence over the configuration file.
type Config struct {
	Define define.Options `toml:"define"`
	Expand expand.Options `toml:"expand"`
}

// DefaultConfig returns the configuration used when no file or flags are
// given.
func DefaultConfig() Config {
	return Config{define.Options{}, expand.DefaultOptions()}
}

// LoadConfig reads a given TOML file over a given configuration.  Keys which
// are not recognised are reported as an error.
func LoadConfig(filename string, cfg *Config) error {
	meta, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", filename)
	}
	//
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("config %s: unknown key \"%s\"", filename, undecoded[0].String())
	}
	//
	log.Debugf("loaded config %s: %+v", filename, *cfg)
	//
	return nil
}

// GetConfig determines the configuration for a given command, by reading the
// configuration file (if given) and then applying any flags.
func GetConfig(cmd *cobra.Command) Config {
	cfg := DefaultConfig()
	//
	if filename := GetString(cmd, "config"); filename != "" {
		ExitOnError(LoadConfig(filename, &cfg))
	}
	//
	ExitOnError(ApplyFlags(cmd.Flags(), &cfg))
	//
	return cfg
}

// ApplyFlags overrides a given configuration with any flags explicitly set.
func ApplyFlags(flags *pflag.FlagSet, cfg *Config) error {
	var err error
	//
	if flags.Changed("uniform-local-index") {
		cfg.Define.Format.UniformLocalIndex, err = flags.GetBool("uniform-local-index")
	}
	//
	if err == nil && flags.Changed("dot-params-once") {
		cfg.Define.DotParamsOnce, err = flags.GetBool("dot-params-once")
	}
	//
	if err == nil && flags.Changed("start") {
		cfg.Expand.Start, err = flags.GetString("start")
	}
	//
	if err == nil && flags.Changed("end") {
		cfg.Expand.End, err = flags.GetString("end")
	}
	//
	if err == nil && flags.Changed("join-operands") {
		cfg.Expand.JoinOperands, err = flags.GetBool("join-operands")
	}
	//
	if err == nil && flags.Changed("skip-declarations") {
		cfg.Expand.SkipDeclarations, err = flags.GetBool("skip-declarations")
	}
	//
	return err
}

func addDefineFlags(flags *pflag.FlagSet) {
	flags.Bool("dot-params-once", false, "count a dot-prefixed header token as a single parameter")
}

func addExpandFlags(flags *pflag.FlagSet) {
	flags.String("start", "START", "marker line which opens the expansion region")
	flags.String("end", "END", "marker line which closes the expansion region")
	flags.Bool("join-operands", false, "read every word after the macro name as arguments")
	flags.Bool("skip-declarations", false, "omit LCL declarations from the expanded output")
}
