// Copyright © 2021 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getamis/secureot/circuit"
	"github.com/getamis/secureot/internal/config"
	"github.com/getamis/secureot/protocol"
	"github.com/getamis/secureot/transport"
)

var runEvaluatorCmd = &cobra.Command{
	Use:   "run-evaluator",
	Short: "Run this process as the evaluating party, listening for the garbler",
	RunE: func(cmd *cobra.Command, args []string) error {
		var c config.Config
		if err := viper.Unmarshal(&c); err != nil {
			return err
		}

		circ, err := circuit.LoadBristol(c.Circuit)
		if err != nil {
			log.Error("Failed to load circuit", "path", c.Circuit, "err", err)
			return err
		}
		bits, err := config.ParseBits(c.InputBits)
		if err != nil {
			log.Error("Failed to parse input bits", "err", err)
			return err
		}

		h, err := transport.MakeHost(c.Port)
		if err != nil {
			log.Error("Failed to create host", "err", err)
			return err
		}
		addr, err := transport.Addr(c.Port)
		if err != nil {
			return err
		}
		log.Info("Listening for garbler", "addr", addr)

		stream, err := transport.ListenLibp2p(h)
		if err != nil {
			log.Error("Failed to accept stream", "err", err)
			return err
		}
		defer stream.Close()

		e := protocol.NewEvaluator(stream)
		out, err := e.Run(circ, bits)
		if err != nil {
			log.Error("Evaluation session failed", "err", err)
			return err
		}

		if c.OutputPath == "" {
			log.Info("Evaluation result", "bits", out)
			return nil
		}
		return writeOutput(c.OutputPath, out)
	},
}

func writeOutput(path string, bits []byte) error {
	buf := make([]byte, len(bits))
	for i, b := range bits {
		buf[i] = '0' + b
	}
	return os.WriteFile(path, buf, 0o644)
}

func init() {
	flags := runEvaluatorCmd.Flags()
	flags.Int64("port", 0, "local port to listen on")
	flags.String("circuit", "", "path to a Bristol-fashion circuit file")
	flags.String("input", "", "this party's input bits, as a string of 0/1 characters")
	flags.String("output", "", "file to write the decoded output bits to (stdout log if empty)")
}
