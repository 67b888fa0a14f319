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
	"context"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getamis/secureot/circuit"
	"github.com/getamis/secureot/internal/config"
	"github.com/getamis/secureot/protocol"
	"github.com/getamis/secureot/transport"
)

var runGarblerCmd = &cobra.Command{
	Use:   "run-garbler",
	Short: "Run this process as the garbling party, dialing the evaluator",
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
		stream, err := transport.DialLibp2p(context.Background(), h, c.Peer)
		if err != nil {
			log.Error("Failed to dial evaluator", "peer", c.Peer, "err", err)
			return err
		}
		defer stream.Close()

		g := protocol.NewGarbler(stream)
		if err := g.Run(circ, bits); err != nil {
			log.Error("Garbling session failed", "err", err)
			return err
		}
		log.Info("Garbling session completed")
		return nil
	},
}

func init() {
	flags := runGarblerCmd.Flags()
	flags.Int64("port", 0, "local port to listen on")
	flags.String("peer", "", "evaluator's multiaddr")
	flags.String("circuit", "", "path to a Bristol-fashion circuit file")
	flags.String("input", "", "this party's input bits, as a string of 0/1 characters")
}
