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

// Package config defines the typed configuration cmd/secureot binds its
// flags and config file values into through viper.
package config

import "fmt"

// Config describes one session endpoint: which circuit to run, which
// input bits this party contributes, and how to reach the other party.
type Config struct {
	Port       int64  `mapstructure:"port"`
	Peer       string `mapstructure:"peer"`
	Circuit    string `mapstructure:"circuit"`
	InputBits  string `mapstructure:"input"`
	OutputPath string `mapstructure:"output"`
}

// ParseBits turns a string of '0'/'1' characters into a bit-per-byte
// slice matching the convention circuit.Circuit input wires use.
func ParseBits(s string) ([]byte, error) {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case '0':
			out[i] = 0
		case '1':
			out[i] = 1
		default:
			return nil, &InvalidBitError{Index: i, Char: c}
		}
	}
	return out, nil
}

// InvalidBitError reports a non-'0'/'1' character in an input-bits flag.
type InvalidBitError struct {
	Index int
	Char  rune
}

func (e *InvalidBitError) Error() string {
	return fmt.Sprintf("config: invalid bit character %q at index %d", e.Char, e.Index)
}
