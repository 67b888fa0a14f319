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

// Package protoerr collects the sentinel errors the protocol layer
// returns, in the same package-level Err* style as the teacher's
// crypto/ot error variables.
package protoerr

import "errors"

var (
	// ErrIO names the short-read, broken-stream and write-failure kind.
	// No code in this module returns it: such failures reach the caller
	// as the stream's own error.
	ErrIO = errors.New("protocol: i/o failure")
	// ErrProtocol marks a garbled table whose sync-index byte is not the
	// expected one. Base-OT and OT-extension failures are returned as
	// those packages' own errors, not as ErrProtocol.
	ErrProtocol = errors.New("protocol: protocol violation")
	// ErrInput marks a caller-supplied input that does not match the
	// circuit's declared input size.
	ErrInput = errors.New("protocol: wrong input size")
)
