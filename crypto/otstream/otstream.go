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

// Package otstream frames the fixed-size blocks and variable-length byte
// strings the base-OT and OT-extension protocols exchange over a plain
// io.ReadWriter, with explicit length prefixes and short-read detection.
package otstream

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/getamis/secureot/crypto/block"
)

// ErrLength is returned when a length-prefixed read does not match the
// length the caller expected.
var ErrLength = errors.New("otstream: unexpected length")

// WriteBlock writes exactly one 16-byte block, unframed (the caller always
// knows how many blocks follow next).
func WriteBlock(w io.Writer, b block.Block) error {
	_, err := w.Write(b[:])
	return err
}

// ReadBlock reads exactly one 16-byte block.
func ReadBlock(r io.Reader) (block.Block, error) {
	var b block.Block
	_, err := io.ReadFull(r, b[:])
	return b, err
}

// WriteBytes writes a length-prefixed byte string: a little-endian uint32
// length followed by the payload.
func WriteBytes(w io.Writer, p []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(p)
	return err
}

// ReadBytes reads a length-prefixed byte string and checks it is exactly
// want bytes long (use -1 to accept any length).
func ReadBytes(r io.Reader, want int) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if want >= 0 && int(n) != want {
		return nil, ErrLength
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteRaw writes p with no framing at all, for fixed-length payloads whose
// size both peers already agree on (e.g. whole OT-extension matrix rows).
func WriteRaw(w io.Writer, p []byte) error {
	_, err := w.Write(p)
	return err
}

// ReadRaw reads exactly len(buf) bytes into buf with no framing.
func ReadRaw(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}
