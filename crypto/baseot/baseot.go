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

// Package baseot implements the small number of 1-out-of-2 OTs the ALSZ
// extension bootstraps from: a Chou-Orlandi style construction over the
// Ristretto255 prime-order group, in the same spirit as this module's
// teacher's secp256k1-based crypto/ot base-OT pair but swapped onto the
// group the rest of this package's hashing already depends on.
//
// Sender holds a pair of 128-bit messages per OT instance; Receiver holds
// a single choice bit per instance and learns exactly one of the two
// messages.
package baseot

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/getamis/secureot/crypto/aeshash"
	"github.com/getamis/secureot/crypto/block"
	"github.com/getamis/secureot/crypto/otstream"
	"github.com/gtank/ristretto255"
)

// ErrTransfer is returned when a base-OT message is malformed or a peer's
// point fails to decode.
var ErrTransfer = errors.New("baseot: malformed transfer")

// Send runs the sender side of n 1-out-of-2 OTs over rw, one per entry of
// messages. messages[i] is the (m0, m1) pair for instance i.
func Send(rw io.ReadWriter, messages [][2]block.Block) error {
	a := ristretto255.NewScalar()
	if err := randomScalar(a); err != nil {
		return err
	}
	A := ristretto255.NewElement().ScalarBaseMult(a)
	if err := otstream.WriteBytes(rw, A.Encode(nil)); err != nil {
		return err
	}

	for i, pair := range messages {
		buf, err := otstream.ReadBytes(rw, 32)
		if err != nil {
			return err
		}
		B := ristretto255.NewElement()
		if _, err := B.Decode(buf); err != nil {
			return ErrTransfer
		}

		aB := ristretto255.NewElement().ScalarMult(a, B)
		k0, err := aeshash.HashPoint(uint64(i), aB)
		if err != nil {
			return err
		}
		aA := ristretto255.NewElement().ScalarMult(a, A)
		aBMinusAA := ristretto255.NewElement().Subtract(aB, aA)
		k1, err := aeshash.HashPoint(uint64(i), aBMinusAA)
		if err != nil {
			return err
		}

		e0 := block.Xor(k0, pair[0])
		e1 := block.Xor(k1, pair[1])
		if err := otstream.WriteBlock(rw, e0); err != nil {
			return err
		}
		if err := otstream.WriteBlock(rw, e1); err != nil {
			return err
		}
	}
	return nil
}

// Receive runs the receiver side of len(choices) 1-out-of-2 OTs over rw,
// returning the chosen message for each instance.
func Receive(rw io.ReadWriter, choices []bool) ([]block.Block, error) {
	buf, err := otstream.ReadBytes(rw, 32)
	if err != nil {
		return nil, err
	}
	A := ristretto255.NewElement()
	if _, err := A.Decode(buf); err != nil {
		return nil, ErrTransfer
	}

	out := make([]block.Block, len(choices))
	for i, c := range choices {
		b := ristretto255.NewScalar()
		if err := randomScalar(b); err != nil {
			return nil, err
		}
		bG := ristretto255.NewElement().ScalarBaseMult(b)
		B := bG
		if c {
			B = ristretto255.NewElement().Add(A, bG)
		}
		if err := otstream.WriteBytes(rw, B.Encode(nil)); err != nil {
			return nil, err
		}

		e0, err := otstream.ReadBlock(rw)
		if err != nil {
			return nil, err
		}
		e1, err := otstream.ReadBlock(rw)
		if err != nil {
			return nil, err
		}

		bA := ristretto255.NewElement().ScalarMult(b, A)
		k, err := aeshash.HashPoint(uint64(i), bA)
		if err != nil {
			return nil, err
		}
		if c {
			out[i] = block.Xor(k, e1)
		} else {
			out[i] = block.Xor(k, e0)
		}
	}
	return out, nil
}

func randomScalar(s *ristretto255.Scalar) error {
	var buf [64]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return err
	}
	s.FromUniformBytes(buf[:])
	return nil
}
