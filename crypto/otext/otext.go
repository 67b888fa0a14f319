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

// Package otext implements the ALSZ OT extension: amplifying a small
// fixed number (SecurityParam) of base OTs into an arbitrary number of
// 1-out-of-2 block OTs using only symmetric-key operations.
//
// The protocol runs the base-OT pair's roles mirrored: the party that
// will act as OTE sender first acts as base-OT *receiver*, and vice
// versa. See SPEC_FULL.md §4.G for the full description; this follows the
// reference alsz.rs implementation except for the per-session hash key
// (agreeHashKeySender) and the padding of m to a multiple of 8.
package otext

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/getamis/secureot/crypto/aeshash"
	"github.com/getamis/secureot/crypto/aesprg"
	"github.com/getamis/secureot/crypto/baseot"
	"github.com/getamis/secureot/crypto/block"
	"github.com/getamis/secureot/crypto/otstream"
)

// SecurityParam is the number of base OTs the extension bootstraps from
// (k in the ALSZ paper), fixed at the statistical/computational security
// parameter of 128.
const SecurityParam = 128

// ErrNoInstances is returned when the caller asks for zero OTs.
var ErrNoInstances = errors.New("otext: instance count must be positive")

func paddedLen(m int) int {
	if m%8 == 0 {
		return m
	}
	return m + (8 - m%8)
}

// Send runs the OT-extension sender side, producing m correlated blocks
// transmitted as the (m0,m1) pairs in messages. It plays the base-OT
// receiver role for the bootstrap step. For m <= SecurityParam it skips
// the extension and goes straight to the base OT. The bit-matrix
// transpose this extension relies on needs a multiple of 8, so m above
// SecurityParam is silently padded with dummy message pairs up to the
// next multiple of 8; the receiver pads its choice vector identically and
// discards the corresponding padded outputs, so both sides agree on the
// padded size without any extra wire traffic.
func Send(rw io.ReadWriter, messages [][2]block.Block) error {
	m := len(messages)
	if m == 0 {
		return ErrNoInstances
	}
	if m <= SecurityParam {
		return baseot.Send(rw, messages)
	}
	if padded := paddedLen(m); padded != m {
		paddedMessages := make([][2]block.Block, padded)
		copy(paddedMessages, messages)
		return sendExt(rw, paddedMessages)
	}
	return sendExt(rw, messages)
}

func sendExt(rw io.ReadWriter, messages [][2]block.Block) error {
	m := len(messages)
	hashKey, err := agreeHashKeySender(rw)
	if err != nil {
		return err
	}
	hash, err := aeshash.New(hashKey)
	if err != nil {
		return err
	}

	s, err := randomBits(SecurityParam)
	if err != nil {
		return err
	}
	sPacked, err := block.BoolVecToU8Vec(s)
	if err != nil {
		return err
	}

	ks, err := baseot.Receive(rw, s)
	if err != nil {
		return err
	}

	// The sender of the OT extension plays the base-OT *receiver*: for
	// each of the SecurityParam base OTs it picks up exactly one of the
	// two seeds the OTE receiver offered, selected by s.
	rowBytes := m / 8
	q := make([]byte, SecurityParam*rowBytes)
	for j := 0; j < SecurityParam; j++ {
		rng, err := aesprg.New(ks[j])
		if err != nil {
			return err
		}
		row := rng.RandomBytes(rowBytes)

		u := make([]byte, rowBytes)
		if err := otstream.ReadRaw(rw, u); err != nil {
			return err
		}
		if !s[j] {
			for i := range u {
				u[i] = 0
			}
		}
		if err := block.XorInplace(row, u); err != nil {
			return err
		}
		copy(q[j*rowBytes:(j+1)*rowBytes], row)
	}

	qt, err := block.Transpose(q, SecurityParam, m)
	if err != nil {
		return err
	}

	for j, pair := range messages {
		qRow, err := block.FromBytes(qt[j*(SecurityParam/8) : (j+1)*(SecurityParam/8)])
		if err != nil {
			return err
		}
		y0 := block.Xor(hash.CrHash(qRow), pair[0])

		qRowXorS := block.Xor(qRow, mustBlock(sPacked))
		y1 := block.Xor(hash.CrHash(qRowXorS), pair[1])

		if err := otstream.WriteBlock(rw, y0); err != nil {
			return err
		}
		if err := otstream.WriteBlock(rw, y1); err != nil {
			return err
		}
	}
	return nil
}

// Receive runs the OT-extension receiver side for the choice bits in
// choices, returning the chosen block per instance. It plays the base-OT
// sender role for the bootstrap step.
func Receive(rw io.ReadWriter, choices []bool) ([]block.Block, error) {
	m := len(choices)
	if m == 0 {
		return nil, ErrNoInstances
	}
	if m <= SecurityParam {
		return baseot.Receive(rw, choices)
	}
	padded := paddedLen(m)
	if padded == m {
		return receiveExt(rw, choices)
	}
	paddedChoices := make([]bool, padded)
	copy(paddedChoices, choices)
	out, err := receiveExt(rw, paddedChoices)
	if err != nil {
		return nil, err
	}
	return out[:m], nil
}

func receiveExt(rw io.ReadWriter, choices []bool) ([]block.Block, error) {
	m := len(choices)
	hashKey, err := agreeHashKeyReceiver(rw)
	if err != nil {
		return nil, err
	}
	hash, err := aeshash.New(hashKey)
	if err != nil {
		return nil, err
	}

	seeds := make([][2]block.Block, SecurityParam)
	for i := range seeds {
		var k0, k1 block.Block
		if _, err := rand.Read(k0[:]); err != nil {
			return nil, err
		}
		if _, err := rand.Read(k1[:]); err != nil {
			return nil, err
		}
		seeds[i] = [2]block.Block{k0, k1}
	}
	if err := baseot.Send(rw, seeds); err != nil {
		return nil, err
	}

	r, err := block.BoolVecToU8Vec(choices)
	if err != nil {
		return nil, err
	}

	rowBytes := m / 8
	t := make([]byte, SecurityParam*rowBytes)
	for j := 0; j < SecurityParam; j++ {
		rng0, err := aesprg.New(seeds[j][0])
		if err != nil {
			return nil, err
		}
		rng1, err := aesprg.New(seeds[j][1])
		if err != nil {
			return nil, err
		}
		t0 := rng0.RandomBytes(rowBytes)
		g := rng1.RandomBytes(rowBytes)
		if err := block.XorInplace(g, t0); err != nil {
			return nil, err
		}
		if err := block.XorInplace(g, r); err != nil {
			return nil, err
		}
		if err := otstream.WriteRaw(rw, g); err != nil {
			return nil, err
		}
		copy(t[j*rowBytes:(j+1)*rowBytes], t0)
	}

	tt, err := block.Transpose(t, SecurityParam, m)
	if err != nil {
		return nil, err
	}

	out := make([]block.Block, m)
	for j, c := range choices {
		y0, err := otstream.ReadBlock(rw)
		if err != nil {
			return nil, err
		}
		y1, err := otstream.ReadBlock(rw)
		if err != nil {
			return nil, err
		}
		y := y0
		if c {
			y = y1
		}
		tRow, err := block.FromBytes(tt[j*(SecurityParam/8) : (j+1)*(SecurityParam/8)])
		if err != nil {
			return nil, err
		}
		out[j] = block.Xor(y, hash.CrHash(tRow))
	}
	return out, nil
}

func randomBits(n int) ([]bool, error) {
	buf := make([]byte, n/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return block.U8VecToBoolVec(buf), nil
}

func mustBlock(b []byte) block.Block {
	out, err := block.FromBytes(b)
	if err != nil {
		panic(err)
	}
	return out
}

// agreeHashKeySender and agreeHashKeyReceiver resolve the reference
// implementation's hardcoded zero AES-hash key into a real per-session
// key agreement: the sender samples a fresh key and sends it once, ahead
// of the bootstrap base OTs, so both sides key their correlation-robust
// hash identically without ever reusing a session's key.
func agreeHashKeySender(rw io.ReadWriter) ([16]byte, error) {
	var key [16]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, err
	}
	if err := otstream.WriteRaw(rw, key[:]); err != nil {
		return key, err
	}
	return key, nil
}

func agreeHashKeyReceiver(rw io.ReadWriter) ([16]byte, error) {
	var key [16]byte
	if err := otstream.ReadRaw(rw, key[:]); err != nil {
		return key, err
	}
	return key, nil
}
