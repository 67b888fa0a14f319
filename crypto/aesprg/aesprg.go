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

// Package aesprg implements the seed-expanding PRG the OT-extension rows
// are drawn from: AES-128 in counter mode, keyed by the 128-bit seed,
// counter starting at zero.
package aesprg

import (
	"crypto/aes"
	"crypto/cipher"
)

// AesRng is a stateful AES-CTR pseudorandom generator. Two generators
// constructed with the same seed produce identical output streams; a
// single generator never repeats a counter value within its lifetime.
type AesRng struct {
	stream cipher.Stream
}

// New constructs a PRG from a 128-bit seed, used directly as the AES key
// with a zero IV/counter start, matching the IKNP-style `prg(seed)`
// construction this package is grounded on.
func New(seed [16]byte) (*AesRng, error) {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	var iv [16]byte
	return &AesRng{stream: cipher.NewCTR(block, iv[:])}, nil
}

// Random fills buf with the next len(buf) pseudorandom bytes. Non-multiple
// of 16 lengths simply consume a partial final keystream block; the next
// call to Random continues with the unused rest of that block, so
// consecutive calls yield the same bytes as one call of their total length.
func (r *AesRng) Random(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	r.stream.XORKeyStream(buf, buf)
}

// RandomBytes returns n freshly allocated pseudorandom bytes.
func (r *AesRng) RandomBytes(n int) []byte {
	buf := make([]byte, n)
	r.Random(buf)
	return buf
}
