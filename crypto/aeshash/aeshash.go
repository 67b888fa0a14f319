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

// Package aeshash builds the correlation-robust and circular-correlation-
// robust hash functions the OT extension and base OT rely on, both keyed
// instances of the fixed-key AES-128 permutation in crypto/aesfixed.
package aeshash

import (
	"github.com/getamis/secureot/crypto/aesfixed"
	"github.com/getamis/secureot/crypto/block"
	"github.com/gtank/ristretto255"
)

// AesHash wraps a single fixed AES-128 key used as pi(x) = AES(K, x) in the
// correlation-robust hash pi(x) xor x.
type AesHash struct {
	aes *aesfixed.Aes128
}

// New builds an AesHash from a 128-bit key. Every OT-extension session
// samples and agrees on a fresh key rather than reusing a hardcoded
// constant (see DESIGN.md, section G, "AES-hash key").
func New(key [16]byte) (*AesHash, error) {
	a, err := aesfixed.New(key)
	if err != nil {
		return nil, err
	}
	return &AesHash{aes: a}, nil
}

// CrHash computes the correlation-robust hash pi(x) xor x. It takes no
// index or tweak argument: the output depends on x and the key alone.
func (h *AesHash) CrHash(x block.Block) block.Block {
	return block.Xor(h.aes.EncryptBlock(x), x)
}

// CcrHash computes the circular-correlation-robust hash used when hashing
// two correlated 64-bit halves of a 128-bit row: sigma(x) rotates the low
// 64 bits into the high 64 bits xor'd with the low 64 bits, then applies
// CrHash.
func (h *AesHash) CcrHash(x block.Block) block.Block {
	var sigma block.Block
	for i := 0; i < 8; i++ {
		sigma[i] = x[i] ^ x[i+8]
		sigma[i+8] = x[i+8]
	}
	return h.CrHash(sigma)
}

// HashPoint hashes a Ristretto255 group element tagged with an index i, as
// used by the Chou-Orlandi base OT to derive a one-time pad from a DH
// shared point: the point's canonical 32-byte encoding's first 16 bytes
// become an AES key, which encrypts the little-endian encoding of i.
func HashPoint(i uint64, p *ristretto255.Element) (block.Block, error) {
	enc := p.Encode(nil)
	var key [16]byte
	copy(key[:], enc[:16])
	a, err := aesfixed.New(key)
	if err != nil {
		return block.Block{}, err
	}
	return a.EncryptBlock(block.LittleEndianUint128(i)), nil
}
