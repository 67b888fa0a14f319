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

package circuit

import (
	"github.com/getamis/secureot/crypto/aesfixed"
	"github.com/getamis/secureot/crypto/block"
)

// mmoHash implements the tweakable hash of "Better Concrete Security for
// Half-Gates Garbling" §4.2: H(x, i) = AES(i, sigma(x)) xor sigma(x),
// where sigma(xL||xR) = (xL xor xR) || xR. Keying AES by the gate index i
// gives a fresh permutation per call at the cost of a key schedule per
// hash; a production-grade variant would fix the key and fold i into the
// plaintext, but this module follows its teacher's per-call-keyed
// construction.
func mmoHash(x block.Block, index uint64) (block.Block, error) {
	key := block.LittleEndianUint128(index)
	a, err := aesfixed.New(key)
	if err != nil {
		return block.Block{}, err
	}
	s := sigma(x)
	return block.Xor(a.EncryptBlock(s), s), nil
}

// sigma implements sigma(xL||xR) = (xL xor xR) || xR for a 128-bit block
// split into two 64-bit halves.
func sigma(x block.Block) block.Block {
	var out block.Block
	for i := 0; i < 8; i++ {
		out[i] = x[i] ^ x[i+8]
		out[i+8] = x[i+8]
	}
	return out
}

// cmul returns R if bit is 1, else the zero block; used to select a
// correction term by a point-and-permute select bit.
func cmul(bit byte, r block.Block) block.Block {
	if bit&1 == 1 {
		return r
	}
	return block.Zero
}
