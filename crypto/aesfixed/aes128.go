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

// Package aesfixed wraps the standard library's constant-time AES-128
// block cipher behind the fixed-key, encrypt-only interface the
// correlation-robust hashes and the OT-extension PRG build on.
//
// There is no third-party AES implementation in the example corpus that
// improves on crypto/aes here: crypto/aes already dispatches to the
// AES-NI/ARMv8 constant-time assembly the spec requires, so this package
// is a thin, intentionally dependency-free adapter (see DESIGN.md).
package aesfixed

import (
	"crypto/aes"

	"github.com/getamis/secureot/crypto/block"
)

// Aes128 is a precomputed AES-128 key schedule used as a fixed-key
// pseudorandom permutation. It never decrypts.
type Aes128 struct {
	cipher interface {
		Encrypt(dst, src []byte)
	}
}

// New precomputes the round-key schedule for key.
func New(key [16]byte) (*Aes128, error) {
	c, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return &Aes128{cipher: c}, nil
}

// EncryptBlock runs one constant-time AES-128 encryption of x.
func (a *Aes128) EncryptBlock(x block.Block) block.Block {
	var out block.Block
	a.cipher.Encrypt(out[:], x[:])
	return out
}
