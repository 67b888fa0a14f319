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

package aeshash

import (
	"crypto/rand"
	"testing"

	"github.com/getamis/secureot/crypto/block"
	"github.com/gtank/ristretto255"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randElement(t *testing.T) *ristretto255.Element {
	t.Helper()
	var seed [64]byte
	_, err := rand.Read(seed[:])
	require.NoError(t, err)
	return ristretto255.NewElement().FromUniformBytes(seed[:])
}

func randBlock(t *testing.T) block.Block {
	t.Helper()
	var b block.Block
	_, err := rand.Read(b[:])
	require.NoError(t, err)
	return b
}

func TestCrHashDeterministic(t *testing.T) {
	var key [16]byte
	copy(key[:], []byte("0123456789abcdef"))
	h, err := New(key)
	require.NoError(t, err)

	x := randBlock(t)
	assert.Equal(t, h.CrHash(x), h.CrHash(x))
}

func TestCrHashDiffersFromInput(t *testing.T) {
	var key [16]byte
	copy(key[:], []byte("0123456789abcdef"))
	h, err := New(key)
	require.NoError(t, err)

	x := randBlock(t)
	assert.NotEqual(t, x, h.CrHash(x))
}

func TestCcrHashDeterministic(t *testing.T) {
	var key [16]byte
	copy(key[:], []byte("0123456789abcdef"))
	h, err := New(key)
	require.NoError(t, err)

	x := randBlock(t)
	assert.Equal(t, h.CcrHash(x), h.CcrHash(x))
}

func TestDifferentKeysDiffer(t *testing.T) {
	var k1, k2 [16]byte
	copy(k1[:], []byte("0123456789abcdef"))
	copy(k2[:], []byte("fedcba9876543210"))
	h1, err := New(k1)
	require.NoError(t, err)
	h2, err := New(k2)
	require.NoError(t, err)

	x := randBlock(t)
	assert.NotEqual(t, h1.CrHash(x), h2.CrHash(x))
}

func TestHashPointDeterministicAndIndexed(t *testing.T) {
	p := randElement(t)

	b1, err := HashPoint(7, p)
	require.NoError(t, err)
	b2, err := HashPoint(7, p)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	b3, err := HashPoint(8, p)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b3)
}
