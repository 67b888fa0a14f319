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

package protocol

import (
	"io"
	"sync"
	"testing"

	"github.com/getamis/secureot/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipe struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipe) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipe) Write(b []byte) (int, error) { return p.w.Write(b) }

func newPair() (io.ReadWriter, io.ReadWriter) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	return &pipe{r: ar, w: aw}, &pipe{r: br, w: bw}
}

func runOneShot(t *testing.T, c *circuit.Circuit, garblerBits, evaluatorBits []byte) []byte {
	t.Helper()
	garblerSide, evaluatorSide := newPair()

	g := NewGarbler(garblerSide)
	e := NewEvaluator(evaluatorSide)

	var wg sync.WaitGroup
	var garbleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		garbleErr = g.Run(c, garblerBits)
	}()

	out, err := e.Run(c, evaluatorBits)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, garbleErr)
	return out
}

func toBitsLSB(x uint64, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte((x >> uint(i)) & 1)
	}
	return out
}

func fromBitsLSB(bits []byte) uint64 {
	var x uint64
	for i, b := range bits {
		if b&1 == 1 {
			x |= 1 << uint(i)
		}
	}
	return x
}

func TestAndGateThreeCases(t *testing.T) {
	c, err := circuit.LoadBristol("testdata/and.bristol")
	require.NoError(t, err)

	cases := []struct {
		a, b, want byte
	}{
		{1, 1, 1},
		{1, 0, 0},
		{0, 1, 0},
	}
	for _, tc := range cases {
		got := runOneShot(t, c, []byte{tc.a}, []byte{tc.b})
		assert.Equal(t, []byte{tc.want}, got, "AND(a=%d,b=%d)", tc.a, tc.b)
	}
}

func TestSixteenBitAdder(t *testing.T) {
	c, err := circuit.LoadBristol("testdata/adder16.bristol")
	require.NoError(t, err)

	garblerBits := toBitsLSB(0x1234, 16)
	evaluatorBits := append(toBitsLSB(0xABCD, 16), 0) // trailing 0 is the fixed carry-in wire

	got := runOneShot(t, c, garblerBits, evaluatorBits)
	require.Len(t, got, 16)
	assert.Equal(t, uint64(0xBE01), fromBitsLSB(got))
}

func TestIdentityCircuitOn128EvaluatorBits(t *testing.T) {
	c, err := circuit.LoadBristol("testdata/identity128.bristol")
	require.NoError(t, err)

	evaluatorBits := make([]byte, 128)
	for i := range evaluatorBits {
		evaluatorBits[i] = byte(i % 2)
	}

	got := runOneShot(t, c, nil, evaluatorBits)
	assert.Equal(t, evaluatorBits, got)
}

func TestParallelAndGates(t *testing.T) {
	c, err := circuit.LoadBristol("testdata/and.bristol")
	require.NoError(t, err)

	circuits := []*circuit.Circuit{c, c, c, c}
	garblerBits := [][]byte{{1}, {1}, {0}, {0}}
	evaluatorBits := [][]byte{{1}, {0}, {1}, {0}}
	want := [][]byte{{1}, {0}, {0}, {0}}

	garblerSide, evaluatorSide := newPair()
	g := NewGarbler(garblerSide)
	e := NewEvaluator(evaluatorSide)

	var wg sync.WaitGroup
	var garbleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		garbleErr = g.RunParallel(circuits, garblerBits)
	}()

	got, err := e.RunParallel(circuits, evaluatorBits)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, garbleErr)

	assert.Equal(t, want, got)
}
