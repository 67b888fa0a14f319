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

	"github.com/getamis/secureot/circuit"
	"github.com/getamis/secureot/crypto/block"
	"github.com/getamis/secureot/crypto/otext"
	"github.com/getamis/secureot/crypto/otstream"
	"github.com/getamis/secureot/protoerr"
)

// Evaluator drives the evaluating side of one session over rw.
type Evaluator struct {
	rw io.Reader
	w  io.Writer
}

// evalStream satisfies the io.ReadWriter the OT code needs when the
// underlying connection is a single duplex stream.
type evalStream struct {
	io.Reader
	io.Writer
}

// NewEvaluator wraps a duplex stream for use as the evaluating side of
// the protocol.
func NewEvaluator(rw io.ReadWriter) *Evaluator {
	return &Evaluator{rw: rw, w: rw}
}

// Run receives and evaluates one garbled circuit, returning the decoded
// plaintext output bits.
func (e *Evaluator) Run(c *circuit.Circuit, evaluatorBits []byte) ([]byte, error) {
	return e.recv(c, evaluatorBits, noSyncIndex)
}

// RunParallel receives and evaluates len(circuits) sub-circuits. It does
// not demultiplex by sync index: it relies on Garbler.RunParallel's
// guarantee that sub-circuits are transmitted strictly in ascending
// index order, and reassembles positionally in that same order. Each
// table's sync-index byte is checked against the position it was read
// at, so a reordered or dropped table is caught as a protocol error
// rather than silently mismatched to the wrong circuit.
func (e *Evaluator) RunParallel(circuits []*circuit.Circuit, evaluatorBits [][]byte) ([][]byte, error) {
	if len(evaluatorBits) != len(circuits) {
		return nil, protoerr.ErrInput
	}
	out := make([][]byte, len(circuits))
	for i, c := range circuits {
		result, err := e.recv(c, evaluatorBits[i], byte(i))
		if err != nil {
			return nil, err
		}
		out[i] = result
	}
	return out, nil
}

func (e *Evaluator) recv(c *circuit.Circuit, evaluatorBits []byte, wantIndex byte) ([]byte, error) {
	garblerSize := garblerInputSize(c)
	evaluatorSize := c.TotalInputSize() - garblerSize
	if len(evaluatorBits) != evaluatorSize {
		return nil, protoerr.ErrInput
	}

	inputLabels := make([]block.Block, c.TotalInputSize())
	for i := 0; i < garblerSize; i++ {
		label, err := otstream.ReadBlock(e.rw)
		if err != nil {
			return nil, err
		}
		inputLabels[i] = label
	}

	if evaluatorSize > 0 {
		choices := make([]bool, evaluatorSize)
		for i, b := range evaluatorBits {
			choices[i] = b&1 == 1
		}
		rw := evalStream{Reader: e.rw, Writer: e.w}
		labels, err := otext.Receive(rw, choices)
		if err != nil {
			return nil, err
		}
		copy(inputLabels[garblerSize:], labels)
	}

	idxBuf := make([]byte, 1)
	if err := otstream.ReadRaw(e.rw, idxBuf); err != nil {
		return nil, err
	}
	if idxBuf[0] != wantIndex {
		return nil, protoerr.ErrProtocol
	}

	raw, err := otstream.ReadBytes(e.rw, -1)
	if err != nil {
		return nil, err
	}
	table, err := circuit.DecodeTable(raw, c.OutputSize())
	if err != nil {
		return nil, err
	}

	outLabels, err := circuit.Evaluate(c, table, inputLabels)
	if err != nil {
		return nil, err
	}
	return circuit.Decode(table.OutputDecode, outLabels), nil
}
