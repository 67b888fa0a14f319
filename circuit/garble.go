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
	"crypto/rand"
	"encoding/binary"

	"github.com/getamis/secureot/crypto/block"
)

// HalfGateCiphertext is the pair of 128-bit ciphertexts a single AND gate
// contributes to the garbled table, in gate (file) order.
type HalfGateCiphertext struct {
	TG block.Block
	TE block.Block
}

// GarbledTable is everything the garbler sends the evaluator: one
// ciphertext pair per AND gate and the output-decoding bits. It carries
// no secret the evaluator shouldn't see.
type GarbledTable struct {
	StartCounter uint64
	Gates        []HalfGateCiphertext
	OutputDecode []byte
}

// GarbledCircuit is the garbler's private state: the circuit's global
// offset and the zero-label of every wire. It is never transmitted.
type GarbledCircuit struct {
	Circuit *Circuit
	Delta   block.Block
	Zero    []block.Block
}

// Label0 returns wire i's zero label.
func (g *GarbledCircuit) Label0(wire int) block.Block {
	return g.Zero[wire]
}

// Label1 returns wire i's one label, Zero[i] xor Delta.
func (g *GarbledCircuit) Label1(wire int) block.Block {
	return block.Xor(g.Zero[wire], g.Delta)
}

// EncodeInput returns the label for wire i carrying the given bit.
func (g *GarbledCircuit) EncodeInput(wire int, bit byte) block.Block {
	if bit&1 == 1 {
		return g.Label1(wire)
	}
	return g.Label0(wire)
}

// Garble produces a fresh garbling of c: a private GarbledCircuit held by
// the garbler and a GarbledTable to transmit to the evaluator.
//
// The global offset Delta is sampled uniformly with its least-significant
// bit forced to 1, the free-XOR invariant that makes XOR gates free and
// lets point-and-permute bits double as wire-value selectors.
func Garble(c *Circuit) (*GarbledCircuit, *GarbledTable, error) {
	var delta block.Block
	if _, err := rand.Read(delta[:]); err != nil {
		return nil, nil, err
	}
	delta[block.Size-1] |= 1

	var startBuf [8]byte
	if _, err := rand.Read(startBuf[:]); err != nil {
		return nil, nil, err
	}
	startCounter := binary.LittleEndian.Uint64(startBuf[:])
	counter := startCounter

	zero := make([]block.Block, c.numWires)
	for i := 0; i < c.TotalInputSize(); i++ {
		if _, err := rand.Read(zero[i][:]); err != nil {
			return nil, nil, err
		}
	}

	var gates []HalfGateCiphertext
	for _, g := range c.gates {
		switch g.kind {
		case XOR:
			zero[g.outputWire] = block.Xor(zero[g.inputWires[0]], zero[g.inputWires[1]])
		case INV:
			zero[g.outputWire] = block.Xor(zero[g.inputWires[0]], delta)
		case EQ:
			zero[g.outputWire] = zero[g.inputWires[0]]
		case AND:
			j := counter
			jPrime := counter + 1
			counter += 2
			Wa0 := zero[g.inputWires[0]]
			Wb0 := zero[g.inputWires[1]]
			Wa1 := block.Xor(Wa0, delta)
			Wb1 := block.Xor(Wb0, delta)
			w0, tg, te, err := gbAnd(Wa0, Wa1, Wb0, Wb1, delta, j, jPrime)
			if err != nil {
				return nil, nil, err
			}
			zero[g.outputWire] = w0
			gates = append(gates, HalfGateCiphertext{TG: tg, TE: te})
		default:
			return nil, nil, ErrUnsupportedGate
		}
	}

	outputDecode := make([]byte, c.outputSize)
	outputStart := c.numWires - c.outputSize
	for i := 0; i < c.outputSize; i++ {
		outputDecode[i] = lsb(zero[outputStart+i])
	}

	gc := &GarbledCircuit{Circuit: c, Delta: delta, Zero: zero}
	table := &GarbledTable{StartCounter: startCounter, Gates: gates, OutputDecode: outputDecode}
	return gc, table, nil
}

// gbAnd computes one half-gates AND gate per "Two Halves Make a Whole",
// Figure 2: two correlation-robust-hash calls per half gate, combined
// into a single ciphertext pair (TG, TE) plus the output's zero label.
func gbAnd(Wa0, Wa1, Wb0, Wb1, delta block.Block, j, jPrime uint64) (block.Block, block.Block, block.Block, error) {
	pa := lsb(Wa0)
	pb := lsb(Wb0)

	hA0, err := mmoHash(Wa0, j)
	if err != nil {
		return block.Block{}, block.Block{}, block.Block{}, err
	}
	hA1, err := mmoHash(Wa1, j)
	if err != nil {
		return block.Block{}, block.Block{}, block.Block{}, err
	}
	tg := block.Xor(block.Xor(hA0, hA1), cmul(pb, delta))
	wg0 := block.Xor(hA0, cmul(pa, tg))

	hB0, err := mmoHash(Wb0, jPrime)
	if err != nil {
		return block.Block{}, block.Block{}, block.Block{}, err
	}
	hB1, err := mmoHash(Wb1, jPrime)
	if err != nil {
		return block.Block{}, block.Block{}, block.Block{}, err
	}
	te := block.Xor(block.Xor(hB0, hB1), Wa0)
	we0 := block.Xor(hB0, cmul(pb, block.Xor(te, Wa0)))

	return block.Xor(wg0, we0), tg, te, nil
}

// Evaluate runs a garbled circuit forward given the active label for
// every input wire, in wire-index order, returning the active label of
// every output wire.
func Evaluate(c *Circuit, table *GarbledTable, inputLabels []block.Block) ([]block.Block, error) {
	if len(inputLabels) != c.TotalInputSize() {
		return nil, ErrInputSize
	}

	w := make([]block.Block, c.numWires)
	copy(w, inputLabels)

	counter := table.StartCounter
	andIndex := 0
	for _, g := range c.gates {
		switch g.kind {
		case XOR:
			w[g.outputWire] = block.Xor(w[g.inputWires[0]], w[g.inputWires[1]])
		case INV:
			w[g.outputWire] = w[g.inputWires[0]]
		case EQ:
			w[g.outputWire] = w[g.inputWires[0]]
		case AND:
			if andIndex >= len(table.Gates) {
				return nil, ErrMalformedBristol
			}
			ct := table.Gates[andIndex]
			andIndex++
			j := counter
			jPrime := counter + 1
			counter += 2
			wOut, err := evalAnd(w[g.inputWires[0]], w[g.inputWires[1]], ct.TG, ct.TE, j, jPrime)
			if err != nil {
				return nil, err
			}
			w[g.outputWire] = wOut
		default:
			return nil, ErrUnsupportedGate
		}
	}

	outputStart := c.numWires - c.outputSize
	out := make([]block.Block, c.outputSize)
	copy(out, w[outputStart:])
	return out, nil
}

// evalAnd is the evaluator's half-gates reconstruction: it never learns
// Delta, only the active label and select bit for each wire.
func evalAnd(wa, wb, tg, te block.Block, j, jPrime uint64) (block.Block, error) {
	sa := lsb(wa)
	sb := lsb(wb)

	hA, err := mmoHash(wa, j)
	if err != nil {
		return block.Block{}, err
	}
	wg := block.Xor(hA, cmul(sa, tg))

	hB, err := mmoHash(wb, jPrime)
	if err != nil {
		return block.Block{}, err
	}
	we := block.Xor(hB, cmul(sb, block.Xor(te, wa)))

	return block.Xor(wg, we), nil
}

// Decode converts active output labels into plaintext bits using the
// garbler-provided decode table: bit i is decodeBit xor lsb(label).
func Decode(decodeTable []byte, labels []block.Block) []byte {
	out := make([]byte, len(labels))
	for i, l := range labels {
		out[i] = decodeTable[i] ^ lsb(l)
	}
	return out
}
