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
	"encoding/binary"

	"github.com/getamis/secureot/crypto/block"
)

// EncodeTable serializes a GarbledTable to bytes: an 8-byte start counter,
// a 4-byte AND-gate count, the ciphertext pairs, and the output-decode
// bits, in that order. This is the wire format protocol.Garbler transmits
// to protocol.Evaluator.
func EncodeTable(t *GarbledTable) []byte {
	out := make([]byte, 8+4+len(t.Gates)*2*block.Size+len(t.OutputDecode))
	binary.LittleEndian.PutUint64(out[0:8], t.StartCounter)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(t.Gates)))
	off := 12
	for _, g := range t.Gates {
		copy(out[off:off+block.Size], g.TG[:])
		off += block.Size
		copy(out[off:off+block.Size], g.TE[:])
		off += block.Size
	}
	copy(out[off:], t.OutputDecode)
	return out
}

// DecodeTable is the inverse of EncodeTable. numOutputs must be supplied
// out of band (the evaluator already knows it from the circuit).
func DecodeTable(buf []byte, numOutputs int) (*GarbledTable, error) {
	if len(buf) < 12 {
		return nil, ErrMalformedBristol
	}
	startCounter := binary.LittleEndian.Uint64(buf[0:8])
	numGates := int(binary.LittleEndian.Uint32(buf[8:12]))

	off := 12
	want := off + numGates*2*block.Size + numOutputs
	if len(buf) != want {
		return nil, ErrMalformedBristol
	}

	gates := make([]HalfGateCiphertext, numGates)
	for i := range gates {
		tg, err := block.FromBytes(buf[off : off+block.Size])
		if err != nil {
			return nil, err
		}
		off += block.Size
		te, err := block.FromBytes(buf[off : off+block.Size])
		if err != nil {
			return nil, err
		}
		off += block.Size
		gates[i] = HalfGateCiphertext{TG: tg, TE: te}
	}

	decode := make([]byte, numOutputs)
	copy(decode, buf[off:])

	return &GarbledTable{StartCounter: startCounter, Gates: gates, OutputDecode: decode}, nil
}
