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

// Package protocol drives the circuit garbler and evaluator over a
// shared byte stream, delivering the garbler's own inputs directly and
// the evaluator's inputs through the OT extension, in the semi-honest
// two-party model.
package protocol

import (
	"io"
	"sync"

	"github.com/getamis/secureot/circuit"
	"github.com/getamis/secureot/crypto/block"
	"github.com/getamis/secureot/crypto/otext"
	"github.com/getamis/secureot/crypto/otstream"
	"github.com/getamis/secureot/protoerr"
)

// noSyncIndex is the wire sentinel meaning "this table is not part of a
// sync-indexed parallel batch".
const noSyncIndex = 0xFF

// Garbler drives the garbling side of one session over rw. A Garbler may
// be reused for multiple circuits; RunParallel serializes their wire
// traffic in ascending sync-index order even when garbling itself runs
// concurrently.
type Garbler struct {
	rw       io.ReadWriter
	writeMu  sync.Mutex
	writeErr error
}

// NewGarbler wraps rw for use as the garbling side of the protocol.
func NewGarbler(rw io.ReadWriter) *Garbler {
	return &Garbler{rw: rw}
}

// Run garbles c, sends the garbler's own input labels for the first
// len(garblerBits) input wires directly, delivers the remaining
// (evaluator) input wires' label pairs through OT extension, and writes
// the resulting garbled table with no sync-index tag.
func (g *Garbler) Run(c *circuit.Circuit, garblerBits []byte) error {
	return g.run(c, garblerBits, noSyncIndex)
}

// RunParallel garbles len(circuits) independent sub-circuits concurrently
// and transmits their OT exchanges and garbled tables strictly in
// ascending index order, so the wire traffic of different sub-circuits is
// never interleaved.
func (g *Garbler) RunParallel(circuits []*circuit.Circuit, garblerBits [][]byte) error {
	n := len(circuits)
	if len(garblerBits) != n {
		return protoerr.ErrInput
	}

	type result struct {
		gc    *circuit.GarbledCircuit
		table *circuit.GarbledTable
		err   error
	}
	results := make([]result, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gc, table, err := circuit.Garble(circuits[i])
			results[i] = result{gc: gc, table: table, err: err}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if results[i].err != nil {
			return results[i].err
		}
	}

	for i := 0; i < n; i++ {
		if err := g.send(circuits[i], results[i].gc, results[i].table, garblerBits[i], byte(i)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Garbler) run(c *circuit.Circuit, garblerBits []byte, syncIndex byte) error {
	gc, table, err := circuit.Garble(c)
	if err != nil {
		return err
	}
	return g.send(c, gc, table, garblerBits, syncIndex)
}

func (g *Garbler) send(c *circuit.Circuit, gc *circuit.GarbledCircuit, table *circuit.GarbledTable, garblerBits []byte, syncIndex byte) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}

	garblerSize := garblerInputSize(c)
	if len(garblerBits) != garblerSize {
		return protoerr.ErrInput
	}
	evaluatorSize := c.TotalInputSize() - garblerSize

	for i, bit := range garblerBits {
		label := gc.EncodeInput(i, bit)
		if err := otstream.WriteBlock(g.rw, label); err != nil {
			g.writeErr = err
			return err
		}
	}

	if evaluatorSize > 0 {
		pairs := make([][2]block.Block, evaluatorSize)
		for i := 0; i < evaluatorSize; i++ {
			wire := garblerSize + i
			pairs[i] = [2]block.Block{gc.Label0(wire), gc.Label1(wire)}
		}
		if err := otext.Send(g.rw, pairs); err != nil {
			g.writeErr = err
			return err
		}
	}

	buf := circuit.EncodeTable(table)
	if err := otstream.WriteRaw(g.rw, []byte{syncIndex}); err != nil {
		g.writeErr = err
		return err
	}
	if err := otstream.WriteBytes(g.rw, buf); err != nil {
		g.writeErr = err
		return err
	}
	return nil
}

// garblerInputSize is the convention this module uses for Bristol-fashion
// input-party partitioning: the first declared input party is the
// garbler, every subsequent party is folded into the evaluator's share.
func garblerInputSize(c *circuit.Circuit) int {
	sizes := c.InputSizes()
	if len(sizes) == 0 {
		return 0
	}
	return sizes[0]
}
