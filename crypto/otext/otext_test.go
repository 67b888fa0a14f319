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

package otext

import (
	"crypto/rand"
	"io"
	"sync"
	"testing"

	"github.com/getamis/secureot/crypto/baseot"
	"github.com/getamis/secureot/crypto/block"
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

func runExtension(t *testing.T, m int) ([][2]block.Block, []bool, []block.Block) {
	t.Helper()
	messages := make([][2]block.Block, m)
	for i := range messages {
		var m0, m1 block.Block
		_, err := rand.Read(m0[:])
		require.NoError(t, err)
		_, err = rand.Read(m1[:])
		require.NoError(t, err)
		messages[i] = [2]block.Block{m0, m1}
	}

	choiceBytes := make([]byte, (m+7)/8)
	_, err := rand.Read(choiceBytes)
	require.NoError(t, err)
	choices := block.U8VecToBoolVec(choiceBytes)[:m]

	senderSide, receiverSide := newPair()

	var wg sync.WaitGroup
	var sendErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		sendErr = Send(senderSide, messages)
	}()

	got, err := Receive(receiverSide, choices)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, sendErr)

	return messages, choices, got
}

func TestExtensionAboveSecurityParam(t *testing.T) {
	messages, choices, got := runExtension(t, 256)
	for i, c := range choices {
		want := messages[i][0]
		if c {
			want = messages[i][1]
		}
		assert.Equal(t, want, got[i])
	}
}

func TestExtensionManyInstances(t *testing.T) {
	messages, choices, got := runExtension(t, 4096)
	for i, c := range choices {
		want := messages[i][0]
		if c {
			want = messages[i][1]
		}
		assert.Equal(t, want, got[i])
	}
}

func TestExtensionFallsBackToBaseOTBelowThreshold(t *testing.T) {
	messages, choices, got := runExtension(t, 8)
	for i, c := range choices {
		want := messages[i][0]
		if c {
			want = messages[i][1]
		}
		assert.Equal(t, want, got[i])
	}
}

func TestExtensionAtAndJustAboveSecurityParam(t *testing.T) {
	for _, m := range []int{16, SecurityParam, SecurityParam + 1} {
		messages, choices, got := runExtension(t, m)
		require.Len(t, got, m)
		for i, c := range choices {
			want := messages[i][0]
			if c {
				want = messages[i][1]
			}
			assert.Equal(t, want, got[i], "m=%d index=%d", m, i)
		}
	}
}

func TestExtensionRejectsZeroInstances(t *testing.T) {
	senderSide, _ := newPair()
	err := Send(senderSide, nil)
	assert.ErrorIs(t, err, ErrNoInstances)

	_, receiverSide := newPair()
	_, err = Receive(receiverSide, nil)
	assert.ErrorIs(t, err, ErrNoInstances)
}

// TestFallbackMatchesBaseOTDirectly checks that for m at or below
// SecurityParam, otext.Send/Receive produce exactly the outcome a direct
// baseot.Send/Receive call would for the same messages and choices: the
// extension adds nothing but routing at this size.
func TestFallbackMatchesBaseOTDirectly(t *testing.T) {
	const m = 32
	messages := make([][2]block.Block, m)
	for i := range messages {
		messages[i] = [2]block.Block{
			block.LittleEndianUint128(uint64(10000 + i)),
			block.LittleEndianUint128(uint64(20000 + i)),
		}
	}
	choiceBytes := make([]byte, m/8)
	_, err := rand.Read(choiceBytes)
	require.NoError(t, err)
	choices := block.U8VecToBoolVec(choiceBytes)

	senderSide, receiverSide := newPair()
	var wg sync.WaitGroup
	var sendErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		sendErr = Send(senderSide, messages)
	}()
	got, err := Receive(receiverSide, choices)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, sendErr)

	directSenderSide, directReceiverSide := newPair()
	wg.Add(1)
	go func() {
		defer wg.Done()
		sendErr = baseot.Send(directSenderSide, messages)
	}()
	wantDirect, err := baseot.Receive(directReceiverSide, choices)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, sendErr)

	assert.Equal(t, wantDirect, got)
}

// TestExtensionAllZeroAndAllOneChoices runs the extension twice over the
// same messages, once with every choice bit 0 and once with every choice
// bit 1, and checks that each run returns the chosen message of every
// pair. It checks outputs only; the transcript itself is not inspected.
func TestExtensionAllZeroAndAllOneChoices(t *testing.T) {
	const m = 256
	messages := make([][2]block.Block, m)
	for i := range messages {
		messages[i] = [2]block.Block{
			block.LittleEndianUint128(uint64(1 + i)),
			block.LittleEndianUint128(uint64(100000 + i)),
		}
	}

	allZero := make([]bool, m)
	allOne := make([]bool, m)
	for i := range allOne {
		allOne[i] = true
	}

	run := func(choices []bool) []block.Block {
		senderSide, receiverSide := newPair()
		var wg sync.WaitGroup
		var sendErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendErr = Send(senderSide, messages)
		}()
		got, err := Receive(receiverSide, choices)
		require.NoError(t, err)
		wg.Wait()
		require.NoError(t, sendErr)
		return got
	}

	fromZero := run(allZero)
	fromOne := run(allOne)
	for i := range messages {
		assert.Equal(t, messages[i][0], fromZero[i])
		assert.Equal(t, messages[i][1], fromOne[i])
	}
}
