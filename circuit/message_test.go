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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTableRoundTrip(t *testing.T) {
	c := &Circuit{
		numWires:   3,
		inputSizes: []int{1, 1},
		outputSize: 1,
		gates: []gateSpec{
			{inputWires: []int{0, 1}, outputWire: 2, kind: AND},
		},
	}
	_, table, err := Garble(c)
	require.NoError(t, err)

	buf := EncodeTable(table)
	got, err := DecodeTable(buf, len(table.OutputDecode))
	require.NoError(t, err)

	assert.Equal(t, table.StartCounter, got.StartCounter)
	assert.Equal(t, table.Gates, got.Gates)
	assert.Equal(t, table.OutputDecode, got.OutputDecode)
}

func TestDecodeTableRejectsTruncated(t *testing.T) {
	_, err := DecodeTable([]byte{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrMalformedBristol)
}
