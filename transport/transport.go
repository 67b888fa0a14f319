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

// Package transport binds the protocol's io.ReadWriter sessions to a
// concrete libp2p host, so two processes can run a garbler/evaluator
// session over the network rather than an in-memory pipe.
package transport

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/getamis/sirius/log"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p-core/crypto"
	"github.com/libp2p/go-libp2p-core/host"
	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/protocol"
	"github.com/multiformats/go-multiaddr"
)

// Protocol is the libp2p protocol ID stream handlers register under.
const Protocol protocol.ID = "/secureot/1.0.0"

// Stream adapts a libp2p network.Stream to io.ReadWriteCloser, which is
// all the protocol package needs from its transport.
type Stream struct {
	network.Stream
}

// MakeHost creates a libp2p host listening on 127.0.0.1:port with an
// identity derived deterministically from port, so a session's address
// is reproducible across restarts without needing a persisted keyfile.
func MakeHost(port int64) (host.Host, error) {
	addr, err := multiaddr.NewMultiaddr(fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", port))
	if err != nil {
		return nil, err
	}
	priv, err := identityFromPort(port)
	if err != nil {
		return nil, err
	}
	return libp2p.New(context.Background(),
		libp2p.ListenAddrs(addr),
		libp2p.Identity(priv),
	)
}

// Addr returns the dialable multiaddr for the host listening on port,
// using the same deterministic identity MakeHost assigns it.
func Addr(port int64) (string, error) {
	priv, err := identityFromPort(port)
	if err != nil {
		return "", err
	}
	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/ip4/127.0.0.1/tcp/%d/p2p/%s", port, id), nil
}

func identityFromPort(port int64) (crypto.PrivKey, error) {
	r := rand.New(rand.NewSource(port))
	priv, _, err := crypto.GenerateKeyPairWithReader(crypto.Ed25519, 0, r)
	return priv, err
}

// ListenLibp2p registers a one-shot stream handler on h for Protocol and
// blocks until a single incoming stream arrives, returning it wrapped as
// a Stream. Intended for the evaluator side, which waits for the garbler
// to dial in.
func ListenLibp2p(h host.Host) (*Stream, error) {
	streams := make(chan network.Stream, 1)
	h.SetStreamHandler(Protocol, func(s network.Stream) {
		streams <- s
	})
	s := <-streams
	return &Stream{Stream: s}, nil
}

// DialLibp2p connects h to the peer at targetAddr and opens a Protocol
// stream to it. Intended for the garbler side, which initiates the
// session.
func DialLibp2p(ctx context.Context, h host.Host, targetAddr string) (*Stream, error) {
	maddr, err := multiaddr.NewMultiaddr(targetAddr)
	if err != nil {
		return nil, err
	}
	info, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return nil, err
	}
	if err := h.Connect(ctx, *info); err != nil {
		log.Warn("Failed to connect to peer", "target", targetAddr, "err", err)
		return nil, err
	}
	s, err := h.NewStream(ctx, info.ID, Protocol)
	if err != nil {
		log.Warn("Failed to open stream", "target", targetAddr, "err", err)
		return nil, err
	}
	return &Stream{Stream: s}, nil
}
