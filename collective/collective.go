// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package collective connects tensor backends of cooperating ranks.
//
// A Communicator is one rank's view of its peers. Group provides
// communicators for ranks that run as goroutines of one process:
//
//	group := collective.NewGroup(2)
//	a := cpu.New(cpu.WithCommunicator(group.Rank(0)))
//	b := cpu.New(cpu.WithCommunicator(group.Rank(1)))
package collective

import (
	"github.com/born-ml/born-collective/internal/collective"
)

// Communicator connects one rank to its peers.
type Communicator = collective.Communicator

// Group is an in-process set of ranks that rendezvous on every reduction.
type Group = collective.Group

// Stats counts completed reductions of a Group.
type Stats = collective.Stats

// ErrSizeMismatch is returned when ranks contribute buffers of different lengths.
var ErrSizeMismatch = collective.ErrSizeMismatch

// ErrAborted is returned to every rank of a reduction that one rank left.
var ErrAborted = collective.ErrAborted

// NewGroup creates a group of n ranks.
func NewGroup(n int) *Group {
	return collective.NewGroup(n)
}
