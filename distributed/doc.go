// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package distributed synchronizes tensors across the processes of a run.
//
// # Overview
//
// A run is described by its transport backend, world size and the rank of
// the current process. The bootstrap that discovers these values is not part
// of this package; it hands them over once through Init:
//
//	cfg, err := distributed.ConfigFromEnv() // BORN_DIST_BACKEND, BORN_WORLD_SIZE, BORN_RANK
//	if err != nil {
//	    return err
//	}
//	if err := distributed.Init(cfg); err != nil {
//	    return err
//	}
//
// Before Init the world size reads as 1 and every collective stays local.
//
// # Collectives
//
// AllReduce sums a tensor across all ranks and then scales it in place.
// The scale is always applied, so averaging divides by the world size:
//
//	err := distributed.AllReduce(grad, 1/float64(distributed.GetWorldSize()), false)
//
// Barrier blocks until every rank has reached it.
//
// # Explicit State
//
// The package-level functions share one process-wide Info. Tests and
// programs hosting several ranks create their own with New.
package distributed
