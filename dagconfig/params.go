// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import "time"

// Params tunes the coloring engine, the recovery loop, and the agent state
// machine. It replaces the teacher's per-network Params struct (mainnet,
// testnet, simnet, devnet proof-of-work parameters) with the handful of
// knobs this module's domain actually needs; see DESIGN.md for what was
// dropped and why.
type Params struct {
	// Name identifies this parameter set, for logging and config echoing.
	Name string

	// K is the PHANTOM k-cluster parameter passed to ColorDAG.
	K uint32

	// PartitionThresholdMultiplier scales K into the divergence-depth
	// threshold past which the recovery loop reports PARTITIONED instead
	// of attempting recovery.
	PartitionThresholdMultiplier uint32

	// MaxRecoveryBatch bounds how many missing blocks a single
	// StartRecovery command will request from the block source.
	MaxRecoveryBatch int

	// CheckInterval is how often the recovery loop polls for divergence.
	CheckInterval time.Duration
}

// defaultK mirrors the teacher's const phantomK = 10.
const defaultK = 10

// MainNetParams is the default parameter set.
var MainNetParams = Params{
	Name:                          "mainnet",
	K:                             defaultK,
	PartitionThresholdMultiplier: 3,
	MaxRecoveryBatch:              500,
	CheckInterval:                 5 * time.Second,
}

// SimNetParams relaxes timing for local development and tests: a smaller k
// keeps coloring fast over synthetic DAGs, and a short check interval makes
// the recovery loop responsive in test harnesses.
var SimNetParams = Params{
	Name:                          "simnet",
	K:                             3,
	PartitionThresholdMultiplier: 3,
	MaxRecoveryBatch:              100,
	CheckInterval:                 100 * time.Millisecond,
}

// ByName returns the well-known parameter set matching name, and whether one
// was found.
func ByName(name string) (Params, bool) {
	switch name {
	case MainNetParams.Name:
		return MainNetParams, true
	case SimNetParams.Name:
		return SimNetParams, true
	default:
		return Params{}, false
	}
}
