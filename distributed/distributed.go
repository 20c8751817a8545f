// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package distributed

import (
	"github.com/born-ml/born-collective/internal/distributed"
	"github.com/born-ml/born-collective/tensor"
)

// Backend identifies the transport connecting the processes of a run.
type Backend = distributed.Backend

// Supported transports.
const (
	Gloo      Backend = distributed.Gloo
	NCCL      Backend = distributed.NCCL
	Stub      Backend = distributed.Stub
	InProcess Backend = distributed.InProcess
)

// ParseBackend parses a transport name case-insensitively.
func ParseBackend(s string) (Backend, error) {
	return distributed.ParseBackend(s)
}

// Config is the bootstrap result consumed by Init.
type Config = distributed.Config

// Environment variables read by ConfigFromEnv.
const (
	EnvBackend   = distributed.EnvBackend
	EnvWorldSize = distributed.EnvWorldSize
	EnvRank      = distributed.EnvRank
)

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	return distributed.LoadConfig(path)
}

// ParseConfig decodes a YAML config.
func ParseConfig(data []byte) (Config, error) {
	return distributed.ParseConfig(data)
}

// ConfigFromEnv builds a config from the BORN_* environment variables.
func ConfigFromEnv() (Config, error) {
	return distributed.ConfigFromEnv()
}

// Info is the distributed state of one process.
type Info = distributed.Info

// Errors
var (
	ErrAlreadyInitialized = distributed.ErrAlreadyInitialized
	ErrInvalidConfig      = distributed.ErrInvalidConfig
)

// New creates an uninitialized Info.
func New() *Info {
	return distributed.New()
}

// Instance returns the process-wide Info.
func Instance() *Info {
	return distributed.Instance()
}

// Init initializes the process-wide run. Only the first call succeeds.
func Init(cfg Config) error {
	return distributed.Init(cfg)
}

// IsDistributedInit reports whether the process-wide run is initialized.
func IsDistributedInit() bool {
	return distributed.IsDistributedInit()
}

// DistributedBackend returns the transport of the process-wide run.
func DistributedBackend() Backend {
	return distributed.DistributedBackend()
}

// GetWorldSize returns the number of processes, 1 before Init.
func GetWorldSize() int {
	return distributed.GetWorldSize()
}

// GetWorldRank returns the rank of this process, 0 before Init.
func GetWorldRank() int {
	return distributed.GetWorldRank()
}

// AllReduce sums t across the run, then multiplies it in place by scale.
func AllReduce(t *tensor.Tensor, scale float64, async bool) error {
	return distributed.AllReduce(t, scale, async)
}

// AllReduceMultiple sums every tensor of ts across the run in one call,
// then multiplies each in place by scale.
func AllReduceMultiple(ts []*tensor.Tensor, scale float64, async, contiguous bool) error {
	return distributed.AllReduceMultiple(ts, scale, async, contiguous)
}

// Barrier blocks until every process of the run has called Barrier.
func Barrier() error {
	return distributed.Barrier()
}
