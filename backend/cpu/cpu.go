// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go compute backend.
package cpu

import (
	internalcpu "github.com/born-ml/adaround/internal/backend/cpu"
	"github.com/born-ml/adaround/internal/parallel"
	"github.com/born-ml/adaround/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelConfig controls how element-wise kernels are split across goroutines.
type ParallelConfig = parallel.Config

// New creates a CPU backend that parallelizes large kernels across all CPUs.
//
// Example:
//
//	backend := cpu.New()
//	w, _ := tensor.FromSlice([]float32{0.1, 0.2}, tensor.Shape{2}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// Sequential returns a ParallelConfig that runs every kernel on the calling goroutine.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}
