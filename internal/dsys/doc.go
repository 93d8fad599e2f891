// Package dsys provides the base abstraction for discrete-time SISO blocks.
//
// Every block in a sampled control loop shares the same bookkeeping: a
// sampling period, a step counter, and a circular history of processed
// samples. The package centralizes that bookkeeping in [System] so concrete
// blocks only supply the math:
//
//   - [Stepper]: the per-sample computation and its state-clear hook
//   - [System]: wraps a Stepper with the sample buffer and step counter
//   - [Sample]: one (input, output, step) triple
//
// A System guarantees that every accepted input is computed, recorded, and
// counted, in that order. Concrete blocks cannot skip or reorder those
// steps because the Stepper hooks are only ever invoked by the wrapper.
//
// # Example
//
//	plant, _ := plant.NewTransferFunction([]float64{1}, []float64{1, -0.5}, 0.1, dsys.DefaultCapacity)
//	y := plant.Advance(1.0)
//	plant.Dump(os.Stdout, dsys.FormatTSV)
//
// # Thread Safety
//
// System instances are NOT thread-safe. Each instance assumes a single
// logical stream of samples; wrap access in external synchronization if a
// block is ever shared between goroutines.
package dsys
