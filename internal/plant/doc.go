// Package plant provides discrete-time SISO system models: a difference
// equation engine over transfer-function coefficients and a linear
// state-space engine. Both are built on the dsys block abstraction, so they
// share its sampling, buffering and reset semantics.
package plant
