package plant

import "github.com/san-kum/dtsim/internal/dsys"

// Motor plant defaults. The continuous model G(s) = 1/(0.5s + 1) is a
// typical first-order DC motor; Tustin discretization at Tp = 0.01 s gives
//
//	G(z) = (0.0099 + 0.0099 z^-1) / (1 - 0.9802 z^-1)
const DefaultMotorPeriod = 0.01

// NewMotor returns the discretized first-order motor plant at sampling
// period tp, buffered for closed-loop use.
func NewMotor(tp float64) (*TransferFunction, error) {
	return NewTransferFunction(
		[]float64{0.0099, 0.0099},
		[]float64{1.0, -0.9802},
		tp,
		dsys.LoopCapacity,
	)
}
