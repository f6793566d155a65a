// Package kernel evaluates the generalized (floating-mean) Fourier transform of
// a single irregularly sampled real series.
//
// For every non-zero angular frequency omega the sampling-dependent phase
// offset
//
//	tau = 0.5 * atan2(sum w*sin(2*omega*t), sum w*cos(2*omega*t))
//
// makes the shifted cosine and sine basis uncorrelated under the sample times,
// which is what keeps the transform well defined when samples are not evenly
// spaced. The coefficient is then
//
//	X = (sumr/sqrt(2*scos2) + i*sign*sumi/sqrt(2*ssin2)) * exp(i*(tau - omega*t0))
//
// and the Lomb-Scargle power is sumr^2/scos2 + sumi^2/ssin2. At omega == 0 the
// coefficient is the (weighted) mean divided by sqrt(n).
//
// Weights are applied to the values exactly once, in [Prepare], before any
// per-frequency accumulation.
package kernel
