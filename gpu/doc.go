// Package gpu evaluates a normalized batch on a data-parallel device.
//
// Each (series, frequency) cell of the output is an independent execution
// unit. Units are grouped into two-dimensional blocks and launched on a
// Stream; the host blocks on Stream.Synchronize before reading results.
//
// A backend must be registered before use. HostBackend emulates a device on
// goroutines and is always available; a WebGPU backend is compiled in with the
// webgpu build tag.
package gpu
