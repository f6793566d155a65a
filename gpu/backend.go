package gpu

import "sync"

// Backend is implemented by device backends. It is responsible for device
// discovery and context creation.
type Backend interface {
	Info() BackendInfo
	Available() bool
	Devices() ([]DeviceInfo, error)
	NewContext(deviceIndex int) (Context, error)
}

// Context is a backend-specific context tied to one device.
type Context interface {
	Device() DeviceInfo
	// NewBuffer allocates a device buffer of n elements.
	NewBuffer(n int, kind ElementKind) (Buffer, error)
	// NewStream creates an execution queue.
	NewStream() (Stream, error)
	// NewKernel compiles the transform kernel for this device.
	NewKernel() (KernelImpl, error)
	Close() error
}

// Buffer is a device buffer.
type Buffer interface {
	Len() int
	Kind() ElementKind
	// Upload copies a host slice of the buffer's element type to the device.
	Upload(src any) error
	// Download copies the device contents into a host slice.
	Download(dst any) error
	Close() error
}

// Stream is an execution queue. Launches are asynchronous; Synchronize
// blocks until every launched unit has finished.
type Stream interface {
	Synchronize() error
	Close() error
}

// KernelImpl is a compiled transform kernel.
type KernelImpl interface {
	// Launch enqueues one unit per output cell on s, grouped in blocks of
	// size block. It returns once the work is enqueued.
	Launch(s Stream, args KernelArgs, block Dims) error
	Close() error
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// RegisterBackend registers the device backend. Passing nil clears it.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// CurrentBackendInfo reports the currently registered backend, if any.
func CurrentBackendInfo() (BackendInfo, bool) {
	b := getBackend()
	if b == nil {
		return BackendInfo{}, false
	}
	return b.Info(), true
}

func getBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}
