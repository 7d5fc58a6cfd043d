package recording

import "io"

// Backend receives recorded commands on playback.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions:
//
//	func init() {
//	    recording.Register("listing", func() recording.Backend {
//	        return New()
//	    })
//	}
type Backend interface {
	// Begin starts the playback of the named recording.
	Begin(name string) error

	// Execute handles one command. References resolve through res.
	Execute(cmd Command, res *ResourcePool) error

	// End finishes the playback.
	End() error
}

// WriterBackend extends Backend with the ability to write its output to an
// io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes everything played back since creation.
	WriteTo(w io.Writer) (int64, error)
}
