// Package listing provides text backends for recorded passes.
//
// Importing the package registers two backends:
//
//   - "listing" writes one line per command
//   - "summary" writes one line per recording with command counts
package listing

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gogpu/projector/recording"
)

func init() {
	recording.Register("listing", func() recording.Backend { return New() })
	recording.Register("summary", func() recording.Backend { return NewSummary() })
}

// Backend writes one line per command.
type Backend struct {
	buf  bytes.Buffer
	name string
	n    int
}

var _ recording.WriterBackend = (*Backend)(nil)

// New creates an empty listing backend.
func New() *Backend { return &Backend{} }

// Begin implements recording.Backend.
func (b *Backend) Begin(name string) error {
	b.name, b.n = name, 0
	fmt.Fprintf(&b.buf, "== %s\n", name)
	return nil
}

// Execute implements recording.Backend.
func (b *Backend) Execute(cmd recording.Command, res *recording.ResourcePool) error {
	fmt.Fprintf(&b.buf, "%4d  %s\n", b.n, recording.Describe(cmd, res))
	b.n++
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if b.n == 0 {
		b.buf.WriteString("      (no commands)\n")
	}
	return nil
}

// WriteTo implements recording.WriterBackend.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	return b.buf.WriteTo(w)
}

// Summary writes the number of commands per type of each recording.
type Summary struct {
	buf    bytes.Buffer
	name   string
	counts map[recording.CommandType]int
}

var _ recording.WriterBackend = (*Summary)(nil)

// NewSummary creates an empty summary backend.
func NewSummary() *Summary {
	return &Summary{counts: make(map[recording.CommandType]int)}
}

// Begin implements recording.Backend.
func (s *Summary) Begin(name string) error {
	s.name = name
	clear(s.counts)
	return nil
}

// Execute implements recording.Backend.
func (s *Summary) Execute(cmd recording.Command, _ *recording.ResourcePool) error {
	s.counts[cmd.Type()]++
	return nil
}

// End implements recording.Backend.
func (s *Summary) End() error {
	fmt.Fprintf(&s.buf, "%s: %d targets, %d meshes, %d renderer draws\n", s.name,
		s.counts[recording.CmdSetRenderTarget],
		s.counts[recording.CmdDrawMesh],
		s.counts[recording.CmdDrawRenderers])
	return nil
}

// Counts returns the count of t in the last recording.
func (s *Summary) Counts(t recording.CommandType) int { return s.counts[t] }

// WriteTo implements recording.WriterBackend.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	return s.buf.WriteTo(w)
}
