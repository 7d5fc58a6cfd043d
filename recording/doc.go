// Package recording captures the draws of render passes as commands.
//
// The projector passes never talk to a GPU API. They record into a
// projector.DrawContext, and a host translates the recorded draws into its
// own command buffers. This package provides that context for tests and
// tools:
//
//   - Recorder: a projector.DrawContext that stores typed commands
//   - Queue: a projector.PassQueue that runs passes in event order
//   - Material: a plain projector.Material with keywords, textures and tags
//   - Backend: receives recorded commands on playback
//
// # Basic Usage
//
//	rec := recording.NewRecorder("main")
//	queue := recording.NewQueue()
//	feature.AddRenderPasses(queue, data)
//	queue.Execute(rec, data)
//
//	for _, cmd := range rec.Commands() {
//	    fmt.Println(rec.Describe(cmd))
//	}
//
// # Playback to Backends
//
// Backends register themselves by name, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/projector/recording/backends/listing"
//
//	b, _ := recording.NewBackend("listing")
//	rec.Finish().Playback(b)
//
// Material keywords are captured when a draw is recorded, so later keyword
// changes by other passes do not rewrite earlier commands.
package recording
