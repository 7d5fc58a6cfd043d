// Package projector provides projector based forward shadows and decals for a
// tile/forward real-time rendering pipeline.
//
// # Overview
//
// Projectors draw decals and shadows onto receiver geometry clipped to their
// frustum volume through stencil masking. Shadow projectors do not draw into
// the frame directly: they write into a shadow buffer, and several shadow
// buffers share the channels of a small number of off-screen textures. Each
// frame a shadow buffer is either handed to the lit shaders as a per-light
// shadow texture or composited onto receivers by an apply pass.
//
// # Architecture
//
// The root package holds the host collaborator types consumed from the
// rendering pipeline (cameras, lights, rendering data, draw settings) and the
// module logger. Sub-packages implement the scheduling and allocation logic:
//   - stencil: the per-frame stencil mask bit allocator
//   - shadowtex: shared shadow textures, channel retain/release and packing
//   - litshader: the lighting pass state sink
//   - shadow: shadow buffers, sort indices, projector registry, collect/apply
//   - decal: stencil clipped projectors and shadow projectors
//   - feature: the frame orchestrator that wires everything per camera
//   - recording: command recorder and pass queue for inspection and tests
//
// # Frame protocol
//
// All calls happen on the rendering thread in this order:
//
//	f.BeginFrame(cameras)                  // reset stencil pool, invalidate textures
//	f.RegisterProjector(cam, buffer, proj) // per visible projector
//	n := f.AddRenderPasses(queue, data)    // per camera: sort, enqueue collect/apply
//	queue.Execute(ctx, data)               // host runs the passes
//	f.EndCamera(cam)                       // clear registrations, release textures
//
// No call blocks and no resource grows on demand: when stencil bits or
// lighting slots run out the dependent draw is skipped and a warning is
// logged.
package projector
