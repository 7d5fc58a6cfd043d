package projector

import (
	"fmt"
	"strings"
)

// RenderPassEvent is a named insertion point in the host frame graph.
// Passes enqueued at a lower event execute earlier.
type RenderPassEvent int

const (
	BeforeRendering               RenderPassEvent = 0
	BeforeRenderingShadows        RenderPassEvent = 50
	AfterRenderingShadows         RenderPassEvent = 100
	BeforeRenderingPrepasses      RenderPassEvent = 150
	AfterRenderingPrePasses       RenderPassEvent = 200
	BeforeRenderingOpaques        RenderPassEvent = 250
	AfterRenderingOpaques         RenderPassEvent = 300
	BeforeRenderingSkybox         RenderPassEvent = 350
	AfterRenderingSkybox          RenderPassEvent = 400
	BeforeRenderingTransparents   RenderPassEvent = 450
	AfterRenderingTransparents    RenderPassEvent = 500
	BeforeRenderingPostProcessing RenderPassEvent = 550
	AfterRenderingPostProcessing  RenderPassEvent = 600
	AfterRendering                RenderPassEvent = 1000
)

var renderPassEventNames = map[RenderPassEvent]string{
	BeforeRendering:               "BeforeRendering",
	BeforeRenderingShadows:        "BeforeRenderingShadows",
	AfterRenderingShadows:         "AfterRenderingShadows",
	BeforeRenderingPrepasses:      "BeforeRenderingPrepasses",
	AfterRenderingPrePasses:       "AfterRenderingPrePasses",
	BeforeRenderingOpaques:        "BeforeRenderingOpaques",
	AfterRenderingOpaques:         "AfterRenderingOpaques",
	BeforeRenderingSkybox:         "BeforeRenderingSkybox",
	AfterRenderingSkybox:          "AfterRenderingSkybox",
	BeforeRenderingTransparents:   "BeforeRenderingTransparents",
	AfterRenderingTransparents:    "AfterRenderingTransparents",
	BeforeRenderingPostProcessing: "BeforeRenderingPostProcessing",
	AfterRenderingPostProcessing:  "AfterRenderingPostProcessing",
	AfterRendering:                "AfterRendering",
}

// String returns the event name. Events between named points print as an
// offset from the closest lower named event.
func (e RenderPassEvent) String() string {
	if name, ok := renderPassEventNames[e]; ok {
		return name
	}
	best, found := BeforeRendering, false
	for ev := range renderPassEventNames {
		if ev < e && (!found || ev > best) {
			best, found = ev, true
		}
	}
	if !found {
		return fmt.Sprintf("RenderPassEvent(%d)", int(e))
	}
	return fmt.Sprintf("%s+%d", renderPassEventNames[best], int(e-best))
}

// ParseRenderPassEvent returns the event with the given name.
func ParseRenderPassEvent(name string) (RenderPassEvent, error) {
	for ev, n := range renderPassEventNames {
		if strings.EqualFold(n, name) {
			return ev, nil
		}
	}
	return 0, fmt.Errorf("projector: unknown render pass event %q", name)
}

// PerObjectData selects per-object data the host uploads for a draw.
type PerObjectData uint32

const (
	PerObjectNone             PerObjectData = 0
	PerObjectLightProbe       PerObjectData = 1 << 0
	PerObjectReflectionProbes PerObjectData = 1 << 1
	PerObjectLightmaps        PerObjectData = 1 << 3
	PerObjectLightData        PerObjectData = 1 << 4
	PerObjectMotionVectors    PerObjectData = 1 << 5
	PerObjectLightIndices     PerObjectData = 1 << 6
	PerObjectOcclusionProbe   PerObjectData = 1 << 8
	PerObjectShadowMask       PerObjectData = 1 << 10
)

// RenderPass is a pass injected into the host frame graph.
type RenderPass interface {
	// Name identifies the pass in logs and recordings.
	Name() string

	// Event is the insertion point of the pass.
	Event() RenderPassEvent

	// Execute records the pass draws for the camera in data.
	Execute(ctx DrawContext, data *RenderingData)
}

// PassQueue accepts passes for the camera currently being set up.
type PassQueue interface {
	EnqueuePass(pass RenderPass)
}
