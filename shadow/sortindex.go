package shadow

// SortInput is what SortIndex needs to know about a buffer.
type SortInput struct {
	Method ApplyMethod
	Color  ShadowColor

	// HasLightSource is true when the buffer has light source properties.
	HasLightSource bool

	// CollectRealtime is the result of Buffer.CollectRealtimeShadows.
	CollectRealtime bool

	IsMainLight          bool
	AdditionalLightIndex int
}

// LightContext is the per-camera light setup SortIndex depends on.
type LightContext struct {
	AdditionalLightCount int
}

// SortIndex returns the packing priority of a buffer. Lower indices are
// collected first. With n additional lights:
//
//	lit shader, monochrome, realtime:      main 0, additional i at i+1
//	lit shader, monochrome, not realtime:  additional i at n+1+i, main at 2n+1
//	everything else:                       colored 2n+1, monochrome 2n+2
//
// Realtime light shadows come first so they share a texture and the main
// light takes alpha. Colored buffers precede the monochrome catch-all so a
// colored buffer is never left alone next to packed monochrome ones.
func SortIndex(in SortInput, ctx LightContext) int {
	n := ctx.AdditionalLightCount
	if in.Method == ApplyByLitShaders && in.Color == Monochrome && in.HasLightSource {
		if in.CollectRealtime {
			switch {
			case in.AdditionalLightIndex >= 0:
				return in.AdditionalLightIndex + 1
			case in.IsMainLight:
				return 0
			}
		} else {
			switch {
			case in.AdditionalLightIndex >= 0:
				return in.AdditionalLightIndex + n + 1
			case in.IsMainLight:
				return 2*n + 1
			}
		}
	}
	index := 2*n + 1
	if in.Color == Monochrome {
		index++
	}
	return index
}
