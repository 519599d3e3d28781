package backend

import "github.com/go-gl/gl/v2.1/gl"

// The enum values below are identical in GL 2.1 and ES 2.0, so both backends translate
// through them.

func glBufferTarget(t BufferTarget) uint32 {
	if t == TargetElementArray {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glPrimitive(p Primitive) uint32 {
	switch p {
	case PrimitivePoints:
		return gl.POINTS
	case PrimitiveLines:
		return gl.LINES
	case PrimitiveLineStrip:
		return gl.LINE_STRIP
	case PrimitiveTriangleStrip:
		return gl.TRIANGLE_STRIP
	case PrimitiveTriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLES
	}
}

func glCompare(f CompareFunc) uint32 {
	switch f {
	case CompareNever:
		return gl.NEVER
	case CompareLess:
		return gl.LESS
	case CompareEqual:
		return gl.EQUAL
	case CompareLessEqual:
		return gl.LEQUAL
	case CompareGreater:
		return gl.GREATER
	case CompareNotEqual:
		return gl.NOTEQUAL
	case CompareGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

func glBlendFactor(f BlendFactor) uint32 {
	switch f {
	case BlendZero:
		return gl.ZERO
	case BlendSrcAlpha:
		return gl.SRC_ALPHA
	case BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	default:
		return gl.ONE
	}
}

func glWrap(w Wrap) int32 {
	switch w {
	case WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func glFilter(f Filter) int32 {
	switch f {
	case FilterNearest:
		return gl.NEAREST
	case FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case FilterNearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	default:
		return gl.LINEAR
	}
}
