package meshopt

// 几何分类
const (
	GEOMETRY_TYPE_GENERIC = 0
	GEOMETRY_TYPE_WALL    = 1
	GEOMETRY_TYPE_FLOOR   = 2
	GEOMETRY_TYPE_CEILING = 3
	GEOMETRY_TYPE_DOOR    = 4
	GEOMETRY_TYPE_WINDOW  = 5
)

// 朝向
const (
	ORIENTATION_HORIZONTAL = 0
	ORIENTATION_VERTICAL   = 1
	ORIENTATION_MIXED      = 2
)

// UV投影方法
const (
	UV_METHOD_AUTO        = 0
	UV_METHOD_PLANAR      = 1
	UV_METHOD_BOX         = 2
	UV_METHOD_CYLINDRICAL = 3
	UV_METHOD_SPHERICAL   = 4
)

const (
	TEXTURE_PIXEL_TYPE_UBYTE  = 0
	TEXTURE_PIXEL_TYPE_BYTE   = 1
	TEXTURE_PIXEL_TYPE_USHORT = 2
	TEXTURE_PIXEL_TYPE_SHORT  = 3
	TEXTURE_PIXEL_TYPE_UINT   = 4
	TEXTURE_PIXEL_TYPE_INT    = 5
	TEXTURE_PIXEL_TYPE_HALF   = 6
	TEXTURE_PIXEL_TYPE_FLOAT  = 7
)

const (
	TEXTURE_FORMAT_R    = 0
	TEXTURE_FORMAT_RG   = 2
	TEXTURE_FORMAT_RGB  = 4
	TEXTURE_FORMAT_RGBA = 6
)

const (
	TEXTURE_COMPRESSED_ZLIB = 1
)

// GeometryTypeName 几何分类名称
func GeometryTypeName(ty int) string {
	switch ty {
	case GEOMETRY_TYPE_WALL:
		return "wall"
	case GEOMETRY_TYPE_FLOOR:
		return "floor"
	case GEOMETRY_TYPE_CEILING:
		return "ceiling"
	case GEOMETRY_TYPE_DOOR:
		return "door"
	case GEOMETRY_TYPE_WINDOW:
		return "window"
	default:
		return "generic"
	}
}

// UVMethodName UV投影方法名称
func UVMethodName(m int) string {
	switch m {
	case UV_METHOD_PLANAR:
		return "planar"
	case UV_METHOD_BOX:
		return "box"
	case UV_METHOD_CYLINDRICAL:
		return "cylindrical"
	case UV_METHOD_SPHERICAL:
		return "spherical"
	default:
		return "auto"
	}
}
