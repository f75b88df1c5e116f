package meshopt

import "errors"

var (
	// ErrMissingAttribute 缺少必要的顶点属性
	ErrMissingAttribute = errors.New("meshopt: missing attribute")
	// ErrInvalidUV UV坐标非有限值
	ErrInvalidUV = errors.New("meshopt: invalid uv")
	// ErrAtlasOverflow 图集空间不足
	ErrAtlasOverflow = errors.New("meshopt: atlas overflow")
	// ErrEmptyMeshSet 输入网格集为空
	ErrEmptyMeshSet = errors.New("meshopt: empty mesh set")
)
