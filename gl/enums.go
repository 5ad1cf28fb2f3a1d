package gl

const (
	ARRAY_BUFFER                  = 0x8892
	COLOR_BUFFER_BIT              = 0x4000
	COMPILE_STATUS                = 0x8b81
	CONTEXT_LOST_WEBGL            = 0x9242
	DELETE_STATUS                 = 0x8b80
	DEPTH_BUFFER_BIT              = 0x0100
	DYNAMIC_DRAW                  = 0x88e8
	ELEMENT_ARRAY_BUFFER          = 0x8893
	FALSE                         = 0
	FLOAT                         = 0x1406
	FRAGMENT_SHADER               = 0x8b30
	INVALID_ENUM                  = 0x0500
	INVALID_FRAMEBUFFER_OPERATION = 0x0506
	INVALID_OPERATION             = 0x0502
	INVALID_VALUE                 = 0x0501
	LINES                         = 0x0001
	LINE_LOOP                     = 0x0002
	LINE_STRIP                    = 0x0003
	LINK_STATUS                   = 0x8b82
	NO_ERROR                      = 0
	OUT_OF_MEMORY                 = 0x0505
	POINTS                        = 0x0000
	RGBA                          = 0x1908
	SHADER_TYPE                   = 0x8b4f
	STENCIL_BUFFER_BIT            = 0x0400
	STATIC_DRAW                   = 0x88e4
	STREAM_DRAW                   = 0x88e0
	TRIANGLES                     = 0x0004
	TRIANGLE_FAN                  = 0x0006
	TRIANGLE_STRIP                = 0x0005
	TRUE                          = 1
	UNSIGNED_BYTE                 = 0x1401
	VERTEX_SHADER                 = 0x8b31
)
