package glsl

import "fmt"

// Type is a GLSL value type.
type Type uint8

const (
	Invalid Type = iota
	Void
	Int
	Float
	Vec2
	Vec3
	Vec4
)

var typeNames = [...]string{
	Invalid: "<invalid>",
	Void:    "void",
	Int:     "int",
	Float:   "float",
	Vec2:    "vec2",
	Vec3:    "vec3",
	Vec4:    "vec4",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Size returns the number of components of t.
func (t Type) Size() int {
	switch t {
	case Int, Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	}
	return 0
}

// IsFloat reports whether t is float or a float vector.
func (t Type) IsFloat() bool {
	return t >= Float && t <= Vec4
}

// IsVector reports whether t has more than one component.
func (t Type) IsVector() bool {
	return t >= Vec2 && t <= Vec4
}

func vecType(n int) Type {
	switch n {
	case 1:
		return Float
	case 2:
		return Vec2
	case 3:
		return Vec3
	case 4:
		return Vec4
	}
	return Invalid
}

func lookupType(name string) (Type, bool) {
	switch name {
	case "void":
		return Void, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "vec2":
		return Vec2, true
	case "vec3":
		return Vec3, true
	case "vec4":
		return Vec4, true
	}
	return Invalid, false
}

// Value is a typed scalar or vector. Unused components are zero.
type Value struct {
	T Type
	V [4]float32
}

// Vec returns a float vector value holding comps.
func Vec(comps ...float32) Value {
	v := Value{T: vecType(len(comps))}
	copy(v.V[:], comps)
	return v
}
