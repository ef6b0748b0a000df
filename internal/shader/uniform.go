package shader

// UniformType is the WGSL type of a uniform struct member.
type UniformType int

const (
	TypeF32 UniformType = iota
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat3
	TypeMat4
)

// Align returns the WGSL uniform address space alignment in bytes.
func (t UniformType) Align() int {
	switch t {
	case TypeF32:
		return 4
	case TypeVec2:
		return 8
	}
	return 16
}

// Size returns the byte size of the member. mat3x3 columns are padded to vec4.
func (t UniformType) Size() int {
	switch t {
	case TypeF32:
		return 4
	case TypeVec2:
		return 8
	case TypeVec3:
		return 12
	case TypeVec4:
		return 16
	case TypeMat3:
		return 48
	case TypeMat4:
		return 64
	}
	return 0
}

type UniformField struct {
	Name string
	Type UniformType
}

// PlacedField is a UniformField with its byte offset in the struct.
type PlacedField struct {
	UniformField
	Offset int
}

// UniformLayout is the byte layout of a WGSL uniform struct.
type UniformLayout struct {
	Fields []PlacedField
	Size   int
}

// Layout places fields with WGSL alignment rules. The struct size is
// rounded up to 16 bytes.
func Layout(fields []UniformField) UniformLayout {
	var l UniformLayout
	offset := 0
	for _, f := range fields {
		offset = alignUp(offset, f.Type.Align())
		l.Fields = append(l.Fields, PlacedField{UniformField: f, Offset: offset})
		offset += f.Type.Size()
	}
	l.Size = alignUp(offset, 16)
	if l.Size == 0 {
		l.Size = 16
	}
	return l
}

func alignUp(n, a int) int {
	return (n + a - 1) / a * a
}

type BindingKind int

const (
	BindingUniform BindingKind = iota
	BindingTexture
	BindingSampler
)

// Binding is one entry of the material bind group. Role names the
// material texture slot for texture and sampler entries.
type Binding struct {
	Index uint32
	Kind  BindingKind
	Role  string
}

// Texture roles shared by materials and the WGSL bind group.
const (
	RoleBaseColor         = "baseColorMap"
	RoleMetallicRoughness = "metallicRoughnessMap"
	RoleNormal            = "normalMap"
	RoleOcclusion         = "aoMap"
	RoleEmissive          = "emissiveMap"
	RoleDiffuse           = "diffuseMap"
)

// MapBindings returns the uniform entry followed by texture/sampler pairs
// for roles, starting at binding 1.
func MapBindings(roles ...string) []Binding {
	b := []Binding{{Index: 0, Kind: BindingUniform}}
	for i, role := range roles {
		idx := uint32(1 + i*2)
		b = append(b,
			Binding{Index: idx, Kind: BindingTexture, Role: role},
			Binding{Index: idx + 1, Kind: BindingSampler, Role: role})
	}
	return b
}
