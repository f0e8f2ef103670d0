package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	K_PI            float32 = math32.Pi
	K_HALF_PI       float32 = K_PI * 0.5
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func NewVec3Zero() Vec3 {
	return Vec3{0, 0, 0}
}

func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

func NewVec3Up() Vec3 {
	return Vec3{0, 1, 0}
}

func NewVec3Down() Vec3 {
	return Vec3{0, -1, 0}
}

func NewVec3Forward() Vec3 {
	return Vec3{0, 0, -1}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec3) float32 {
	return a.Sub(b).Len()
}

// DistanceSquared avoids the square root when only ordering matters.
func DistanceSquared(a, b Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

func NewMat4Identity() Mat4 {
	return mgl32.Ident4()
}

func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float32) Mat4 {
	return mgl32.Perspective(fov_radians, aspect_ratio, near_clip, far_clip)
}

func NewMat4Orthographic(left, right, bottom, top, near_clip, far_clip float32) Mat4 {
	return mgl32.Ortho(left, right, bottom, top, near_clip, far_clip)
}

func NewMat4LookAt(position, target, up Vec3) Mat4 {
	return mgl32.LookAtV(position, target, up)
}

func NewMat4Translation(position Vec3) Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z())
}

func NewMat4Scale(scale Vec3) Mat4 {
	return mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
}

// NewMat4EulerXYZ builds a rotation applying X, then Y, then Z.
func NewMat4EulerXYZ(x_radians, y_radians, z_radians float32) Mat4 {
	rx := mgl32.HomogRotate3DX(x_radians)
	ry := mgl32.HomogRotate3DY(y_radians)
	rz := mgl32.HomogRotate3DZ(z_radians)
	return rz.Mul4(ry).Mul4(rx)
}

// Mat4Position extracts the translation column of a world matrix.
func Mat4Position(m Mat4) Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Mat4AppendScale scales the basis vectors of m, leaving the translation untouched.
func Mat4AppendScale(m Mat4, scale Vec3) Mat4 {
	return m.Mul4(NewMat4Scale(scale))
}

// TransformPoint multiplies a point (w=1) by m and applies the perspective divide.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if w := v.W(); w != 0 && w != 1 {
		return v.Vec3().Mul(1 / w)
	}
	return v.Vec3()
}

// TransformDirection multiplies a direction (w=0) by m.
func TransformDirection(m Mat4, d Vec3) Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

func NewQuatIdentity() Quaternion {
	return mgl32.QuatIdent()
}

func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	q := mgl32.QuatRotate(angle, axis)
	if normalize {
		return q.Normalize()
	}
	return q
}

func DegToRad(degrees float32) float32 {
	return degrees * (K_PI / 180.0)
}

func Sin(x float32) float32 {
	return math32.Sin(x)
}

func Cos(x float32) float32 {
	return math32.Cos(x)
}

func Tan(x float32) float32 {
	return math32.Tan(x)
}

func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

func Abs(x float32) float32 {
	return math32.Abs(x)
}
