package math

import "github.com/chewxy/math32"

func NewExtents3D(min, max Vec3) Extents3D {
	return Extents3D{Min: min, Max: max}
}

// NewExtents3DFromPoints returns the smallest box holding every point. An
// empty slice gives a zero box.
func NewExtents3DFromPoints(points []Vec3) Extents3D {
	if len(points) == 0 {
		return Extents3D{}
	}
	e := Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		e = e.Expand(p)
	}
	return e
}

func (e Extents3D) Expand(p Vec3) Extents3D {
	for i := 0; i < 3; i++ {
		e.Min[i] = math32.Min(e.Min[i], p[i])
		e.Max[i] = math32.Max(e.Max[i], p[i])
	}
	return e
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

func (e Extents3D) Corners() [8]Vec3 {
	return [8]Vec3{
		{e.Min[0], e.Min[1], e.Min[2]},
		{e.Max[0], e.Min[1], e.Min[2]},
		{e.Max[0], e.Max[1], e.Min[2]},
		{e.Min[0], e.Max[1], e.Min[2]},
		{e.Min[0], e.Min[1], e.Max[2]},
		{e.Max[0], e.Min[1], e.Max[2]},
		{e.Max[0], e.Max[1], e.Max[2]},
		{e.Min[0], e.Max[1], e.Max[2]},
	}
}

// Transform returns the axis aligned box enclosing the transformed corners.
func (e Extents3D) Transform(m Mat4) Extents3D {
	corners := e.Corners()
	for i := range corners {
		corners[i] = TransformPoint(m, corners[i])
	}
	return NewExtents3DFromPoints(corners[:])
}

func (s Sphere) Contains(p Vec3) bool {
	return DistanceSquared(s.Center, p) <= s.Radius*s.Radius
}

func (s Sphere) Extents() Extents3D {
	r := Vec3{s.Radius, s.Radius, s.Radius}
	return Extents3D{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// PointInCone reports whether p lies in the finite cone with the given apex,
// unit axis direction, height and half angle in radians.
func PointInCone(apex, direction Vec3, height, halfAngle float32, p Vec3) bool {
	v := p.Sub(apex)
	along := v.Dot(direction)
	if along < 0 || along > height {
		return false
	}
	radius := along * math32.Tan(halfAngle)
	perpendicular := v.Dot(v) - along*along
	return perpendicular <= radius*radius
}
