package math

// Frustum plane indices.
const (
	FRUSTUM_PLANE_LEFT   = 0
	FRUSTUM_PLANE_RIGHT  = 1
	FRUSTUM_PLANE_BOTTOM = 2
	FRUSTUM_PLANE_TOP    = 3
	FRUSTUM_PLANE_NEAR   = 4
	FRUSTUM_PLANE_FAR    = 5
)

/**
 * @brief A view frustum described by six inward facing planes and its
 * eight world-space corners. Corners 0-3 lie on the near plane and 4-7
 * on the far plane, both wound bottom-left, bottom-right, top-right, top-left.
 */
type Frustum struct {
	Planes  [6]Plane
	Corners [8]Vec3
}

var ndcCorners = [8]Vec3{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// NewFrustumFromMatrix extracts the planes of a projection * view matrix
// (Gribb/Hartmann) and unprojects the NDC cube to get the corners.
func NewFrustumFromMatrix(viewProjection Mat4) Frustum {
	m := viewProjection
	// Row i of a column-major matrix is (m[i], m[4+i], m[8+i], m[12+i]).
	row := func(i int) Vec4 {
		return Vec4{m[i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	f := Frustum{}
	f.Planes[FRUSTUM_PLANE_LEFT] = newPlane(r3.Add(r0))
	f.Planes[FRUSTUM_PLANE_RIGHT] = newPlane(r3.Sub(r0))
	f.Planes[FRUSTUM_PLANE_BOTTOM] = newPlane(r3.Add(r1))
	f.Planes[FRUSTUM_PLANE_TOP] = newPlane(r3.Sub(r1))
	f.Planes[FRUSTUM_PLANE_NEAR] = newPlane(r3.Add(r2))
	f.Planes[FRUSTUM_PLANE_FAR] = newPlane(r3.Sub(r2))

	inverse := viewProjection.Inv()
	for i, c := range ndcCorners {
		f.Corners[i] = TransformPoint(inverse, c)
	}
	return f
}

func newPlane(v Vec4) Plane {
	p := Plane{
		Normal:   Vec3{v[0], v[1], v[2]},
		Distance: v[3],
	}
	length := p.Normal.Len()
	if length > 0 {
		p.Normal = p.Normal.Mul(1 / length)
		p.Distance /= length
	}
	return p
}

// SignedDistance is positive on the inner side of the plane.
func (p Plane) SignedDistance(point Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f Frustum) ContainsPoint(point Vec3) bool {
	for i := 0; i < 6; i++ {
		if f.Planes[i].SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

func (f Frustum) IntersectsSphere(s Sphere) bool {
	for i := 0; i < 6; i++ {
		if f.Planes[i].SignedDistance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IntersectsExtents tests the positive vertex of the box against every plane.
func (f Frustum) IntersectsExtents(e Extents3D) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		v := e.Max
		if p.Normal[0] < 0 {
			v[0] = e.Min[0]
		}
		if p.Normal[1] < 0 {
			v[1] = e.Min[1]
		}
		if p.Normal[2] < 0 {
			v[2] = e.Min[2]
		}
		if p.SignedDistance(v) < 0 {
			return false
		}
	}
	return true
}

// Center returns the average of the eight corners.
func (f Frustum) Center() Vec3 {
	c := NewVec3Zero()
	for _, corner := range f.Corners {
		c = c.Add(corner)
	}
	return c.Mul(1.0 / 8.0)
}

// SliceCorners returns the corners of the part of the frustum between the
// given fractions of its depth, 0 being the near plane and 1 the far plane.
func (f Frustum) SliceCorners(from, to float32) [8]Vec3 {
	var out [8]Vec3
	for i := 0; i < 4; i++ {
		ray := f.Corners[i+4].Sub(f.Corners[i])
		out[i] = f.Corners[i].Add(ray.Mul(from))
		out[i+4] = f.Corners[i].Add(ray.Mul(to))
	}
	return out
}
