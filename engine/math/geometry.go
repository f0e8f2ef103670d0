package math

/**
 * @brief Indexed positions of a generated primitive. Triangle lists unless
 * noted otherwise.
 */
type Primitive struct {
	Positions []Vec3
	Indices   []uint32
}

// GenerateQuad returns a full-screen quad in normalized device coordinates.
func GenerateQuad() Primitive {
	return Primitive{
		Positions: []Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 2, 3, 0},
	}
}

// GenerateLineCube returns the twelve edges of the unit cube centered on the
// origin as a line list.
func GenerateLineCube() Primitive {
	e := Extents3D{Min: Vec3{-0.5, -0.5, -0.5}, Max: Vec3{0.5, 0.5, 0.5}}
	corners := e.Corners()
	return Primitive{
		Positions: corners[:],
		Indices: []uint32{
			0, 1, 1, 2, 2, 3, 3, 0,
			4, 5, 5, 6, 6, 7, 7, 4,
			0, 4, 1, 5, 2, 6, 3, 7,
		},
	}
}

// GenerateSphere returns a unit radius UV sphere. Rings and sectors below 3
// are raised to 3.
func GenerateSphere(rings, sectors uint32) Primitive {
	rings = max(rings, 3)
	sectors = max(sectors, 3)

	p := Primitive{}
	for r := uint32(0); r <= rings; r++ {
		phi := K_PI * float32(r) / float32(rings)
		y := Cos(phi)
		ringRadius := Sin(phi)
		for s := uint32(0); s <= sectors; s++ {
			theta := 2 * K_PI * float32(s) / float32(sectors)
			p.Positions = append(p.Positions, Vec3{ringRadius * Cos(theta), y, ringRadius * Sin(theta)})
		}
	}
	stride := sectors + 1
	for r := uint32(0); r < rings; r++ {
		for s := uint32(0); s < sectors; s++ {
			a := r*stride + s
			b := a + stride
			p.Indices = append(p.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return p
}

// GenerateCone returns a cone with its apex at the origin opening along -Y,
// with height 1 and a base radius of 1.
func GenerateCone(sectors uint32) Primitive {
	sectors = max(sectors, 3)

	p := Primitive{Positions: []Vec3{NewVec3Zero(), {0, -1, 0}}}
	for s := uint32(0); s < sectors; s++ {
		theta := 2 * K_PI * float32(s) / float32(sectors)
		p.Positions = append(p.Positions, Vec3{Cos(theta), -1, Sin(theta)})
	}
	for s := uint32(0); s < sectors; s++ {
		current := 2 + s
		next := 2 + (s+1)%sectors
		// side, then base cap
		p.Indices = append(p.Indices, 0, next, current)
		p.Indices = append(p.Indices, 1, current, next)
	}
	return p
}
