package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2 represents a 2D vector
type Vec2 = mgl32.Vec2

// Vec3 represents a 3D vector
type Vec3 = mgl32.Vec3

// Vec4 represents a 4D vector
type Vec4 = mgl32.Vec4

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion = mgl32.Quat

/** @brief a 4x4 column-major matrix, typically used to represent object transformations. */
type Mat4 = mgl32.Mat4

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/** @brief A sphere in world space. */
type Sphere struct {
	Center Vec3
	Radius float32
}

/**
 * @brief A plane in the form dot(Normal, p) + Distance = 0. The
 * positive half-space is considered inside.
 */
type Plane struct {
	Normal   Vec3
	Distance float32
}

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. NOTE: The properties of this should not
 * be edited directly, but done via the setters to ensure proper
 * matrix generation.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief The rotation in the world. */
	Rotation Quaternion
	/** @brief The scale in the world. */
	Scale Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the local matrix needs to be recalculated.
	 */
	IsDirty bool
	/**
	 * @brief The local transformation matrix, updated whenever
	 * the position, rotation or scale have changed.
	 */
	Local Mat4
	/** @brief A pointer to a parent transform if one is assigned. Can also be null. */
	Parent *Transform
}
