package components

import (
	"github.com/spaghettifunk/prelight/engine/math"
)

/**
 * @brief Represents a perspective camera used to view the scene.
 * Ideally these are created and managed by the camera system.
 */
type Camera struct {
	Name string
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use SetEulerRotation() instead.
	 */
	EulerRotation math.Vec3
	/** @brief Vertical field of view in radians. */
	FOV         float32
	AspectRatio float32
	NearClip    float32
	FarClip     float32
	/** @brief Internal flag used to determine when the matrices need to be rebuilt. */
	IsDirty bool

	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera(name string) *Camera {
	camera := &Camera{Name: name}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.FOV = math.DegToRad(45)
	c.AspectRatio = 16.0 / 9.0
	c.NearClip = 0.1
	c.FarClip = 1000
	c.IsDirty = true
}

func (c *Camera) GetWorldPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() math.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

func (c *Camera) SetPerspective(fovRadians, aspectRatio, nearClip, farClip float32) {
	c.FOV = fovRadians
	c.AspectRatio = aspectRatio
	c.NearClip = nearClip
	c.FarClip = farClip
	c.IsDirty = true
}

func (c *Camera) GetNear() float32 {
	return c.NearClip
}

func (c *Camera) GetFar() float32 {
	return c.FarClip
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	rotation := math.NewMat4EulerXYZ(c.EulerRotation.X(), c.EulerRotation.Y(), c.EulerRotation.Z())
	translation := math.NewMat4Translation(c.Position)
	c.viewMatrix = translation.Mul4(rotation).Inv()
	c.projectionMatrix = math.NewMat4Perspective(c.FOV, c.AspectRatio, c.NearClip, c.FarClip)
	c.IsDirty = false
}

func (c *Camera) GetView() math.Mat4 {
	c.rebuild()
	return c.viewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	c.rebuild()
	return c.projectionMatrix
}

func (c *Camera) GetViewProjection() math.Mat4 {
	c.rebuild()
	return c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *Camera) GetFrustum() math.Frustum {
	return math.NewFrustumFromMatrix(c.GetViewProjection())
}

/**
 * @brief Distance from the camera position to a corner of the near plane.
 * Light volumes grow by this amount so the near plane never clips them
 * while the camera is outside.
 */
func (c *Camera) NearPlaneDistance() float32 {
	f := c.GetFrustum()
	return math.Distance(f.Corners[0], c.Position)
}

func (c *Camera) Forward() math.Vec3 {
	rotation := math.NewMat4EulerXYZ(c.EulerRotation.X(), c.EulerRotation.Y(), c.EulerRotation.Z())
	return math.TransformDirection(rotation, math.NewVec3Forward()).Normalize()
}

func (c *Camera) Right() math.Vec3 {
	return c.Forward().Cross(math.NewVec3Up()).Normalize()
}

func (c *Camera) MoveForward(amount float32) {
	c.Position = c.Position.Add(c.Forward().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	c.Position = c.Position.Add(c.Right().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	c.Position = c.Position.Add(math.NewVec3Up().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation[1] += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation[0] += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation[0] = math.Clamp(c.EulerRotation[0], -limit, limit)

	c.IsDirty = true
}
