package metadata

import "github.com/spaghettifunk/prelight/engine/math"

type LightType int

const (
	LIGHT_TYPE_DIRECTIONAL LightType = iota
	LIGHT_TYPE_POINT
	LIGHT_TYPE_SPOT
)

func (l LightType) String() string {
	switch l {
	case LIGHT_TYPE_DIRECTIONAL:
		return "directional"
	case LIGHT_TYPE_POINT:
		return "point"
	case LIGHT_TYPE_SPOT:
		return "spot"
	}
	return "unknown"
}

/**
 * @brief A light attached to a scene node. The node world matrix places
 * the light. Directional and spot lights shine along the node's local -Y.
 */
type Light struct {
	Type LightType
	/** @brief Range of point and spot lights. */
	Radius float32
	/** @brief Full cone angle of spot lights, in radians. */
	OuterAngle  float32
	CastShadows bool
	/** @brief Light volume geometry. Full-screen for directional lights. */
	Mesh      *Mesh
	Colour    math.Vec4
	Intensity float32
}

// LocalDirection is the direction directional and spot lights shine along before the node transform.
var LocalDirection = math.NewVec3Down()
