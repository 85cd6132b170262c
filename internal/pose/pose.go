// Package pose converts the raw pose vectors from model definitions into
// the quaternion-oriented Pose sent to the spawn service.
//
// Orientation input comes in two encodings:
//   - Euler roll/pitch/yaw angles, in degrees by default or radians when
//     the entry is flagged; converted via the standard roll-pitch-yaw
//     convention (rotate about X, then Y, then Z of the fixed world frame).
//   - A quaternion (x, y, z, w), which is normalized before use.
package pose

import (
	"fmt"
	"math"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// degToRad is the degrees-to-radians conversion factor.
const degToRad = math.Pi / 180.0

// FromEuler converts roll/pitch/yaw angles in radians to a quaternion.
//
// The convention is fixed-axis XYZ (equivalently intrinsic ZYX): the
// resulting rotation applies roll about the world X axis, then pitch about
// the world Y axis, then yaw about the world Z axis. This matches the
// roll-pitch-yaw convention used by common robotics toolchains.
//
// The result is a unit quaternion by construction (each half-angle term is
// a unit rotation, and the product of unit quaternions is unit).
func FromEuler(roll, pitch, yaw float64) model.Quaternion {
	cr := math.Cos(roll / 2)
	sr := math.Sin(roll / 2)
	cp := math.Cos(pitch / 2)
	sp := math.Sin(pitch / 2)
	cy := math.Cos(yaw / 2)
	sy := math.Sin(yaw / 2)

	return model.Quaternion{
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}

// FromEulerDegrees converts roll/pitch/yaw angles in degrees to a
// quaternion by scaling with π/180 first.
func FromEulerDegrees(roll, pitch, yaw float64) model.Quaternion {
	return FromEuler(roll*degToRad, pitch*degToRad, yaw*degToRad)
}

// ToPose builds the spawn Pose from a model spec's raw pose vector.
//
// The first three elements are always the position. The interpretation of
// the remainder depends on the spec's flags:
//   - Quaternion true: elements 3-6 are (x, y, z, w), normalized here so
//     that hand-written configs with slightly off-unit values still spawn.
//   - Quaternion false: elements 3-5 are roll/pitch/yaw, converted from
//     degrees unless the radians flag is set.
//
// The spec must already have passed Validate, which guarantees the vector
// length matches the flags. A zero quaternion is still rejected here
// because length validation cannot catch it.
func ToPose(spec *model.ModelSpec) (model.Pose, error) {
	if err := spec.Validate(); err != nil {
		return model.Pose{}, err
	}

	p := model.Pose{
		Position: model.Vector3{
			X: spec.Pose[0],
			Y: spec.Pose[1],
			Z: spec.Pose[2],
		},
	}

	if spec.Quaternion {
		q := model.Quaternion{
			X: spec.Pose[3],
			Y: spec.Pose[4],
			Z: spec.Pose[5],
			W: spec.Pose[6],
		}
		normalized, err := q.Normalize()
		if err != nil {
			return model.Pose{}, fmt.Errorf("model %q: %w", spec.Name, err)
		}
		p.Orientation = normalized
		return p, nil
	}

	roll, pitch, yaw := spec.Pose[3], spec.Pose[4], spec.Pose[5]
	if spec.Radians {
		p.Orientation = FromEuler(roll, pitch, yaw)
	} else {
		p.Orientation = FromEulerDegrees(roll, pitch, yaw)
	}
	return p, nil
}
