package wformat

import "github.com/chewxy/math32"

// Pose places an element relative to its parent frame.
type Pose struct {
	Trans [3]float32 `json:"trans"`
	Rot   Rotation   `json:"rot"`
}

// Identity returns a pose at the parent origin with no rotation.
func Identity() Pose {
	return Pose{Rot: Rotation{Quat: &[4]float32{0, 0, 0, 1}}}
}

// Rotation is a tagged variant: exactly one of Quat (x, y, z, w) or EulerXYZ
// (extrinsic, radians) is set. A fully zero Rotation is treated as identity.
type Rotation struct {
	Quat     *[4]float32 `json:"quat,omitempty"`
	EulerXYZ *[3]float32 `json:"euler_xyz,omitempty"`
}

// AsQuat reduces the rotation to quaternion form.
func (r Rotation) AsQuat() [4]float32 {
	if r.Quat != nil {
		return *r.Quat
	}
	if r.EulerXYZ != nil {
		return eulerToQuat(*r.EulerXYZ)
	}
	return [4]float32{0, 0, 0, 1}
}

// AsEulerXYZ reduces the rotation to extrinsic XYZ Euler angles in radians.
func (r Rotation) AsEulerXYZ() [3]float32 {
	if r.EulerXYZ != nil {
		return *r.EulerXYZ
	}
	if r.Quat != nil {
		return quatToEuler(*r.Quat)
	}
	return [3]float32{}
}

func eulerToQuat(e [3]float32) [4]float32 {
	cr := math32.Cos(e[0] / 2)
	sr := math32.Sin(e[0] / 2)
	cp := math32.Cos(e[1] / 2)
	sp := math32.Sin(e[1] / 2)
	cy := math32.Cos(e[2] / 2)
	sy := math32.Sin(e[2] / 2)
	return [4]float32{
		sr*cp*cy - cr*sp*sy,
		cr*sp*cy + sr*cp*sy,
		cr*cp*sy - sr*sp*cy,
		cr*cp*cy + sr*sp*sy,
	}
}

func quatToEuler(q [4]float32) [3]float32 {
	x, y, z, w := q[0], q[1], q[2], q[3]

	sinr := 2 * (w*x + y*z)
	cosr := 1 - 2*(x*x+y*y)
	roll := math32.Atan2(sinr, cosr)

	sinp := 2 * (w*y - z*x)
	var pitch float32
	if math32.Abs(sinp) >= 1 {
		pitch = math32.Copysign(math32.Pi/2, sinp)
	} else {
		pitch = math32.Asin(sinp)
	}

	siny := 2 * (w*z + x*y)
	cosy := 1 - 2*(y*y+z*z)
	yaw := math32.Atan2(siny, cosy)

	return [3]float32{roll, pitch, yaw}
}
