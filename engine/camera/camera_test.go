package camera

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerPositionFollowsSphericalCoords(t *testing.T) {
	cc := NewCameraController(
		WithTarget(1, 2, 3),
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
	)

	x, y, z := cc.Position()
	assert.InDelta(t, 11.0, x, 1e-5)
	assert.InDelta(t, 2.0, y, 1e-5)
	assert.InDelta(t, 3.0, z, 1e-5)

	// Orbiting a quarter turn moves the camera onto the +Y side of the target.
	cc.SetAzimuth(math32.Pi / 2)
	x, y, z = cc.Position()
	assert.InDelta(t, 1.0, x, 1e-5)
	assert.InDelta(t, 12.0, y, 1e-5)
	assert.InDelta(t, 3.0, z, 1e-5)
}

func TestZoomSaturatesAtRadiusBounds(t *testing.T) {
	cc := NewCameraController(
		WithRadius(10),
		WithRadiusBounds(2, 20),
		WithZoomSpeed(1),
	)

	cc.Zoom(100)
	assert.Equal(t, float32(2), cc.Radius())

	cc.Zoom(-100)
	assert.Equal(t, float32(20), cc.Radius())

	// Saturated zoom is idempotent.
	cc.Zoom(-100)
	assert.Equal(t, float32(20), cc.Radius())
}

func TestOrbitClampsElevation(t *testing.T) {
	cc := NewCameraController(
		WithElevation(0.5),
		WithElevationBounds(0.1, 1.2),
		WithOrbitSpeed(0.3),
	)

	for range 20 {
		cc.OrbitUp()
	}
	assert.Equal(t, float32(1.2), cc.Elevation())

	for range 20 {
		cc.OrbitDown()
	}
	assert.Equal(t, float32(0.1), cc.Elevation())
}

func TestOrbitLeftRightAdjustAzimuth(t *testing.T) {
	cc := NewCameraController(WithAzimuth(0), WithOrbitSpeed(0.25))

	cc.OrbitRight()
	cc.OrbitRight()
	assert.InDelta(t, 0.5, cc.Azimuth(), 1e-6)

	cc.OrbitLeft()
	assert.InDelta(t, 0.25, cc.Azimuth(), 1e-6)
}

func TestCameraProjectsTargetToClipCenter(t *testing.T) {
	cc := NewCameraController(
		WithTarget(0.5, -0.25, 0),
		WithRadius(6),
		WithAzimuth(0.7),
		WithElevation(0.4),
	)
	cam := NewCamera(
		WithFov(math32.Pi/4),
		WithAspect(16.0/9.0),
		WithNear(0.1),
		WithFar(100),
		WithController(cc),
	)
	require.NotNil(t, cam.Controller())

	vp := cam.ViewProjectionMatrix()
	tx, ty, tz := cc.Target()
	cx := vp[0]*tx + vp[4]*ty + vp[8]*tz + vp[12]
	cy := vp[1]*tx + vp[5]*ty + vp[9]*tz + vp[13]
	assert.InDelta(t, 0, cx, 1e-4)
	assert.InDelta(t, 0, cy, 1e-4)
}

func TestCameraUpdateTracksControllerMovement(t *testing.T) {
	cc := NewCameraController(WithRadius(5))
	cam := NewCamera(WithController(cc))

	before := cam.ViewProjectionMatrix()
	cc.SetAzimuth(1.0)
	cam.Update()
	after := cam.ViewProjectionMatrix()

	assert.NotEqual(t, before, after)
}

func TestGPUCameraUniformLayout(t *testing.T) {
	u := GPUCameraUniform{CameraPosition: [3]float32{1, 2, 3}}
	u.ViewProj[0] = 42

	require.Equal(t, 80, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, float32(42), f32FromBuf(buf, 0))
	assert.Equal(t, float32(1), f32FromBuf(buf, 64))
	assert.Equal(t, float32(3), f32FromBuf(buf, 72))
}

func f32FromBuf(buf []byte, offset int) float32 {
	bits := uint32(buf[offset]) | uint32(buf[offset+1])<<8 | uint32(buf[offset+2])<<16 | uint32(buf[offset+3])<<24
	return math.Float32frombits(bits)
}
