package wformat

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkcell() *Workcell {
	wc := New("test_cell")
	wc.Frames[1] = Parented[Frame]{
		Parent: 0,
		Bundle: Frame{Name: "base", Anchor: Anchor{Pose: Identity()}},
	}
	wc.Frames[2] = Parented[Frame]{
		Parent: 1,
		Bundle: Frame{Name: "tool", Anchor: Anchor{Pose: Pose{
			Trans: [3]float32{0.1, 0, 0.5},
			Rot:   Rotation{EulerXYZ: &[3]float32{0, 0, 1.5708}},
		}}},
	}
	wc.Visuals[3] = Parented[Model]{
		Parent: 1,
		Bundle: Model{
			Name: "housing",
			Geometry: Geometry{Mesh: &MeshGeometry{
				Source: AssetSource{Local: "meshes/housing.stl"},
				Scale:  &[3]float32{1, 1, 2},
			}},
			Pose: Identity(),
		},
	}
	wc.Collisions[4] = Parented[Model]{
		Parent: 1,
		Bundle: Model{
			Name:     "housing_collision",
			Geometry: Geometry{Primitive: &PrimitiveShape{Box: &BoxShape{Size: [3]float32{1, 1, 1}}}},
			Pose:     Identity(),
		},
	}
	wc.Joints[5] = Parented[Joint]{
		Parent: 2,
		Bundle: Joint{Name: "swivel", Properties: JointProperties{
			Kind:   JointRevolute,
			Axis:   &[3]float32{0, 0, 1},
			Limits: &JointLimits{Lower: -3.14, Upper: 3.14, Effort: 10, Speed: 1},
		}},
	}
	wc.Inertias[6] = Parented[Inertia]{
		Parent: 1,
		Bundle: Inertia{Center: Identity(), Mass: 2.5, Moment: Moment{Ixx: 1, Iyy: 1, Izz: 1}},
	}
	return wc
}

func TestRoundTrip(t *testing.T) {
	wc := sampleWorkcell()

	var buf bytes.Buffer
	require.NoError(t, wc.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(wc, got); diff != "" {
		t.Errorf("document changed across round trip (-want +got):\n%s", diff)
	}
}

func TestDeterministicOutput(t *testing.T) {
	wc := sampleWorkcell()

	var a, b bytes.Buffer
	require.NoError(t, wc.Encode(&a))
	require.NoError(t, wc.Encode(&b))

	assert.Equal(t, a.String(), b.String(), "same document must serialize to identical bytes")
	assert.Contains(t, a.String(), `"name": "test_cell"`)
}

func TestRotation(t *testing.T) {
	t.Run("zero value is identity", func(t *testing.T) {
		var r Rotation
		assert.Equal(t, [4]float32{0, 0, 0, 1}, r.AsQuat())
		assert.Equal(t, [3]float32{}, r.AsEulerXYZ())
	})

	t.Run("euler quat round trip", func(t *testing.T) {
		r := Rotation{EulerXYZ: &[3]float32{0.3, -0.2, 1.1}}
		q := r.AsQuat()
		back := Rotation{Quat: &q}.AsEulerXYZ()
		for i := range back {
			assert.InDelta(t, (*r.EulerXYZ)[i], back[i], 1e-4)
		}
	})
}

func TestAssetSource(t *testing.T) {
	assert.True(t, AssetSource{}.IsEmpty())
	assert.Equal(t, "a.stl", AssetSource{Local: "a.stl"}.String())
	assert.Equal(t, "pkg://x", AssetSource{Remote: "pkg://x"}.String())
}
