package wformat

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// Workcell is the complete serializable document for one workcell root.
// Every element map is keyed by the element's stable ID.
type Workcell struct {
	Properties Properties                  `json:"properties"`
	Frames     map[uint32]Parented[Frame]  `json:"frames"`
	Inertias   map[uint32]Parented[Inertia] `json:"inertias"`
	Joints     map[uint32]Parented[Joint]  `json:"joints"`
	Visuals    map[uint32]Parented[Model]  `json:"visuals"`
	Collisions map[uint32]Parented[Model]  `json:"collisions"`
}

// New returns an empty document with all element maps allocated.
func New(name string) *Workcell {
	return &Workcell{
		Properties: Properties{Name: name},
		Frames:     make(map[uint32]Parented[Frame]),
		Inertias:   make(map[uint32]Parented[Inertia]),
		Joints:     make(map[uint32]Parented[Joint]),
		Visuals:    make(map[uint32]Parented[Model]),
		Collisions: make(map[uint32]Parented[Model]),
	}
}

// Properties holds workcell-level metadata.
type Properties struct {
	Name string `json:"name"`
}

// Parented pairs an element with the stable ID of its immediate parent.
type Parented[T any] struct {
	Parent uint32 `json:"parent"`
	Bundle T      `json:"bundle"`
}

// Frame is a named anchor in the kinematic tree.
type Frame struct {
	Name   string `json:"name"`
	Anchor Anchor `json:"anchor"`
}

// Anchor carries the pose of a frame relative to its parent.
type Anchor struct {
	Pose Pose `json:"pose"`
}

// Inertia describes the mass distribution of a rigid body.
type Inertia struct {
	Center Pose    `json:"center"`
	Mass   float32 `json:"mass"`
	Moment Moment  `json:"moment"`
}

// Moment is a symmetric inertia tensor.
type Moment struct {
	Ixx float32 `json:"ixx"`
	Iyy float32 `json:"iyy"`
	Izz float32 `json:"izz"`
	Ixy float32 `json:"ixy"`
	Ixz float32 `json:"ixz"`
	Iyz float32 `json:"iyz"`
}

// Joint connects its parent frame to its child frame.
type Joint struct {
	Name       string          `json:"name"`
	Properties JointProperties `json:"properties"`
}

// JointKind enumerates the supported joint types.
type JointKind string

const (
	JointFixed      JointKind = "fixed"
	JointRevolute   JointKind = "revolute"
	JointPrismatic  JointKind = "prismatic"
	JointContinuous JointKind = "continuous"
)

// JointProperties describes the motion a joint allows.
type JointProperties struct {
	Kind   JointKind    `json:"kind"`
	Axis   *[3]float32  `json:"axis,omitempty"`
	Limits *JointLimits `json:"limits,omitempty"`
}

// JointLimits bounds the motion of a non-fixed joint.
type JointLimits struct {
	Lower  float32 `json:"lower"`
	Upper  float32 `json:"upper"`
	Effort float32 `json:"effort"`
	Speed  float32 `json:"speed"`
}

// Model is a visual or collision body attached to a frame.
type Model struct {
	Name     string   `json:"name"`
	Geometry Geometry `json:"geometry"`
	Pose     Pose     `json:"pose"`
}

// Geometry is a tagged variant: exactly one of Mesh or Primitive is set.
type Geometry struct {
	Mesh      *MeshGeometry   `json:"mesh,omitempty"`
	Primitive *PrimitiveShape `json:"primitive,omitempty"`
}

// MeshGeometry references a mesh asset with an optional non-uniform scale.
type MeshGeometry struct {
	Source AssetSource `json:"source"`
	Scale  *[3]float32 `json:"scale,omitempty"`
}

// AssetSource locates a mesh asset. Exactly one field is set.
type AssetSource struct {
	Local  string `json:"local,omitempty"`
	Remote string `json:"remote,omitempty"`
	Search string `json:"search,omitempty"`
}

// IsEmpty reports whether no location is set.
func (s AssetSource) IsEmpty() bool {
	return s.Local == "" && s.Remote == "" && s.Search == ""
}

// String returns the set location for log lines and URDF filenames.
func (s AssetSource) String() string {
	switch {
	case s.Local != "":
		return s.Local
	case s.Remote != "":
		return s.Remote
	default:
		return s.Search
	}
}

// PrimitiveShape is a tagged variant of the supported primitive geometries.
type PrimitiveShape struct {
	Box      *BoxShape      `json:"box,omitempty"`
	Cylinder *CylinderShape `json:"cylinder,omitempty"`
	Capsule  *CapsuleShape  `json:"capsule,omitempty"`
	Sphere   *SphereShape   `json:"sphere,omitempty"`
}

// BoxShape is an axis-aligned box given by its full extents.
type BoxShape struct {
	Size [3]float32 `json:"size"`
}

// CylinderShape is a cylinder aligned with the local Z axis.
type CylinderShape struct {
	Radius float32 `json:"radius"`
	Length float32 `json:"length"`
}

// CapsuleShape is a capsule aligned with the local Z axis.
type CapsuleShape struct {
	Radius float32 `json:"radius"`
	Length float32 `json:"length"`
}

// SphereShape is a sphere.
type SphereShape struct {
	Radius float32 `json:"radius"`
}

// codec is the frozen sonic configuration. ConfigStd matches encoding/json
// semantics, which sorts integer map keys numerically and gives the
// deterministic output the save pipeline depends on.
var codec = sonic.ConfigStd

// Encode serializes the document as indented JSON.
func (wc *Workcell) Encode(w io.Writer) error {
	data, err := codec.MarshalIndent(wc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workcell '%s': %w", wc.Properties.Name, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write workcell '%s': %w", wc.Properties.Name, err)
	}
	return nil
}

// Decode parses a document previously produced by Encode.
func Decode(r io.Reader) (*Workcell, error) {
	wc := New("")
	if err := codec.NewDecoder(r).Decode(wc); err != nil {
		return nil, fmt.Errorf("failed to decode workcell document: %w", err)
	}
	return wc, nil
}
