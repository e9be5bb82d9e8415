package urdfexport

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// Robot is the URDF document root.
type Robot struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []Link   `xml:"link"`
	Joints  []Joint  `xml:"joint"`
}

// Link is one rigid body of the robot.
type Link struct {
	Name       string    `xml:"name,attr"`
	Inertial   *Inertial `xml:"inertial,omitempty"`
	Visuals    []Body    `xml:"visual"`
	Collisions []Body    `xml:"collision"`
}

// Inertial is a link's mass distribution.
type Inertial struct {
	Origin  Origin      `xml:"origin"`
	Mass    MassElement `xml:"mass"`
	Inertia Tensor      `xml:"inertia"`
}

// MassElement wraps the scalar mass attribute.
type MassElement struct {
	Value float32 `xml:"value,attr"`
}

// Tensor is the symmetric inertia tensor.
type Tensor struct {
	Ixx float32 `xml:"ixx,attr"`
	Ixy float32 `xml:"ixy,attr"`
	Ixz float32 `xml:"ixz,attr"`
	Iyy float32 `xml:"iyy,attr"`
	Iyz float32 `xml:"iyz,attr"`
	Izz float32 `xml:"izz,attr"`
}

// Body is a visual or collision element of a link.
type Body struct {
	Name     string   `xml:"name,attr,omitempty"`
	Origin   Origin   `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Origin is a pose expressed as xyz translation and roll-pitch-yaw.
type Origin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

// Geometry is the URDF geometry variant.
type Geometry struct {
	Mesh     *Mesh     `xml:"mesh,omitempty"`
	Box      *Box      `xml:"box,omitempty"`
	Cylinder *Cylinder `xml:"cylinder,omitempty"`
	Sphere   *Sphere   `xml:"sphere,omitempty"`
}

// Mesh references a mesh file, optionally scaled.
type Mesh struct {
	Filename string `xml:"filename,attr"`
	Scale    string `xml:"scale,attr,omitempty"`
}

// Box is a box given by its full extents.
type Box struct {
	Size string `xml:"size,attr"`
}

// Cylinder is a Z-aligned cylinder.
type Cylinder struct {
	Radius float32 `xml:"radius,attr"`
	Length float32 `xml:"length,attr"`
}

// Sphere is a sphere.
type Sphere struct {
	Radius float32 `xml:"radius,attr"`
}

// Joint connects two links.
type Joint struct {
	Name   string  `xml:"name,attr"`
	Type   string  `xml:"type,attr"`
	Origin Origin  `xml:"origin"`
	Parent LinkRef `xml:"parent"`
	Child  LinkRef `xml:"child"`
	Axis   *Axis   `xml:"axis,omitempty"`
	Limit  *Limit  `xml:"limit,omitempty"`
}

// LinkRef names the link at one end of a joint.
type LinkRef struct {
	Link string `xml:"link,attr"`
}

// Axis is the motion axis of a non-fixed joint.
type Axis struct {
	XYZ string `xml:"xyz,attr"`
}

// Limit bounds the motion of a non-fixed joint.
type Limit struct {
	Lower  float32 `xml:"lower,attr"`
	Upper  float32 `xml:"upper,attr"`
	Effort float32 `xml:"effort,attr"`
	Speed  float32 `xml:"velocity,attr"`
}

func originOf(p wformat.Pose) Origin {
	e := p.Rot.AsEulerXYZ()
	return Origin{
		XYZ: fmt.Sprintf("%g %g %g", p.Trans[0], p.Trans[1], p.Trans[2]),
		RPY: fmt.Sprintf("%g %g %g", e[0], e[1], e[2]),
	}
}

func geometryOf(g wformat.Geometry) Geometry {
	var out Geometry
	switch {
	case g.Mesh != nil:
		mesh := &Mesh{Filename: g.Mesh.Source.String()}
		if s := g.Mesh.Scale; s != nil {
			mesh.Scale = fmt.Sprintf("%g %g %g", s[0], s[1], s[2])
		}
		out.Mesh = mesh
	case g.Primitive != nil:
		p := g.Primitive
		switch {
		case p.Box != nil:
			out.Box = &Box{Size: fmt.Sprintf("%g %g %g", p.Box.Size[0], p.Box.Size[1], p.Box.Size[2])}
		case p.Cylinder != nil:
			out.Cylinder = &Cylinder{Radius: p.Cylinder.Radius, Length: p.Cylinder.Length}
		case p.Capsule != nil:
			// URDF has no capsule primitive; a cylinder of the same extent is
			// the closest representation.
			out.Cylinder = &Cylinder{Radius: p.Capsule.Radius, Length: p.Capsule.Length}
		case p.Sphere != nil:
			out.Sphere = &Sphere{Radius: p.Sphere.Radius}
		}
	}
	return out
}

// BuildRobot synthesizes a URDF robot from a workcell document. Elements
// whose parent cannot be resolved to a link are skipped with a logged error,
// matching the save pipeline's best-effort policy.
func BuildRobot(ctx context.Context, doc *wformat.Workcell, fixedFrame string) (*Robot, error) {
	logger := ctxlog.FromContext(ctx)
	if doc.Properties.Name == "" {
		return nil, fmt.Errorf("workcell document has no name")
	}

	robot := &Robot{Name: doc.Properties.Name}

	// The workcell root is itself a link so that elements parented to ID 0
	// have somewhere to attach.
	linkName := map[uint32]string{0: doc.Properties.Name}
	links := map[uint32]*Link{0: {Name: doc.Properties.Name}}
	linkOrder := []uint32{0}

	frameIDs := sortedKeys(doc.Frames)
	for _, id := range frameIDs {
		f := doc.Frames[id]
		name := f.Bundle.Name
		if name == "" {
			name = fmt.Sprintf("frame_%d", id)
		}
		linkName[id] = name
		links[id] = &Link{Name: name}
		linkOrder = append(linkOrder, id)
	}

	for _, id := range sortedKeys(doc.Inertias) {
		in := doc.Inertias[id]
		link, ok := links[in.Parent]
		if !ok {
			logger.Error("Inertia parent is not a link, skipping.", "id", id, "parent", in.Parent)
			continue
		}
		m := in.Bundle.Moment
		link.Inertial = &Inertial{
			Origin: originOf(in.Bundle.Center),
			Mass:   MassElement{Value: in.Bundle.Mass},
			Inertia: Tensor{
				Ixx: m.Ixx, Ixy: m.Ixy, Ixz: m.Ixz,
				Iyy: m.Iyy, Iyz: m.Iyz, Izz: m.Izz,
			},
		}
	}

	attach := func(ids []uint32, elems map[uint32]wformat.Parented[wformat.Model], visual bool) {
		for _, id := range ids {
			m := elems[id]
			link, ok := links[m.Parent]
			if !ok {
				logger.Error("Model parent is not a link, skipping.", "id", id, "parent", m.Parent)
				continue
			}
			body := Body{
				Name:     m.Bundle.Name,
				Origin:   originOf(m.Bundle.Pose),
				Geometry: geometryOf(m.Bundle.Geometry),
			}
			if visual {
				link.Visuals = append(link.Visuals, body)
			} else {
				link.Collisions = append(link.Collisions, body)
			}
		}
	}
	attach(sortedKeys(doc.Visuals), doc.Visuals, true)
	attach(sortedKeys(doc.Collisions), doc.Collisions, false)

	// Frames parented to a joint are articulated by that joint; all other
	// frames hang off their parent link with a fixed joint.
	childFrameOfJoint := map[uint32]uint32{}
	for _, id := range frameIDs {
		f := doc.Frames[id]
		if _, isJoint := doc.Joints[f.Parent]; isJoint {
			childFrameOfJoint[f.Parent] = id
		}
	}

	if fixedFrame != "" {
		robot.Links = append(robot.Links, Link{Name: fixedFrame})
		robot.Joints = append(robot.Joints, Joint{
			Name:   fmt.Sprintf("%s_%s_joint", fixedFrame, doc.Properties.Name),
			Type:   string(wformat.JointFixed),
			Parent: LinkRef{Link: fixedFrame},
			Child:  LinkRef{Link: doc.Properties.Name},
		})
	}
	for _, id := range linkOrder {
		robot.Links = append(robot.Links, *links[id])
	}

	for _, id := range frameIDs {
		f := doc.Frames[id]
		if _, isJoint := doc.Joints[f.Parent]; isJoint {
			continue
		}
		parent, ok := linkName[f.Parent]
		if !ok {
			logger.Error("Frame parent is not a link, skipping fixed joint.", "id", id, "parent", f.Parent)
			continue
		}
		robot.Joints = append(robot.Joints, Joint{
			Name:   linkName[id] + "_joint",
			Type:   string(wformat.JointFixed),
			Origin: originOf(f.Bundle.Anchor.Pose),
			Parent: LinkRef{Link: parent},
			Child:  LinkRef{Link: linkName[id]},
		})
	}

	for _, id := range sortedKeys(doc.Joints) {
		j := doc.Joints[id]
		parent, ok := linkName[j.Parent]
		if !ok {
			logger.Error("Joint parent is not a link, skipping.", "id", id, "parent", j.Parent)
			continue
		}
		childID, ok := childFrameOfJoint[id]
		if !ok {
			logger.Error("Joint has no child frame, skipping.", "id", id)
			continue
		}
		childFrame := doc.Frames[childID]
		out := Joint{
			Name:   j.Bundle.Name,
			Type:   string(j.Bundle.Properties.Kind),
			Origin: originOf(childFrame.Bundle.Anchor.Pose),
			Parent: LinkRef{Link: parent},
			Child:  LinkRef{Link: linkName[childID]},
		}
		if a := j.Bundle.Properties.Axis; a != nil {
			out.Axis = &Axis{XYZ: fmt.Sprintf("%g %g %g", a[0], a[1], a[2])}
		}
		if l := j.Bundle.Properties.Limits; l != nil {
			out.Limit = &Limit{Lower: l.Lower, Upper: l.Upper, Effort: l.Effort, Speed: l.Speed}
		}
		robot.Joints = append(robot.Joints, out)
	}

	return robot, nil
}

func sortedKeys[T any](m map[uint32]T) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
