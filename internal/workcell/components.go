package workcell

import (
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// NameOfWorkcell marks an entity as the root of an open workcell. Its
// presence is what makes an entity a valid save target.
type NameOfWorkcell struct {
	Name string
}

// NameInWorkcell is the element name used inside the exported document.
type NameInWorkcell struct {
	Name string
}

// FrameMarker marks an entity as a kinematic frame.
type FrameMarker struct{}

// VisualMeshMarker marks an entity as a visual body.
type VisualMeshMarker struct{}

// CollisionMeshMarker marks an entity as a collision body.
type CollisionMeshMarker struct{}

// Pending marks an entity that is still under interactive construction and
// must be excluded from saves.
type Pending struct{}

// SiteID is the stable identifier assigned to an exportable entity during a
// save. IDs are regenerated from scratch on every save.
type SiteID struct {
	ID uint32
}

// WorkcellVisualizationMarker marks the origin-axis visualization spawned
// under each workcell root.
type WorkcellVisualizationMarker struct{}

// Selectable makes an entity a valid selection target, optionally redirecting
// selection to another entity (e.g. a visualization selects its workcell).
type Selectable struct {
	// Element is the entity that selecting this one actually selects.
	Element scene.Entity
}

// PreviewModel marks the in-flight model spawned by a placement workflow.
type PreviewModel struct{}

// Component payloads shared with the document format. Attaching one of these
// to an entity and attaching its wformat counterpart are the same operation.
type (
	// Anchor carries the pose of a frame relative to its parent.
	Anchor = wformat.Anchor
	// Pose places a model or inertial relative to its parent.
	Pose = wformat.Pose
	// Scale is an optional non-uniform scale for mesh geometry.
	Scale struct {
		Scale [3]float32
	}
	// AssetSource references the mesh asset backing a model.
	AssetSource = wformat.AssetSource
	// PrimitiveShape is primitive geometry for a model.
	PrimitiveShape = wformat.PrimitiveShape
	// JointProperties describes the motion a joint allows.
	JointProperties = wformat.JointProperties
	// Moment is the inertia tensor of an inertial body.
	Moment = wformat.Moment
)

// Mass is the mass of an inertial body in kilograms.
type Mass struct {
	Mass float32
}
