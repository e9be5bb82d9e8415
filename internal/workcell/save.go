package workcell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/urdfexport"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// ExportFormat selects the sink of a save request.
type ExportFormat int

const (
	// FormatDefault writes the workcell document straight to the target file.
	FormatDefault ExportFormat = iota
	// FormatURDF hands the document to the robot-description package
	// exporter, treating the target path as the output directory.
	FormatURDF
)

// SaveWorkcell is the request queued to trigger saving of one workcell.
type SaveWorkcell struct {
	Root   scene.Entity
	ToFile string
	Format ExportFormat
}

// InvalidWorkcellEntityError reports that a save was requested on an entity
// that does not denote a workcell.
type InvalidWorkcellEntityError struct {
	Entity scene.Entity
}

func (e *InvalidWorkcellEntityError) Error() string {
	return fmt.Sprintf("the specified entity [%v] does not refer to a workcell", e.Entity)
}

// Diagnostic records one element that was skipped while projecting the
// document. A save that produced diagnostics is partial, not failed.
type Diagnostic struct {
	Entity scene.Entity
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s", d.Entity, d.Detail)
}

// exportable reports whether e carries one of the exportable element markers.
func exportable(w *scene.World, e scene.Entity) bool {
	return scene.Has[FrameMarker](w, e) ||
		scene.Has[JointProperties](w, e) ||
		scene.Has[Moment](w, e) ||
		scene.Has[VisualMeshMarker](w, e) ||
		scene.Has[CollisionMeshMarker](w, e)
}

// assignSiteIDs numbers the root and every exportable, non-pending
// descendant in traversal order. The root always receives ID 0. IDs are
// regenerated from scratch on every call; descendant order is deterministic,
// so an unchanged hierarchy always gets the same numbering.
func assignSiteIDs(w *scene.World, root scene.Entity) {
	next := uint32(0)
	scene.Set(w, root, SiteID{ID: next})
	next++
	for _, e := range w.Descendants(root) {
		if !exportable(w, e) || scene.Has[Pending](w, e) {
			continue
		}
		scene.Set(w, e, SiteID{ID: next})
		next++
	}
}

// clearSiteIDs removes the IDs assigned by the previous save so that stale
// numbers can never leak into a later projection.
func clearSiteIDs(w *scene.World, root scene.Entity) {
	scene.Remove[SiteID](w, root)
	for _, e := range w.Descendants(root) {
		scene.Remove[SiteID](w, e)
	}
}

// parentSiteID resolves the stable ID of e's immediate parent.
func parentSiteID(w *scene.World, e scene.Entity) (uint32, bool) {
	p, ok := w.Parent(e)
	if !ok {
		return 0, false
	}
	id, ok := scene.Get[SiteID](w, p)
	if !ok {
		return 0, false
	}
	return id.ID, true
}

// GenerateWorkcell projects the hierarchy below root into a portable
// document. It fails only when root does not denote a workcell; any element
// that cannot be projected is skipped with a diagnostic and a log line.
func GenerateWorkcell(ctx context.Context, w *scene.World, root scene.Entity) (*wformat.Workcell, []Diagnostic, error) {
	logger := ctxlog.FromContext(ctx)

	props, ok := scene.Get[NameOfWorkcell](w, root)
	if !ok {
		return nil, nil, &InvalidWorkcellEntityError{Entity: root}
	}

	clearSiteIDs(w, root)
	assignSiteIDs(w, root)
	doc := wformat.New(props.Name)
	var diags []Diagnostic

	skip := func(e scene.Entity, format string, args ...any) {
		d := Diagnostic{Entity: e, Detail: fmt.Sprintf(format, args...)}
		logger.Error("Skipping element during workcell generation.", "entity", e, "detail", d.Detail)
		diags = append(diags, d)
	}

	// Visual and collision models.
	modelPass := func(e scene.Entity) {
		if !w.IsDescendant(e, root) || scene.Has[Pending](w, e) {
			return
		}
		id, ok := scene.Get[SiteID](w, e)
		if !ok {
			return
		}
		parent, ok := parentSiteID(w, e)
		if !ok {
			skip(e, "parent has no assigned ID")
			return
		}
		name, _ := scene.Get[NameInWorkcell](w, e)
		pose, _ := scene.Get[Pose](w, e)

		var geom wformat.Geometry
		if source, ok := scene.Get[AssetSource](w, e); ok {
			mesh := &wformat.MeshGeometry{Source: source}
			if s, ok := scene.Get[Scale](w, e); ok {
				scale := s.Scale
				mesh.Scale = &scale
			}
			geom.Mesh = mesh
		} else if primitive, ok := scene.Get[PrimitiveShape](w, e); ok {
			p := primitive
			geom.Primitive = &p
		} else {
			skip(e, "DEV error: model has neither mesh source nor primitive shape")
			return
		}

		entry := wformat.Parented[wformat.Model]{
			Parent: parent,
			Bundle: wformat.Model{Name: name.Name, Geometry: geom, Pose: pose},
		}
		if scene.Has[VisualMeshMarker](w, e) {
			doc.Visuals[id.ID] = entry
		} else if scene.Has[CollisionMeshMarker](w, e) {
			doc.Collisions[id.ID] = entry
		}
	}
	scene.Each(w, func(e scene.Entity, _ VisualMeshMarker) bool {
		modelPass(e)
		return true
	})
	scene.Each(w, func(e scene.Entity, _ CollisionMeshMarker) bool {
		modelPass(e)
		return true
	})

	// Frames.
	scene.Each(w, func(e scene.Entity, _ FrameMarker) bool {
		if !w.IsDescendant(e, root) || scene.Has[Pending](w, e) {
			return true
		}
		id, ok := scene.Get[SiteID](w, e)
		if !ok {
			return true
		}
		anchor, ok := scene.Get[Anchor](w, e)
		if !ok {
			skip(e, "frame has no anchor")
			return true
		}
		parent, ok := parentSiteID(w, e)
		if !ok {
			skip(e, "parent has no assigned ID")
			return true
		}
		name, _ := scene.Get[NameInWorkcell](w, e)
		doc.Frames[id.ID] = wformat.Parented[wformat.Frame]{
			Parent: parent,
			Bundle: wformat.Frame{Name: name.Name, Anchor: anchor},
		}
		return true
	})

	// Inertial bodies.
	scene.Each(w, func(e scene.Entity, moment Moment) bool {
		if !w.IsDescendant(e, root) || scene.Has[Pending](w, e) {
			return true
		}
		id, ok := scene.Get[SiteID](w, e)
		if !ok {
			return true
		}
		parent, ok := parentSiteID(w, e)
		if !ok {
			skip(e, "parent has no assigned ID")
			return true
		}
		mass, _ := scene.Get[Mass](w, e)
		pose, _ := scene.Get[Pose](w, e)
		doc.Inertias[id.ID] = wformat.Parented[wformat.Inertia]{
			Parent: parent,
			Bundle: wformat.Inertia{Center: pose, Mass: mass.Mass, Moment: moment},
		}
		return true
	})

	// Joints.
	scene.Each(w, func(e scene.Entity, properties JointProperties) bool {
		if !w.IsDescendant(e, root) || scene.Has[Pending](w, e) {
			return true
		}
		id, ok := scene.Get[SiteID](w, e)
		if !ok {
			return true
		}
		parent, ok := parentSiteID(w, e)
		if !ok {
			skip(e, "parent has no assigned ID")
			return true
		}
		name, _ := scene.Get[NameInWorkcell](w, e)
		doc.Joints[id.ID] = wformat.Parented[wformat.Joint]{
			Parent: parent,
			Bundle: wformat.Joint{Name: name.Name, Properties: properties},
		}
		return true
	})

	return doc, diags, nil
}

// RunSaveBatch drains every queued save request and services them one by
// one. A failing request is logged and never aborts the rest of the batch;
// nothing is reported back to the requester beyond log lines.
func RunSaveBatch(ctx context.Context, w *scene.World, requests []SaveWorkcell) {
	logger := ctxlog.FromContext(ctx)
	for _, req := range requests {
		doc, diags, err := GenerateWorkcell(ctx, w, req.Root)
		if err != nil {
			logger.Error("Unable to compile workcell.", "root", req.Root, "error", err)
			continue
		}
		if len(diags) > 0 {
			logger.Warn("Workcell document is partial.", "root", req.Root, "skipped", len(diags))
		}

		switch req.Format {
		case FormatDefault:
			logger.Info("Saving workcell.", "path", req.ToFile)
			f, err := os.Create(req.ToFile)
			if err != nil {
				logger.Error("Unable to create file.", "path", req.ToFile, "error", err)
				continue
			}
			err = doc.Encode(f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				logger.Error("Save failed.", "path", req.ToFile, "error", err)
				continue
			}
			logger.Info("Save successful.", "path", req.ToFile)
		case FormatURDF:
			if err := exportPackage(ctx, req.ToFile, doc); err != nil {
				logger.Error("Failed to export package.", "path", req.ToFile, "error", err)
				continue
			}
			logger.Info("Successfully exported package.", "path", req.ToFile)
		default:
			logger.Error("Unknown export format.", "format", int(req.Format))
		}
	}
}

// exportPackage hands the document to the package exporter with placeholder
// metadata.
// TODO(editor): collect license and maintainer metadata from the user
// instead of these placeholders.
func exportPackage(ctx context.Context, outputDirectory string, doc *wformat.Workcell) error {
	pkg := urdfexport.PackageContext{
		License: "TODO",
		Maintainers: []urdfexport.Person{
			{Name: "TODO", Email: "todo@todo.com"},
		},
		ProjectName:        doc.Properties.Name + "_description",
		FixedFrame:         "world",
		Dependencies:       nil,
		ProjectDescription: "TODO",
		ProjectVersion:     "0.0.1",
		URDFFileName:       "robot.urdf",
	}
	return urdfexport.GeneratePackage(ctx, doc, pkg, filepath.Clean(outputDirectory))
}
