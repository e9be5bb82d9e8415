// Package urdfexport generates a ROS-style robot description package from a
// workcell document: a package.xml manifest and a URDF file synthesized from
// the document's frames, joints, inertias and models.
package urdfexport
