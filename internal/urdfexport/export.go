package urdfexport

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// PackageContext is the metadata block for a generated package.
type PackageContext struct {
	License            string
	Maintainers        []Person
	ProjectName        string
	FixedFrame         string
	Dependencies       []string
	ProjectDescription string
	ProjectVersion     string
	URDFFileName       string
}

// Person identifies a package maintainer.
type Person struct {
	Name  string
	Email string
}

// GeneratePackage writes <outDir>/<ProjectName>/package.xml and
// <outDir>/<ProjectName>/urdf/<URDFFileName> for the given document.
func GeneratePackage(ctx context.Context, doc *wformat.Workcell, pkg PackageContext, outDir string) error {
	root := filepath.Join(outDir, pkg.ProjectName)
	urdfDir := filepath.Join(root, "urdf")
	if err := os.MkdirAll(urdfDir, 0o755); err != nil {
		return fmt.Errorf("failed to create package directory: %w", err)
	}

	manifest, err := buildManifest(pkg)
	if err != nil {
		return err
	}
	if err := writeXML(filepath.Join(root, "package.xml"), manifest); err != nil {
		return err
	}

	robot, err := BuildRobot(ctx, doc, pkg.FixedFrame)
	if err != nil {
		return err
	}
	return writeXML(filepath.Join(urdfDir, pkg.URDFFileName), robot)
}

func writeXML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	_, err = f.WriteString("\n")
	return err
}
