package urdfexport

import (
	"encoding/xml"
	"fmt"
)

// manifest models a ROS package.xml, format 3.
type manifest struct {
	XMLName     xml.Name     `xml:"package"`
	Format      int          `xml:"format,attr"`
	Name        string       `xml:"name"`
	Version     string       `xml:"version"`
	Description string       `xml:"description"`
	Maintainers []maintainer `xml:"maintainer"`
	License     string       `xml:"license"`
	ExecDepends []string     `xml:"exec_depend"`
	Export      export       `xml:"export"`
}

type maintainer struct {
	Email string `xml:"email,attr"`
	Name  string `xml:",chardata"`
}

type export struct {
	BuildType string `xml:"build_type"`
}

func buildManifest(pkg PackageContext) (*manifest, error) {
	if pkg.ProjectName == "" {
		return nil, fmt.Errorf("package context has no project name")
	}
	m := &manifest{
		Format:      3,
		Name:        pkg.ProjectName,
		Version:     pkg.ProjectVersion,
		Description: pkg.ProjectDescription,
		License:     pkg.License,
		ExecDepends: pkg.Dependencies,
		Export:      export{BuildType: "ament_cmake"},
	}
	for _, p := range pkg.Maintainers {
		m.Maintainers = append(m.Maintainers, maintainer{Email: p.Email, Name: p.Name})
	}
	return m, nil
}
