package artifact

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

// Coordinates identify an artifact in a Maven repository.
type Coordinates struct {
	Group    string
	Artifact string
	Version  string
}

// POM returns the coordinates from the first META-INF/maven/*/*/pom.xml in
// the archive. Group and version fall back to the parent declaration. The
// second value is false when there is no usable POM.
func (a *Archive) POM() (Coordinates, bool) {
	for _, f := range a.zr.File {
		if !isPOM(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			continue
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			continue
		}
		project := doc.SelectElement("project")
		if project == nil {
			continue
		}

		c := Coordinates{
			Group:    childText(project, "groupId"),
			Artifact: childText(project, "artifactId"),
			Version:  childText(project, "version"),
		}
		if parent := project.SelectElement("parent"); parent != nil {
			if c.Group == "" {
				c.Group = childText(parent, "groupId")
			}
			if c.Version == "" {
				c.Version = childText(parent, "version")
			}
		}
		if c.Artifact == "" {
			continue
		}
		return c, true
	}
	return Coordinates{}, false
}

// Complete fills the empty coordinate fields of r from the archive POM.
func (a *Archive) Complete(r Resolved) Resolved {
	if r.Name != "" && r.Version != "" && r.Group != "" {
		return r
	}
	c, ok := a.POM()
	if !ok {
		return r
	}
	if r.Group == "" {
		r.Group = c.Group
	}
	if r.Name == "" {
		r.Name = c.Artifact
	}
	if r.Version == "" {
		r.Version = c.Version
	}
	return r
}

func isPOM(name string) bool {
	parts := strings.Split(name, "/")
	return len(parts) == 5 && parts[0] == "META-INF" && parts[1] == "maven" && path.Base(name) == "pom.xml"
}

func childText(e *etree.Element, tag string) string {
	child := e.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
