package manifest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"husk/internal/huskerr"
)

// rawManifest mirrors the on-disk TOML shape. Decoding into a typed
// struct (rather than a bare map[string]any) gives us the dependency
// spec's `package =`/`version =` shorthand handling for free, the same
// technique cmd/surge/project_manifest.go uses for [package]/[run].
type rawManifest struct {
	Package   rawPackage   `toml:"package"`
	Workspace rawWorkspace `toml:"workspace"`

	Dependencies      map[string]rawDependencySpec     `toml:"dependencies"`
	DevDependencies   map[string]rawDependencySpec     `toml:"dev-dependencies"`
	BuildDependencies map[string]rawDependencySpec     `toml:"build-dependencies"`
	Target            map[string]rawTargetDependencies `toml:"target"`
}

type rawTargetDependencies struct {
	Dependencies map[string]rawDependencySpec `toml:"dependencies"`
}

type rawPackage struct {
	Name     string            `toml:"name"`
	Metadata rawPackageMeta    `toml:"metadata"`
	Layout   SourceLayout      `toml:"layout"`
}

type rawPackageMeta struct {
	Husk PackageMetadata `toml:"husk"`
}

type rawWorkspace struct {
	Metadata rawWorkspaceMeta `toml:"metadata"`
}

type rawWorkspaceMeta struct {
	Husk WorkspaceMetadata `toml:"husk"`
}

// rawDependencySpec accepts either a bare version string ("0.4") or a
// table ({ package = "other", version = "0.4" }). TOML has no native
// union type, so UnmarshalTOML switches on the decoded value's type: a
// string becomes the version, a table fills whichever of package,
// rename, version and path are present as strings, and anything else is
// an error.
type rawDependencySpec struct {
	DependencySpec
}

func (d *rawDependencySpec) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		d.Version = val
		return nil
	case map[string]interface{}:
		if pkg, ok := val["package"].(string); ok {
			d.Package = pkg
		}
		if rename, ok := val["rename"].(string); ok {
			d.Rename = rename
		}
		if version, ok := val["version"].(string); ok {
			d.Version = version
		}
		if path, ok := val["path"].(string); ok {
			d.Path = path
		}
		return nil
	default:
		return fmt.Errorf("dependency spec must be a string or table, got %T", v)
	}
}

// ParseFile reads and decodes the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	var raw rawManifest
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, &huskerr.ManifestParseFailure{Path: path, Err: err}
	}

	m := &Manifest{
		Path:              path,
		Dir:               filepath.Dir(path),
		HasPackage:        meta.IsDefined("package") && strings.TrimSpace(raw.Package.Name) != "",
		Package:           Package{Name: raw.Package.Name},
		Dependencies:      toDependencyTable(raw.Dependencies),
		DevDependencies:   toDependencyTable(raw.DevDependencies),
		BuildDependencies: toDependencyTable(raw.BuildDependencies),
		Layout:            raw.Package.Layout,
		PackageMetadata:   raw.Package.Metadata.Husk,
		IsWorkspaceRoot:   meta.IsDefined("workspace"),
		WorkspaceMetadata: raw.Workspace.Metadata.Husk,
	}

	for predicate, t := range raw.Target {
		m.TargetTables = append(m.TargetTables, TargetTable{
			Predicate:    predicate,
			Dependencies: toDependencyTable(t.Dependencies),
		})
	}
	sort.Slice(m.TargetTables, func(i, j int) bool {
		return m.TargetTables[i].Predicate < m.TargetTables[j].Predicate
	})

	return m, nil
}

func toDependencyTable(raw map[string]rawDependencySpec) DependencyTable {
	if len(raw) == 0 {
		return nil
	}
	out := make(DependencyTable, len(raw))
	for key, spec := range raw {
		out[key] = spec.DependencySpec
	}
	return out
}
