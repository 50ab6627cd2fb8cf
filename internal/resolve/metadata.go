package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"fortio.org/safecast"

	"husk/internal/huskerr"
)

// metadataTimeout bounds how long the resolver waits on the external
// metadata tool; on expiry the invocation fails with a
// MetadataInvocationFailure.
const metadataTimeout = 30 * time.Second

// metadataDependency is one entry of a package's resolved dependency
// list, as emitted by the metadata tool's package graph.
type metadataDependency struct {
	Name   string `json:"name"`
	Rename string `json:"rename"`
}

type metadataPackage struct {
	Name         string               `json:"name"`
	ManifestPath string               `json:"manifest_path"`
	Dependencies []metadataDependency `json:"dependencies"`
}

type metadataOutput struct {
	FormatVersion json.Number       `json:"format_version"`
	Packages      []metadataPackage `json:"packages"`
}

// externNamesByPackage returns, for the package whose manifest path
// matches manifestPath, a map from resolved package name to the extern
// identifier it is referenced by from source (its rename when the
// metadata graph records one, else the normalized package name).
func (o *metadataOutput) externNamesByPackage(manifestPath string) map[string]string {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		abs = manifestPath
	}
	for _, pkg := range o.Packages {
		pkgAbs, err := filepath.Abs(pkg.ManifestPath)
		if err != nil {
			pkgAbs = pkg.ManifestPath
		}
		if pkgAbs != abs {
			continue
		}
		result := make(map[string]string, len(pkg.Dependencies))
		for _, dep := range pkg.Dependencies {
			if dep.Rename != "" {
				result[dep.Name] = normalize(dep.Rename)
			} else {
				result[dep.Name] = normalize(dep.Name)
			}
		}
		return result
	}
	return nil
}

// runMetadata invokes the configured metadata command against
// manifestPath and decodes its JSON response. cmdName is typically the
// package manager's own binary (e.g. "cargo"), invoked with a
// metadata-dump subcommand; husk does not hardcode which.
func runMetadata(cmdName, manifestPath string) (*metadataOutput, error) {
	if cmdName == "" {
		return nil, &huskerr.MetadataInvocationFailure{ManifestPath: manifestPath, Err: fmt.Errorf("no metadata command configured")}
	}

	ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cmdName, "metadata",
		"--no-deps", "--format-version", "1", "--manifest-path", manifestPath)
	out, err := cmd.Output()
	if err != nil {
		return nil, &huskerr.MetadataInvocationFailure{ManifestPath: manifestPath, Err: err}
	}

	var decoded metadataOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		return nil, &huskerr.MetadataInvocationFailure{ManifestPath: manifestPath, Err: err}
	}

	fv, convErr := decoded.FormatVersion.Int64()
	if convErr != nil {
		return nil, &huskerr.MetadataInvocationFailure{ManifestPath: manifestPath, Err: convErr}
	}
	fvInt, convErr := safecast.Convert[int](fv)
	if convErr != nil || fvInt != 1 {
		return nil, &huskerr.MetadataInvocationFailure{
			ManifestPath: manifestPath,
			Err:          fmt.Errorf("unsupported metadata format version %v", decoded.FormatVersion),
		}
	}

	return &decoded, nil
}
