// Package platform defines the port interface for platform payload adapters:
// pure normalizers that map a platform's raw JSON into the canonical project
// model. Adapters do no I/O.
package platform

import (
	"github.com/briefdeck/briefdeck/internal/domain/project"
)

// Adapter normalizes one platform's raw payloads.
//
// Normalize must accept every known top-level response shape for its platform
// ({"projects":[...]}, {"project":{...}}, a bare array, or a single project
// object) and must not fail on missing optional fields; absent fields default
// per the canonical model invariants. A payload matching no known shape yields
// an empty slice, which callers treat as a failed route. Records missing both
// an id and a name are filtered out, not rejected with an error.
type Adapter interface {
	// Platform returns the platform this adapter understands.
	Platform() project.Platform

	// Normalize maps a raw upstream payload to canonical project records.
	Normalize(payload []byte) []project.ProjectData
}
