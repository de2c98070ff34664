package silt

import _ "embed"

// Version is the library version, embedded from the VERSION file at the
// repository root so releases bump a single location.
//
//go:embed VERSION
var Version string
