// Package puzzlelog holds module-wide constants shared by the CLI and
// library users.
package puzzlelog

// Version is the release version of puzzlelog.
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/puzzlelog"
