package pipeline

import (
	"github.com/ecbuild/ecbuild/internal/config"
	"github.com/ecbuild/ecbuild/internal/depgraph"
)

// CompilePayload carries a Task's compile-specific data.
type CompilePayload struct {
	Node       *depgraph.SourceNode
	Config     *config.BuildConfig
	ObjectPath string // precomputed by the orchestrator, per compiler.ObjectPathFor
}

// LinkPayload carries a Task's link-specific data.
type LinkPayload struct {
	Objects []string
	Config  *config.BuildConfig
}

// CompileTaskName formats a compile task's display name.
func CompileTaskName(sourcePath string) string {
	return "Compile:" + sourcePath
}

// LinkTaskName is the fixed display name for the final link task.
const LinkTaskName = "Link:FinalBinary"
