package domain

// BuildTarget identifies one of the two compilation units.
type BuildTarget string

const (
	// TargetServer is the bundle rendered on the server.
	TargetServer BuildTarget = "server"
	// TargetClient is the bundle shipped to the browser.
	TargetClient BuildTarget = "client"
)

// Targets lists every build target in the order they are reported.
var Targets = []BuildTarget{TargetServer, TargetClient}

// String returns the target name.
func (t BuildTarget) String() string {
	return string(t)
}

// Valid reports whether t is one of the known targets.
func (t BuildTarget) Valid() bool {
	return t == TargetServer || t == TargetClient
}

// ParseBuildTarget converts a name into a BuildTarget.
func ParseBuildTarget(name string) (BuildTarget, error) {
	t := BuildTarget(name)
	if !t.Valid() {
		return "", ErrUnknownTarget
	}
	return t, nil
}
