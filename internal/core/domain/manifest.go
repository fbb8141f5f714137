package domain

// ManifestFileName is the file written next to each target's output.
const ManifestFileName = "manifest.json"

// Manifest describes one target's compiled output for the runtime.
type Manifest struct {
	Target       BuildTarget         `json:"target"`
	Stage        string              `json:"stage"`
	StaticPrefix string              `json:"staticPrefix"`
	Hash         string              `json:"hash"`
	Entrypoints  map[string][]string `json:"entrypoints"`
	Assets       []Asset             `json:"assets"`
}
