package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "gourmet.yaml"

	// DefaultOutputDirName is the default directory for compiled output.
	DefaultOutputDirName = ".gourmet"

	// StagingDirName holds build output before it is captured in memory.
	StagingDirName = ".staging"

	// ArgsHeader carries base64 encoded JSON render arguments.
	ArgsHeader = "X-Gourmet-Args"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// Environment variables passed to build commands.
const (
	EnvTarget       = "GOURMET_TARGET"
	EnvStage        = "GOURMET_STAGE"
	EnvOutputDir    = "GOURMET_OUTPUT_DIR"
	EnvStaticPrefix = "GOURMET_STATIC_PREFIX"
)
