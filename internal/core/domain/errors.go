package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTarget is returned when a name is neither "server" nor "client".
	ErrUnknownTarget = zerr.New("unknown build target")

	// ErrConfigNotFound is returned when no gourmet.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find gourmet.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMissingTargetCommand is returned when a target has no build command.
	ErrMissingTargetCommand = zerr.New("build target has no command")

	// ErrInvalidWatchPoll is returned when the poll option is neither a boolean nor an interval.
	ErrInvalidWatchPoll = zerr.New("invalid watch poll value, expected true, false or milliseconds")

	// ErrInvalidIgnorePattern is returned when an ignore pattern is not a valid glob.
	ErrInvalidIgnorePattern = zerr.New("invalid watch ignore pattern")

	// ErrCompilerStartFailed is returned when the build command cannot be started.
	ErrCompilerStartFailed = zerr.New("failed to start build command")

	// ErrCompilerWatchFailed is returned when source watching cannot be set up.
	ErrCompilerWatchFailed = zerr.New("failed to watch sources")

	// ErrOutputCollectFailed is returned when compiled output cannot be read.
	ErrOutputCollectFailed = zerr.New("failed to collect compiled output")

	// ErrWatchInitFailed is returned when the watch session cannot be initialized.
	ErrWatchInitFailed = zerr.New("error occurred while initializing watch middleware")

	// ErrBuildExecutionFailed is returned when a build finished with errors.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrMissingStats is returned when a manifest is requested without any compiled result.
	ErrMissingStats = zerr.New("no compilation stats to write a manifest for")

	// ErrManifestMarshalFailed is returned when a manifest cannot be encoded.
	ErrManifestMarshalFailed = zerr.New("failed to marshal manifest")

	// ErrManifestWriteFailed is returned when a manifest cannot be stored.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrManifestReadFailed is returned when a manifest cannot be loaded.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrEntrypointNotFound is returned when a requested entrypoint is not in the manifest.
	ErrEntrypointNotFound = zerr.New("entrypoint not found")

	// ErrRenderFailed is returned when the render server cannot be reached.
	ErrRenderFailed = zerr.New("failed to render page")

	// ErrStoragePathInvalid is returned when a storage path escapes its root.
	ErrStoragePathInvalid = zerr.New("invalid storage path")

	// ErrStorageWriteFailed is returned when a file cannot be stored.
	ErrStorageWriteFailed = zerr.New("failed to write file to storage")

	// ErrServerListenFailed is returned when an HTTP listener cannot be opened.
	ErrServerListenFailed = zerr.New("failed to listen")

	// ErrCleanFailed is returned when the output directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove output directory")
)
