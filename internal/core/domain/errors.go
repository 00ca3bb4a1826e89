package domain

import "go.trai.ch/zerr"

// Graph and pipeline definition errors.
var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrMultipleEntries is returned when a graph does not have exactly one entry task.
	ErrMultipleEntries = zerr.New("graph must have exactly one entry task")

	// ErrEntryHasDependencies is returned when the designated entry task depends on other tasks.
	ErrEntryHasDependencies = zerr.New("entry task must not have dependencies")

	// ErrUnreachableTask is returned when a task cannot be reached from the entry task.
	ErrUnreachableTask = zerr.New("task unreachable from entry")

	// ErrEmptyPipeline is returned when a pipeline has no stages.
	ErrEmptyPipeline = zerr.New("pipeline has no tasks")

	// ErrEmptyStage is returned when a pipeline stage has no tasks.
	ErrEmptyStage = zerr.New("pipeline stage has no tasks")

	// ErrUnknownAction is returned when a task names an action nothing can execute.
	ErrUnknownAction = zerr.New("unknown task action")

	// ErrUnknownTarget is returned when a build target name is not recognized.
	ErrUnknownTarget = zerr.New("unknown build target")
)

// Execution errors.
var (
	// ErrBuildExecutionFailed is returned when a pipeline run fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrRebuildFailed is returned when a watch-triggered rebuild fails.
	ErrRebuildFailed = zerr.New("rebuild failed")
)

// Task error taxonomy.
var (
	// ErrSourceSyntax is returned when a stylesheet or script cannot be parsed.
	ErrSourceSyntax = zerr.New("source syntax error")

	// ErrIO is returned when reading, writing or removing files fails.
	ErrIO = zerr.New("i/o error")

	// ErrCodec is returned when an image codec cannot process a file.
	ErrCodec = zerr.New("image codec error")

	// ErrConfig is returned when the configuration or a plugin definition is malformed.
	ErrConfig = zerr.New("invalid configuration")
)

// Adapter errors.
var (
	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnknownPluginKind is returned when a style plugin kind is not supported.
	ErrUnknownPluginKind = zerr.New("unknown style plugin kind")

	// ErrPluginFailed is returned when a style plugin fails to transform CSS.
	ErrPluginFailed = zerr.New("style plugin failed")

	// ErrInputResolutionFailed is returned when input globs cannot be resolved.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPreviewStartFailed is returned when the preview server cannot listen.
	ErrPreviewStartFailed = zerr.New("failed to start preview server")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)
