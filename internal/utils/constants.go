package utils

const (
	// ApplicationName is the name of the command line binary.
	ApplicationName = "snip"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".snip.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".snip"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
	// IgnoreFileName is the name of the optional ignore file read from the working directory.
	IgnoreFileName = ".snipignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "snip failed"
)
