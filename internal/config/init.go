package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/snippetbundle/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `bundle:
  max_total_chars: 1200000
  summary: true
  copy: false
  tokens:
    enabled: false
    model: gpt-4o
tree:
  format: raw
  summary: true
filter:
  max_file_bytes: 524288
  directories: []
  extensions: []
  use_ignore_file: true
  encoding: utf-8
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// ConfigurationPath returns the file written for target. Global targets create
// the configuration directory when it is missing.
func ConfigurationPath(target InitTarget, workingDirectory string) (string, error) {
	switch target {
	case InitTargetLocal, "":
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.GlobalConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}
}

// InitializeConfiguration writes the default configuration to the requested target
// and returns the written path. Existing files are only replaced when Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, pathErr := ConfigurationPath(options.Target, options.WorkingDirectory)
	if pathErr != nil {
		return "", pathErr
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
