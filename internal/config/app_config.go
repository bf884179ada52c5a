package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/snippetbundle/internal/filter"
	"github.com/temirov/snippetbundle/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Bundle BundleConfiguration `mapstructure:"bundle"`
	Tree   TreeConfiguration   `mapstructure:"tree"`
	Filter FilterConfiguration `mapstructure:"filter"`
}

// BundleConfiguration defines defaults for the bundle command and the session shell.
type BundleConfiguration struct {
	MaxTotalChars *int               `mapstructure:"max_total_chars"`
	Summary       *bool              `mapstructure:"summary"`
	Clipboard     *bool              `mapstructure:"copy"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	Format  string `mapstructure:"format"`
	Summary *bool  `mapstructure:"summary"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// FilterConfiguration extends the built-in ignore rules.
type FilterConfiguration struct {
	MaxFileBytes  *int64   `mapstructure:"max_file_bytes"`
	Directories   []string `mapstructure:"directories"`
	Extensions    []string `mapstructure:"extensions"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore_file"`
	Encoding      string   `mapstructure:"encoding"`
}

// Rules returns the built-in filter rules extended with the configured and ignore-file entries.
func (configuration FilterConfiguration) Rules(ignoreFile IgnoreFile) filter.Rules {
	rules := filter.DefaultRules().
		WithDirectoryNames(configuration.Directories...).
		WithDirectoryNames(ignoreFile.Directories...).
		WithBinaryExtensions(configuration.Extensions...).
		WithBinaryExtensions(ignoreFile.Extensions...)
	if configuration.MaxFileBytes != nil && *configuration.MaxFileBytes > 0 {
		rules.MaxFileBytes = *configuration.MaxFileBytes
	}
	return rules
}

// IgnoreFileEnabled reports whether the working directory ignore file should be read.
func (configuration FilterConfiguration) IgnoreFileEnabled() bool {
	return configuration.UseIgnoreFile == nil || *configuration.UseIgnoreFile
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Filter.Directories = utils.DeduplicatePatterns(merged.Filter.Directories)
	merged.Filter.Extensions = utils.DeduplicatePatterns(merged.Filter.Extensions)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Bundle = result.Bundle.merge(override.Bundle)
	result.Tree = result.Tree.merge(override.Tree)
	result.Filter = result.Filter.merge(override.Filter)
	return result
}

func (config BundleConfiguration) merge(override BundleConfiguration) BundleConfiguration {
	result := config
	if override.MaxTotalChars != nil {
		result.MaxTotalChars = cloneInt(override.MaxTotalChars)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config FilterConfiguration) merge(override FilterConfiguration) FilterConfiguration {
	result := config
	if override.MaxFileBytes != nil {
		cloned := *override.MaxFileBytes
		result.MaxFileBytes = &cloned
	}
	if len(override.Directories) > 0 {
		result.Directories = append([]string{}, utils.DeduplicatePatterns(override.Directories)...)
	}
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, utils.DeduplicatePatterns(override.Extensions)...)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
