package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/utpal03/portalkit/internal/tag"
	"github.com/utpal03/portalkit/validator"
)

// FileLoader loads configuration from a file, with environment overrides.
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
}

// NewFileLoader creates a new file loader.
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator) *FileLoader {
	// Determine config type from file extension
	extension := path.Ext(name)
	configType := strings.TrimPrefix(extension, ".")

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(name)
	v.SetConfigType(configType)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
}

// Load implements Loader.
func (l *FileLoader) Load(target any) error {
	// Defaults from struct tags are applied before unmarshalling so fields
	// missing from the file still get their values.
	if err := tag.ApplyDefaults(target); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config file not found: %w", err)
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return fmt.Errorf("config parse error: %w", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// Watch implements Loader.
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}
