package checkfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"
)

// configSchema validates config documents before they are unmarshaled, so
// that a malformed value (say, a string tab width) fails loudly instead of
// half-applying.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "checkedSuffixes": {"type": "array", "items": {"type": "string"}},
    "ignoredSuffixes": {"type": "array", "items": {"type": "string"}},
    "ignoredPaths": {"type": "array", "items": {"type": "string"}},
    "tabWidth": {"type": "integer", "minimum": 1},
    "indentMode": {"type": "string", "enum": ["spaces", "tabs"]},
    "diffOnly": {"type": "boolean"}
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func configSchemaCompiled() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, compiledSchemaErr = compiler.Compile([]byte(configSchema))
	})
	return compiledSchema, compiledSchemaErr
}

// ConfigLoader handles loading and merging configuration files.
type ConfigLoader struct {
	projectDir string
	homeDir    string
}

// NewConfigLoader creates a loader rooted at the current working
// directory.
func NewConfigLoader() (*ConfigLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return &ConfigLoader{projectDir: projectDir, homeDir: homeDir}, nil
}

// LoadConfig loads and merges configuration from the default locations,
// lowest precedence first. Absent files are skipped silently.
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	return cl.LoadConfigWithPaths(cl.ConfigPaths())
}

// LoadConfigWithPaths loads and merges configuration from specific paths.
func (cl *ConfigLoader) LoadConfigWithPaths(paths []string) (*Config, error) {
	config := NewConfig()
	for _, path := range paths {
		if err := cl.loadAndMergeConfig(config, path); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// loadAndMergeConfig loads a single config file, validates it against the
// schema, and merges it.
func (cl *ConfigLoader) loadAndMergeConfig(config *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	schema, err := configSchemaCompiled()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if result := schema.Validate(doc); result != nil && !result.IsValid() {
		return fmt.Errorf("config file %s does not match the expected schema", path)
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.Merge(&fileConfig)
	return nil
}

// ConfigPaths returns the locations searched by LoadConfig, in ascending
// precedence.
func (cl *ConfigLoader) ConfigPaths() []string {
	return []string{
		filepath.Join(cl.homeDir, ".config", "checkfiles", "checkfiles.json"),
		filepath.Join(cl.projectDir, ".checkfiles.json"),
		filepath.Join(cl.projectDir, ".checkfiles.local.json"),
	}
}

// ConfigExists checks if any configuration file exists.
func (cl *ConfigLoader) ConfigExists() bool {
	for _, path := range cl.ConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot finds the project root by walking up to the nearest
// directory containing .git, falling back to the loader's starting
// directory.
func (cl *ConfigLoader) FindProjectRoot() (string, error) {
	dir := cl.projectDir
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cl.projectDir, nil
}

// WriteStarterConfig writes a starter configuration at path with the
// classic checked-extension list, refusing to clobber an existing file.
func WriteStarterConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	width := DefaultTabWidth
	mode := SpacesOnly.String()
	starter := Config{
		CheckedSuffixes: DefaultCheckedSuffixes,
		TabWidth:        &width,
		IndentMode:      &mode,
	}

	data, err := json.MarshalIndent(&starter, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal starter config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
