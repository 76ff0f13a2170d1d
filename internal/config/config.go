// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Type is the in-memory representation of the loaded configuration. Source is
// the absolute path of the YAML file. Namespace, usually the active command
// name, lets "uq.manifest" answer a lookup of "manifest". Data stays an
// untyped tree and callers go through the typed getters.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config holds the global configuration instance.
var Config Type

// init loads configuration at process start. Errors are ignored so the
// application can run without a config file. Getters retry the load lazily.
func init() {
	_, _ = Load()
}

// Load reads the YAML configuration file named by SVCTL_CFG_FILE or found in
// the user config directory into the global Config. The active namespace
// survives a reload.
func Load() (Type, error) {
	path, err := getConfigFile()
	if err != nil {
		return Type{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, err
	}

	Config = Type{
		Source:    path,
		Namespace: Config.Namespace,
		Data:      data,
	}

	return Config, nil
}

// GetString returns the string value for the given dotted key path. A single
// defaultValue may be provided and stands in when the key is missing.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := Config.get(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string", key)
	}

	return s, nil
}

// GetInt is GetString for integer values.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := Config.get(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	// YAML numbers may unmarshal as int, int64 or float64 depending on
	// content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s is not an int", key)
	}
}

// GetStringSlice is GetString for lists of strings.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := Config.get(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	items, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s is not a slice", key)
	}

	result := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a string", key, i)
		}
		result[i] = s
	}

	return result, nil
}

// orDefault resolves a failed lookup: the caller's single default value wins
// when one was given, otherwise the lookup error stands.
func orDefault[T any](err error, defaults []T) (T, error) {
	if len(defaults) == 1 {
		return defaults[0], nil
	}

	var zero T
	return zero, err
}

// get resolves a dotted key path against the tree, preferring the namespaced
// form of the key when a namespace is set. An empty tree retries the load
// first, which covers config files that appear after process start.
func (cfg *Type) get(kspec string) (interface{}, error) {
	if len(cfg.Data) == 0 {
		_, _ = Load()
	}

	if cfg.Namespace != "" {
		if val, ok := lookup(cfg.Data, cfg.Namespace+"."+kspec); ok {
			return val, nil
		}
	}

	if val, ok := lookup(cfg.Data, kspec); ok {
		return val, nil
	}

	return nil, fmt.Errorf("key not found: %s", kspec)
}

// lookup walks one dotted path through nested maps.
func lookup(data map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = data

	for part := range strings.SplitSeq(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}

	return current, true
}

// getConfigFile returns the path of the YAML config file. SVCTL_CFG_FILE
// names the file directly. Without it, the OS user configuration directory is
// searched for svctl.yaml.
func getConfigFile() (string, error) {
	if path := os.Getenv("SVCTL_CFG_FILE"); path != "" {
		if err := usableConfigFile(path); err != nil {
			return "", fmt.Errorf("SVCTL_CFG_FILE: %w", err)
		}
		log.Debugf("using config file from SVCTL_CFG_FILE: %s", path)
		return path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "svctl.yaml")
	if usableConfigFile(path) != nil {
		return "", errors.New("no config file found in standard locations")
	}

	log.Debugf("using config file: %s", path)
	return path, nil
}

// usableConfigFile checks that path names an existing regular file.
func usableConfigFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
