// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// IniPath is $IADEA_INI, or ~/.iadea.ini.
func IniPath() string {
	if p := os.Getenv(IniPathEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, IniName)
}

func TranslateFormat(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return "short"
	}
}

// FormatOutput renders v as indented JSON or as YAML.
func FormatOutput(v any, format string) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	if TranslateFormat(format) != FormatYAML {
		return b, nil
	}
	out, err := yaml.JSONToYAML(b)
	if err != nil {
		return nil, fmt.Errorf("convert output to yaml: %w", err)
	}
	return out, nil
}

func PrettyJSON(b []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return string(b) // not JSON, print as is
	}
	return out.String()
}
