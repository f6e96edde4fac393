// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// ReadConfigDocument reads a configuration set from path ("-" for stdin)
// and returns it as JSON. YAML is accepted for .yaml/.yml files and for any
// input that is not already JSON.
func ReadConfigDocument(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return ToJSONDocument(path, data)
}

// ToJSONDocument converts data to JSON when it is YAML, judging by name and
// by content.
func ToJSONDocument(name string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yaml" && ext != ".yml" && json.Valid(bytes.TrimSpace(data)) {
		return data, nil
	}
	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}
	return jsonBytes, nil
}
