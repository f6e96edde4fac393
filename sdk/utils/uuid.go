// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"strings"

	"github.com/google/uuid"
)

func UUIDv4NoDash() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NewBoundary returns a fresh multipart boundary token.
func NewBoundary() string {
	return "iadea" + UUIDv4NoDash()
}
