// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the store, services and API.
package model

import "errors"

// ErrNotFound is returned by the store when a record does not exist.
var ErrNotFound = errors.New("not found")
