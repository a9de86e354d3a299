// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

var (
	// ErrConfiguration is returned when locales, label templates or the
	// translation association of a schema cannot be resolved.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownLocale is returned when a locale code is not configured.
	ErrUnknownLocale = errors.New("unknown locale")

	// ErrTranslationMissing is returned when a record has no translation
	// for the requested locale.
	ErrTranslationMissing = errors.New("translation missing")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)
