// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package diag provides the structured logger used by the mdcore CLI for the
// rare diagnostic worth surfacing (e.g. an unreasonably large input). The
// core mdcore package does not import it and never logs;
// parsing is designed to never fail (see mdcore's package doc), so these are
// observations, not errors.
package diag

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// SetLogger replaces the package-level logger. The mdcore CLI calls this
// once at startup to switch to JSON output when --log-format=json is set.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the current package-level logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// LargeInput logs a notice when a conversion is handed an input above the
// size threshold the CLI warns about. It does not affect parsing, which
// remains total regardless of input size.
func LargeInput(bytes int, threshold int) {
	if bytes > threshold {
		Logger().Warn("large markdown input", slog.Int("bytes", bytes), slog.Int("threshold", threshold))
	}
}
