/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package version reports the build stamped into skywatch binaries.
package version

import "fmt"

// Set with -ldflags "-X github.com/carverauto/skywatch/pkg/version.version=..."
//
//nolint:gochecknoglobals // ldflags injection target
var (
	version = "dev"
	commit  = "unknown"
)

// Version is the release version, "dev" for local builds.
func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String formats the version for --version output and startup logs.
func String() string {
	return fmt.Sprintf("%s (commit %s)", version, commit)
}
