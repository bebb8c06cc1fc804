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

package logger

import (
	"os"
	"strconv"
)

// envPrefix namespaces logging variables. The unprefixed names are honored
// when the prefixed one is unset.
const envPrefix = "SKYWATCH_"

func DefaultConfig() *Config {
	return &Config{
		Level:      lookupEnv("LOG_LEVEL", "info"),
		Debug:      lookupEnvBool("DEBUG", false),
		Output:     lookupEnv("LOG_OUTPUT", OutputStdout),
		TimeFormat: lookupEnv("LOG_TIME_FORMAT", ""),
	}
}

func lookupEnv(key, fallback string) string {
	for _, k := range []string{envPrefix + key, key} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}

	return fallback
}

func lookupEnvBool(key string, fallback bool) bool {
	raw := lookupEnv(key, "")
	if raw == "" {
		return fallback
	}

	switch raw {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}
