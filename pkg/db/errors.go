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

package db

import "errors"

var (

	// Connection errors.

	ErrFailedOpenDB          = errors.New("failed to open database")
	ErrDatabaseConfigMissing = errors.New("database config is required")
	ErrTLSWithSSLDisabled    = errors.New("tls configured but sslmode is disable")
	ErrTLSFilesMissing       = errors.New("db tls: cert_file, key_file, and ca_file are required")
	ErrTLSBadCA              = errors.New("db tls: unable to append CA certificate")

	// Operation errors.

	ErrFailedToScan   = errors.New("failed to scan")
	ErrFailedToQuery  = errors.New("failed to query")
	ErrFailedToInsert = errors.New("failed to insert")
	ErrFailedToUpdate = errors.New("failed to update")
	ErrMigration      = errors.New("migration failed")

	// Lookups and validation.

	ErrZoneNameRequired     = errors.New("zone name is required")
	ErrHotspotTitleRequired = errors.New("hotspot title is required")
	ErrDecisionRequired     = errors.New("threat decision is required")
	ErrInvalidConfidence    = errors.New("confidence must be between 0 and 100")
)
