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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/spatial"
)

const sector44WKT = "POLYGON((78.9 20.5, 79.0 20.5, 79.0 20.6, 78.9 20.6, 78.9 20.5))"

func floatPtr(v float64) *float64 { return &v }

// seedAssets are the demo fleet: one asset parked inside Sector 44 and one far
// outside it.
func seedAssets() []models.Asset {
	return []models.Asset{
		{
			CodeName:     "Reaper-X",
			Category:     "INTERCEPTOR",
			Status:       models.AssetStatusActive,
			BatteryLevel: 100,
			LastLat:      floatPtr(20.55),
			LastLng:      floatPtr(78.95),
		},
		{
			CodeName:     "Scout-01",
			Category:     "SCOUT",
			Status:       models.AssetStatusIdle,
			BatteryLevel: 100,
			LastLat:      floatPtr(20.0),
			LastLng:      floatPtr(70.0),
		},
	}
}

// seedHotspots places one observation post beside the default simulate track,
// south-west of Sector 44, so a simulated run raises a hotspot proximity
// alert before it breaches the zone.
func seedHotspots() []models.Hotspot {
	return []models.Hotspot{
		{
			Title:    "Forward Observation Post",
			Lat:      20.476,
			Lng:      78.874,
			Severity: models.SeverityHigh,
			IsActive: true,
		},
	}
}

func seedZone() (*models.Zone, error) {
	ring, err := spatial.ParseWKTRing(sector44WKT)
	if err != nil {
		return nil, err
	}

	return &models.Zone{
		Name:     "Sector 44 Restricted",
		ZoneType: models.ZoneTypeRestricted,
		Boundary: ring,
	}, nil
}

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo restricted zone, hotspot and fleet",
		RunE: func(c *cobra.Command, _ []string) error {
			return rt.seed(c.Context(), c)
		},
	}
}

func (rt *runtime) seed(ctx context.Context, c *cobra.Command) error {
	zone, err := seedZone()
	if err != nil {
		return err
	}

	if err := rt.db.UpsertZone(ctx, zone); err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "zone     %s  %s\n", zone.ID, zone.Name)

	for _, h := range seedHotspots() {
		if err := rt.db.UpsertHotspot(ctx, &h); err != nil {
			return err
		}

		fmt.Fprintf(c.OutOrStdout(), "hotspot  %s  %s (%s)\n", h.ID, h.Title, h.Severity)
	}

	for _, a := range seedAssets() {
		out, err := rt.db.UpsertAsset(ctx, a)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.OutOrStdout(), "asset    %s  %s (%s, %s)\n", out.ID, out.CodeName, out.Category, out.Status)
	}

	return nil
}
