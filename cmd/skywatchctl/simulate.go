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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carverauto/skywatch/pkg/detector"
	"github.com/carverauto/skywatch/pkg/lifecycle"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/spatial"
	"github.com/carverauto/skywatch/pkg/tracker"
)

var errAssetNotFound = errors.New("asset not found")

type simulateOptions struct {
	asset      string
	from       spatial.Point
	to         spatial.Point
	steps      int
	interval   time.Duration
	object     string
	confidence int
}

func newSimulateCmd(rt *runtime) *cobra.Command {
	opts := simulateOptions{}

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Fly an asset into Sector 44 and log a detection",
		Long: "Reports a straight track of positions through the detector, printing every " +
			"classification, then logs one detection attributed to the asset.",
		RunE: func(c *cobra.Command, _ []string) error {
			return rt.simulate(c.Context(), c.OutOrStdout(), opts)
		},
	}

	f := c.Flags()
	f.StringVar(&opts.asset, "asset", "Scout-01", "Code name or id of the asset to move")
	f.Float64Var(&opts.from.Lat, "from-lat", 20.45, "Start latitude")
	f.Float64Var(&opts.from.Lng, "from-lng", 78.85, "Start longitude")
	f.Float64Var(&opts.to.Lat, "to-lat", 20.55, "End latitude")
	f.Float64Var(&opts.to.Lng, "to-lng", 78.95, "End longitude")
	f.IntVar(&opts.steps, "steps", 5, "Number of position reports")
	f.DurationVar(&opts.interval, "interval", time.Second, "Delay between reports")
	f.StringVar(&opts.object, "object", "AK-47 (SIMULATED)", "Detected object label; empty skips the detection")
	f.IntVar(&opts.confidence, "confidence", 95, "Detection confidence 0-100")

	return c
}

// track returns steps evenly spaced points from a to b inclusive.
func track(a, b spatial.Point, steps int) []spatial.Point {
	if steps < 2 {
		return []spatial.Point{b}
	}

	out := make([]spatial.Point, steps)

	for i := range out {
		t := float64(i) / float64(steps-1)
		out[i] = spatial.Point{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lng: a.Lng + (b.Lng-a.Lng)*t,
		}
	}

	return out
}

// assetLookup is the part of the store findAsset needs.
type assetLookup interface {
	GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)
}

// findAsset resolves ref as an asset id first, then as a code name.
func findAsset(ctx context.Context, store assetLookup, ref string) (models.Asset, error) {
	if id, err := uuid.Parse(ref); err == nil {
		a, err := store.GetAsset(ctx, id)
		if errors.Is(err, models.ErrAssetNotFound) {
			return models.Asset{}, fmt.Errorf("%w: %s", errAssetNotFound, ref)
		}

		return a, err
	}

	assets, err := store.ListAssets(ctx)
	if err != nil {
		return models.Asset{}, err
	}

	for _, a := range assets {
		if a.CodeName == ref {
			return a, nil
		}
	}

	return models.Asset{}, fmt.Errorf("%w: %s", errAssetNotFound, ref)
}

func (rt *runtime) simulate(ctx context.Context, w io.Writer, opts simulateOptions) error {
	asset, err := findAsset(ctx, rt.db, opts.asset)
	if err != nil {
		return err
	}

	paths := tracker.New(rt.db, lifecycle.Named(rt.logger, "tracker"))

	det, err := detector.New(rt.cfg.Detector, detector.Deps{
		Zones:  rt.db,
		Assets: rt.db,
		Events: rt.db,
		Path:   paths,
	}, lifecycle.Named(rt.logger, "detector"))
	if err != nil {
		return err
	}

	points := track(opts.from, opts.to, opts.steps)

	for i, p := range points {
		if i > 0 && opts.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.interval):
			}
		}

		results, err := det.RecordPosition(ctx, asset.ID, p.Lat, p.Lng)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s  %.5f,%.5f  %d result(s)\n", asset.CodeName, p.Lat, p.Lng, len(results))

		for _, r := range results {
			fmt.Fprintf(w, "    %-9s %-7s %-24s %8.1fm  %s\n",
				r.Kind, r.TargetKind, r.TargetName, r.DistanceMeters, r.Severity)
		}
	}

	if opts.object == "" {
		return nil
	}

	id := asset.ID
	detection := &models.Detection{
		AssetID:        &id,
		DetectedObject: opts.object,
		Confidence:     opts.confidence,
		BoundingBox:    &models.BoundingBox{X: 100, Y: 100, Width: 50, Height: 80},
	}

	if err := det.LogDetection(ctx, detection); err != nil {
		return err
	}

	if detection.ID != uuid.Nil {
		fmt.Fprintf(w, "detection %s  %s  %d%%\n", detection.ID, detection.DetectedObject, detection.Confidence)
	}

	return nil
}
