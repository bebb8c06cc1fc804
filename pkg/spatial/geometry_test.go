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

package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sector44 is POLYGON((78.9 20.5, 79.0 20.5, 79.0 20.6, 78.9 20.6, 78.9 20.5)).
var sector44 = Ring{
	{Lat: 20.5, Lng: 78.9},
	{Lat: 20.5, Lng: 79.0},
	{Lat: 20.6, Lng: 79.0},
	{Lat: 20.6, Lng: 78.9},
	{Lat: 20.5, Lng: 78.9},
}

func TestPointInPolygon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		point Point
		ring  Ring
		want  bool
	}{
		{name: "center of sector", point: Point{Lat: 20.55, Lng: 78.95}, ring: sector44, want: true},
		{name: "far west", point: Point{Lat: 20.0, Lng: 70.0}, ring: sector44, want: false},
		{name: "just north", point: Point{Lat: 20.6001, Lng: 78.95}, ring: sector44, want: false},
		{name: "open ring", point: Point{Lat: 20.55, Lng: 78.95}, ring: sector44[:4], want: true},
		{name: "two vertices", point: Point{Lat: 20.5, Lng: 78.9}, ring: sector44[:2], want: false},
		{name: "empty ring", point: Point{Lat: 0, Lng: 0}, ring: nil, want: false},
		{
			name:  "concave notch excluded",
			point: Point{Lat: 0.5, Lng: 0.5},
			ring: Ring{
				{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 2},
				{Lat: 2, Lng: 1}, {Lat: 0.2, Lng: 1}, {Lat: 0.2, Lng: 0.2},
				{Lat: 2, Lng: 0.2}, {Lat: 2, Lng: 0},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, PointInPolygon(tt.point, tt.ring))
		})
	}
}

func TestPointInPolygonOnEdgeIsImplementationDefined(t *testing.T) {
	t.Parallel()

	// Points exactly on an edge may classify either way; both are acceptable.
	got := PointInPolygon(Point{Lat: 20.5, Lng: 78.95}, sector44)
	assert.Contains(t, []bool{true, false}, got)
}

func TestHaversineDistance(t *testing.T) {
	t.Parallel()

	oneDegree := EarthRadiusMeters * math.Pi / 180

	assert.InDelta(t, oneDegree, HaversineDistance(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1}), 1e-6)
	assert.InDelta(t, oneDegree, HaversineDistance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0}), 1e-6)
	assert.InDelta(t, math.Pi*EarthRadiusMeters, HaversineDistance(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 180}), 1e-3)
}

func TestHaversineDistanceProperties(t *testing.T) {
	t.Parallel()

	points := []Point{
		{Lat: 20.55, Lng: 78.95},
		{Lat: 20.0, Lng: 70.0},
		{Lat: -33.86, Lng: 151.21},
		{Lat: 89.9, Lng: -45},
	}

	for _, a := range points {
		assert.Zero(t, HaversineDistance(a, a))

		for _, b := range points {
			assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-6)
		}
	}
}

func TestMinDistanceToVertices(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsInf(MinDistanceToVertices(Point{}, nil), 1))

	far := MinDistanceToVertices(Point{Lat: 20.0, Lng: 70.0}, sector44)
	assert.Greater(t, far, 900_000.0)

	onVertex := MinDistanceToVertices(Point{Lat: 20.5, Lng: 78.9}, sector44)
	assert.Zero(t, onVertex)
}

func TestDistanceToPolygonInsideIsZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, DistanceToPolygon(Point{Lat: 20.55, Lng: 78.95}, sector44))
}

// The vertex approximation misses a point that sits close to the middle of a
// long edge. The exact edge distance catches it; this is the documented
// behavioral difference between the two distance modes.
func TestDistanceToPolygonVersusVertexApproximation(t *testing.T) {
	t.Parallel()

	p := Point{Lat: 20.497, Lng: 78.95}

	exact := DistanceToPolygon(p, sector44)
	approx := MinDistanceToVertices(p, sector44)

	assert.InDelta(t, 0.003*EarthRadiusMeters*math.Pi/180, exact, 1.0)
	assert.Less(t, exact, 500.0)
	assert.Greater(t, approx, 500.0)
	assert.LessOrEqual(t, exact, approx)
}

func TestDistanceToPolygonNeverExceedsVertexDistance(t *testing.T) {
	t.Parallel()

	for _, p := range []Point{
		{Lat: 20.0, Lng: 70.0},
		{Lat: 21.0, Lng: 79.5},
		{Lat: 20.45, Lng: 78.85},
		{Lat: 20.55, Lng: 79.02},
	} {
		assert.LessOrEqual(t, DistanceToPolygon(p, sector44), MinDistanceToVertices(p, sector44)+1e-6)
	}
}

func TestPointValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Point{Lat: 90, Lng: -180}.Valid())
	assert.False(t, Point{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lng: 180.5}.Valid())
	assert.False(t, Point{Lat: math.NaN(), Lng: 0}.Valid())
}

func TestRingValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, sector44.Validate())

	a, b := Point{Lat: 1, Lng: 1}, Point{Lat: 2, Lng: 2}
	require.ErrorIs(t, Ring{a, b, a}.Validate(), ErrDegenerateRing)
	require.ErrorIs(t, Ring{a, b, {Lat: 100, Lng: 0}}.Validate(), ErrInvalidRingCoord)
}

func TestParseWKTRing(t *testing.T) {
	t.Parallel()

	ring, err := ParseWKTRing("POLYGON((78.9 20.5, 79.0 20.5, 79.0 20.6, 78.9 20.6, 78.9 20.5))")
	require.NoError(t, err)
	require.Len(t, ring, 5)
	assert.Equal(t, Point{Lat: 20.5, Lng: 78.9}, ring[0])
	assert.True(t, PointInPolygon(Point{Lat: 20.55, Lng: 78.95}, ring))

	_, err = ParseWKTRing("LINESTRING(0 0, 1 1)")
	require.ErrorIs(t, err, ErrNotPolygon)

	_, err = ParseWKTRing("POLYGON((0 0")
	require.Error(t, err)
}

func TestGeoJSONStorageFormat(t *testing.T) {
	t.Parallel()

	raw, err := sector44[:4].GeoJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"Polygon","coordinates":[[[78.9,20.5],[79,20.5],[79,20.6],[78.9,20.6],[78.9,20.5]]]}`,
		string(raw))

	ring, err := ParseGeoJSONRing(raw)
	require.NoError(t, err)
	assert.Equal(t, sector44, ring)
}
