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

// Package spatial implements the geodesic primitives used for zone breach and
// proximity classification. All functions are pure and safe for concurrent use.
package spatial

import (
	"math"
)

// EarthRadiusMeters is the mean earth radius used by HaversineDistance.
const EarthRadiusMeters = 6_371_000.0

const metersPerDegree = EarthRadiusMeters * math.Pi / 180

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p lies within the latitude and longitude bounds.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}

	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// PointInPolygon tests containment with the even-odd ray casting rule over the
// outer ring, treating longitude as x and latitude as y. Rings with fewer than
// three vertices contain nothing. Points exactly on an edge may land on either side.
func PointInPolygon(p Point, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	x, y := p.Lng, p.Lat
	inside := false

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside
}

// HaversineDistance returns the great-circle distance between a and b in meters.
func HaversineDistance(a, b Point) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dPhi := toRadians(b.Lat - a.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MinDistanceToVertices approximates the distance from p to the ring by the
// nearest vertex. It overestimates when the closest point lies mid-edge.
// An empty ring yields +Inf.
func MinDistanceToVertices(p Point, ring Ring) float64 {
	minDist := math.Inf(1)

	for _, v := range ring {
		if d := HaversineDistance(p, v); d < minDist {
			minDist = d
		}
	}

	return minDist
}

// DistanceToPolygon returns the distance from p to the nearest point on the
// ring boundary, or 0 when p is inside. Each edge is projected onto a local
// equirectangular plane centered on p, which is accurate well beyond the
// proximity thresholds used for alerting.
func DistanceToPolygon(p Point, ring Ring) float64 {
	if len(ring) == 0 {
		return math.Inf(1)
	}

	if PointInPolygon(p, ring) {
		return 0
	}

	if len(ring) == 1 {
		return HaversineDistance(p, ring[0])
	}

	cosLat := math.Cos(toRadians(p.Lat))
	minDist := math.Inf(1)

	for i := 0; i < len(ring); i++ {
		a := ring[i]
		b := ring[(i+1)%len(ring)]

		if d := distanceToSegment(p, a, b, cosLat); d < minDist {
			minDist = d
		}
	}

	return minDist
}

func distanceToSegment(p, a, b Point, cosLat float64) float64 {
	if cosLat < 1e-9 {
		return math.Min(HaversineDistance(p, a), HaversineDistance(p, b))
	}

	ax, ay := project(p, a, cosLat)
	bx, by := project(p, b, cosLat)

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = -(ax*dx + ay*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	fx, fy := ax+t*dx, ay+t*dy

	foot := Point{
		Lat: p.Lat + fy/metersPerDegree,
		Lng: p.Lng + fx/(metersPerDegree*cosLat),
	}

	return HaversineDistance(p, foot)
}

// project maps q onto a plane tangent at origin, in meters.
func project(origin, q Point, cosLat float64) (x, y float64) {
	dLng := q.Lng - origin.Lng
	if dLng > 180 {
		dLng -= 360
	} else if dLng < -180 {
		dLng += 360
	}

	return dLng * metersPerDegree * cosLat, (q.Lat - origin.Lat) * metersPerDegree
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
