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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

var (
	ErrDegenerateRing   = errors.New("ring needs at least 3 distinct vertices")
	ErrNotPolygon       = errors.New("geometry is not a polygon")
	ErrEmptyPolygon     = errors.New("polygon is empty")
	ErrInvalidRingCoord = errors.New("ring coordinate out of range")
)

// Ring is a polygon outer ring. Vertices are stored in order and the closing
// vertex may or may not repeat the first one.
type Ring []Point

// Validate checks the ring has at least three distinct, in-range vertices.
func (r Ring) Validate() error {
	distinct := make(map[Point]struct{}, len(r))

	for _, v := range r {
		if !v.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidRingCoord, v)
		}

		distinct[v] = struct{}{}
	}

	if len(distinct) < 3 {
		return ErrDegenerateRing
	}

	return nil
}

// Closed returns the ring with the first vertex repeated at the end if needed.
func (r Ring) Closed() Ring {
	if len(r) == 0 || r[0] == r[len(r)-1] {
		return r
	}

	out := make(Ring, len(r), len(r)+1)
	copy(out, r)

	return append(out, r[0])
}

// MarshalJSON encodes the ring as GeoJSON-ordered [lng, lat] pairs.
func (r Ring) MarshalJSON() ([]byte, error) {
	coords := make([][2]float64, len(r))
	for i, v := range r {
		coords[i] = [2]float64{v.Lng, v.Lat}
	}

	return json.Marshal(coords)
}

// UnmarshalJSON decodes [lng, lat] pairs.
func (r *Ring) UnmarshalJSON(b []byte) error {
	var coords [][2]float64
	if err := json.Unmarshal(b, &coords); err != nil {
		return err
	}

	out := make(Ring, len(coords))
	for i, c := range coords {
		out[i] = Point{Lng: c[0], Lat: c[1]}
	}

	*r = out

	return nil
}

type geoJSONPolygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// GeoJSON renders the ring as a closed GeoJSON Polygon geometry.
func (r Ring) GeoJSON() ([]byte, error) {
	closed := r.Closed()

	outer := make([][2]float64, len(closed))
	for i, v := range closed {
		outer[i] = [2]float64{v.Lng, v.Lat}
	}

	return json.Marshal(geoJSONPolygon{
		Type:        "Polygon",
		Coordinates: [][][2]float64{outer},
	})
}

// ParseWKTRing decodes a WKT POLYGON or MULTIPOLYGON and returns its first outer ring.
func ParseWKTRing(wkt string) (Ring, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}

	return ringFromGeometry(g)
}

// ParseGeoJSONRing decodes a GeoJSON Polygon or MultiPolygon geometry.
func ParseGeoJSONRing(raw []byte) (Ring, error) {
	g, err := geom.UnmarshalGeoJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	return ringFromGeometry(g)
}

func ringFromGeometry(g geom.Geometry) (Ring, error) {
	var poly geom.Polygon

	switch g.Type() {
	case geom.TypePolygon:
		poly, _ = g.AsPolygon()
	case geom.TypeMultiPolygon:
		mp, _ := g.AsMultiPolygon()
		if mp.NumPolygons() == 0 {
			return nil, ErrEmptyPolygon
		}

		poly = mp.PolygonN(0)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPolygon, g.Type())
	}

	if poly.IsEmpty() {
		return nil, ErrEmptyPolygon
	}

	seq := poly.ExteriorRing().Coordinates()
	ring := make(Ring, seq.Length())

	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		ring[i] = Point{Lat: xy.Y, Lng: xy.X}
	}

	if err := ring.Validate(); err != nil {
		return nil, err
	}

	return ring, nil
}
