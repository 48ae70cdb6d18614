// Package directions turns an upstream walking route into the decoded shape
// the map UI draws: the full path plus located turn instructions.
package directions

import (
	"context"
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/campus-maps/vendmap/internal/domain"
	"github.com/campus-maps/vendmap/internal/transport/ors"
)

// Provider is the consumer interface over the directions client.
type Provider interface {
	Directions(ctx context.Context, start, end [2]float64) (ors.Route, error)
}

// Step is a turn instruction anchored to a point on the decoded path.
// Location is [lon, lat], matching the coordinate order of the path itself.
type Step struct {
	Instruction string     `json:"instruction"`
	Name        string     `json:"name,omitempty"`
	Distance    float64    `json:"distance"`
	Duration    float64    `json:"duration"`
	Location    [2]float64 `json:"location"`
}

// Route is a decoded walking route. Coordinates are [lon, lat] pairs in path
// order.
type Route struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Steps       []Step       `json:"steps"`
}

// Service resolves walking routes.
type Service struct {
	provider Provider
}

// New creates a directions service.
func New(p Provider) *Service {
	return &Service{provider: p}
}

// Walk fetches a foot route between two [lon, lat] points, decodes the
// polyline, and anchors each step at its first waypoint on the path.
func (s *Service) Walk(ctx context.Context, start, end [2]float64) (Route, error) {
	upstream, err := s.provider.Directions(ctx, start, end)
	if err != nil {
		return Route{}, err
	}

	// Polylines decode to [lat, lon]; the UI wants GeoJSON-style [lon, lat].
	coords, _, err := polyline.DecodeCoords([]byte(upstream.Geometry))
	if err != nil {
		return Route{}, fmt.Errorf("%w: decode polyline: %v", domain.ErrDirectionsFailed, err)
	}

	route := Route{Coordinates: make([][2]float64, 0, len(coords))}
	for _, c := range coords {
		route.Coordinates = append(route.Coordinates, [2]float64{c[1], c[0]})
	}

	for _, st := range upstream.Steps {
		step := Step{
			Instruction: st.Instruction,
			Name:        st.Name,
			Distance:    st.Distance,
			Duration:    st.Duration,
		}
		if len(st.WayPoints) > 0 {
			idx := st.WayPoints[0]
			if idx >= 0 && idx < len(route.Coordinates) {
				step.Location = route.Coordinates[idx]
			}
		}
		route.Steps = append(route.Steps, step)
	}

	return route, nil
}
