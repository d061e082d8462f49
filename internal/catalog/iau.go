package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
)

// BoundaryPoint is one vertex of an IAU boundary polygon, in degrees.
type BoundaryPoint struct {
	RA  float64 `json:"ra_deg"`
	Dec float64 `json:"dec_deg"`
}

// Boundaries holds the IAU constellation boundary polygons. The JSON file maps
// constellation names to one or more polygons, each an ordered list of
// [ra_deg, dec_deg] vertices. A missing file yields an empty (but usable) set.
type Boundaries struct {
	mu sync.RWMutex

	path   string
	loaded bool
	err    error

	// polygons per constellation; RA normalized mod 360, Dec clamped
	polygons map[string][][]BoundaryPoint

	// names sorted ascending so every lookup enumerates in the same order
	names []string

	// centroids per constellation: RA by circular mean, Dec arithmetic mean
	centroids map[string]BoundaryPoint
}

// NewBoundaries creates a boundary set reading from the given JSON file.
func NewBoundaries(path string) *Boundaries {
	return &Boundaries{path: path}
}

func (b *Boundaries) ensureLoaded() error {
	b.mu.RLock()
	if b.loaded {
		err := b.err
		b.mu.RUnlock()
		return err
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.err
	}
	b.err = b.load()
	b.loaded = true
	return b.err
}

func (b *Boundaries) load() error {
	b.polygons = make(map[string][][]BoundaryPoint)
	b.centroids = make(map[string]BoundaryPoint)
	b.names = nil

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Boundary lookups degrade to "no match"
			return nil
		}
		return fmt.Errorf("read iau boundaries: %w", err)
	}

	var raw map[string][][][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse iau boundaries: %v", ErrCatalogInvalid, err)
	}

	for name, polys := range raw {
		var fixed [][]BoundaryPoint
		for _, poly := range polys {
			pts := make([]BoundaryPoint, 0, len(poly))
			for _, p := range poly {
				if len(p) < 2 {
					continue
				}
				ra := math.Mod(p[0], 360)
				if ra < 0 {
					ra += 360
				}
				dec := p[1]
				if dec > 90 {
					dec = 90
				}
				if dec < -90 {
					dec = -90
				}
				pts = append(pts, BoundaryPoint{RA: ra, Dec: dec})
			}
			if len(pts) >= 3 {
				fixed = append(fixed, pts)
			}
		}
		if len(fixed) > 0 {
			b.polygons[name] = fixed
		}
	}

	for name, polys := range b.polygons {
		b.names = append(b.names, name)
		b.centroids[name] = centroidOf(polys)
	}
	sort.Strings(b.names)

	return nil
}

func centroidOf(polys [][]BoundaryPoint) BoundaryPoint {
	var xs, ys, decSum float64
	var n int
	for _, poly := range polys {
		for _, p := range poly {
			r := p.RA * math.Pi / 180
			xs += math.Cos(r)
			ys += math.Sin(r)
			decSum += p.Dec
			n++
		}
	}
	if n == 0 {
		return BoundaryPoint{}
	}

	var ra float64
	if xs != 0 || ys != 0 {
		ra = math.Atan2(ys, xs) * 180 / math.Pi
		ra = math.Mod(ra, 360)
		if ra < 0 {
			ra += 360
		}
	}
	return BoundaryPoint{RA: ra, Dec: decSum / float64(n)}
}

// Names returns the loaded constellation names, sorted ascending.
func (b *Boundaries) Names() ([]string, error) {
	if err := b.ensureLoaded(); err != nil {
		return nil, err
	}
	return b.names, nil
}

// Centroid returns the approximate center of a constellation's boundary.
func (b *Boundaries) Centroid(name string) (BoundaryPoint, error) {
	if err := b.ensureLoaded(); err != nil {
		return BoundaryPoint{}, err
	}
	c, ok := b.centroids[name]
	if !ok {
		return BoundaryPoint{}, fmt.Errorf("%w: constellation %q", ErrNotFound, name)
	}
	return c, nil
}

// FindByRADec returns the IAU constellation containing the given equatorial
// direction, or ok=false when no polygon contains it. RA is normalized mod
// 360 and Dec clamped to [-90, 90] before the test.
//
// Polygons can straddle RA 0/360, so each polygon is re-centered onto the
// query point before a planar ray cast.
func (b *Boundaries) FindByRADec(raDeg, decDeg float64) (name string, ok bool, err error) {
	if err := b.ensureLoaded(); err != nil {
		return "", false, err
	}

	ra := math.Mod(raDeg, 360)
	if ra < 0 {
		ra += 360
	}
	dec := math.Max(-90, math.Min(90, decDeg))

	for _, n := range b.names {
		for _, poly := range b.polygons[n] {
			if pointInPolygonRA(ra, dec, poly) {
				return n, true, nil
			}
		}
	}
	return "", false, nil
}

// pointInPolygonRA runs 2-D ray casting in the (ra, dec) plane after wrapping
// every vertex RA into the 360-degree window centered on the query RA.
func pointInPolygonRA(ra, dec float64, poly []BoundaryPoint) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	wrap := func(v float64) float64 {
		d := math.Mod(v-ra+180, 360)
		if d < 0 {
			d += 360
		}
		return ra + d - 180
	}

	inside := false
	for i := 0; i < n; i++ {
		x1, y1 := wrap(poly[i].RA), poly[i].Dec
		x2, y2 := wrap(poly[(i+1)%n].RA), poly[(i+1)%n].Dec

		if (y1 > dec) != (y2 > dec) &&
			ra < (x2-x1)*(dec-y1)/(y2-y1+1e-12)+x1 {
			inside = !inside
		}
	}
	return inside
}

// Reset discards loaded state so the next access reloads from disk.
// Intended for tests only.
func (b *Boundaries) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loaded = false
	b.err = nil
	b.polygons = nil
	b.names = nil
	b.centroids = nil
}
