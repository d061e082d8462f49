package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store loads and indexes the star catalog from a JSON file. The file is an
// array of star records; loading happens once, on first access, and either
// succeeds for the whole file or fails for the whole file.
type Store struct {
	mu sync.RWMutex

	path   string
	loaded bool
	err    error

	// stars in file order
	stars []Star

	// byName indexes stars by exact, case-sensitive name
	byName map[string]*Star
}

// NewStore creates a catalog store reading from the given JSON file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// rawStar accepts both catalog key schemas. The short keys win when both are
// present, matching the loader this catalog format was written for.
type rawStar struct {
	Name *string `json:"name"`

	RA      *float64 `json:"ra"`
	RAHours *float64 `json:"ra_hours"`

	Dec    *float64 `json:"dec"`
	DecDeg *float64 `json:"dec_deg"`

	Mag       *float64 `json:"mag"`
	Magnitude *float64 `json:"magnitude"`

	DistanceLY *float64       `json:"distance_ly"`
	ColorTempK *float64       `json:"color_temp_K"`
	BV         *float64       `json:"bv"`
	RGBHex     *string        `json:"rgb_hex"`
	Aliases    []string       `json:"aliases"`
	IDs        map[string]int `json:"ids"`
}

func pick(primary, fallback *float64) *float64 {
	if primary != nil {
		return primary
	}
	return fallback
}

func (s *Store) ensureLoaded() error {
	s.mu.RLock()
	if s.loaded {
		err := s.err
		s.mu.RUnlock()
		return err
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.err
	}
	s.err = s.load()
	s.loaded = true
	return s.err
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read star catalog: %w", err)
	}

	var raw []rawStar
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse star catalog: %v", ErrCatalogInvalid, err)
	}

	stars := make([]Star, 0, len(raw))
	byName := make(map[string]*Star, len(raw))

	for i, item := range raw {
		ra := pick(item.RA, item.RAHours)
		dec := pick(item.Dec, item.DecDeg)
		mag := pick(item.Mag, item.Magnitude)

		if item.Name == nil || *item.Name == "" || ra == nil || dec == nil || mag == nil {
			return fmt.Errorf("%w: entry %d requires name and ra/ra_hours, dec/dec_deg, mag/magnitude", ErrCatalogInvalid, i)
		}

		star := Star{
			Name:       *item.Name,
			RAHours:    *ra,
			DecDeg:     *dec,
			Magnitude:  *mag,
			DistanceLY: item.DistanceLY,
			ColorTempK: item.ColorTempK,
			BV:         item.BV,
			Aliases:    item.Aliases,
			IDs:        item.IDs,
		}
		if item.RGBHex != nil {
			star.RGBHex = *item.RGBHex
		}

		stars = append(stars, star)
	}

	// Index after the whole file validated
	for i := range stars {
		byName[stars[i].Name] = &stars[i]
	}

	s.stars = stars
	s.byName = byName
	return nil
}

// Stars returns all catalog stars in file order.
func (s *Store) Stars() ([]Star, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.stars, nil
}

// ByName returns the star with the exact given name. Lookup is case-sensitive.
func (s *Store) ByName(name string) (*Star, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	star, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: star %q", ErrNotFound, name)
	}
	return star, nil
}

// Count returns the number of stars in the catalog.
func (s *Store) Count() (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	return len(s.stars), nil
}

// Reset discards loaded state so the next access reloads from disk.
// Intended for tests only.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.err = nil
	s.stars = nil
	s.byName = nil
}
