package facility

import (
	"fmt"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// Location is a geographic site holding one or more buildings.
type Location struct {
	ID        ids.LocationID
	Name      string
	Latitude  float64
	Longitude float64
	Buildings []*Building
}

func (l *Location) AddBuilding(b *Building) {
	l.Buildings = append(l.Buildings, b)
}

func (l *Location) Validate() error {
	if l.ID.IsZero() {
		return fmt.Errorf("location %q has no id", l.Name)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("location %s latitude %.4f out of range", l.ID, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("location %s longitude %.4f out of range", l.ID, l.Longitude)
	}
	if len(l.Buildings) == 0 {
		return fmt.Errorf("location %s has no buildings", l.ID)
	}
	for _, b := range l.Buildings {
		if b.LocationID != l.ID {
			return fmt.Errorf("location %s contains building %s owned by %s", l.ID, b.ID, b.LocationID)
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("location %s: %w", l.ID, err)
		}
	}
	return nil
}
