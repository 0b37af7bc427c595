package filestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vcrts/internal/store"
)

// vehicle record: ownerId|model|make|year|vin|residencyTime|timestamp
func vehicleToLine(v *store.Vehicle) string {
	return strings.Join([]string{
		strconv.Itoa(v.OwnerID),
		v.Model,
		v.Make,
		v.Year,
		v.VIN,
		v.ResidencyTime,
		v.RegisteredAt,
	}, Separator)
}

func lineToVehicle(line string) (*store.Vehicle, error) {
	parts := strings.Split(line, Separator)
	if len(parts) < 7 {
		return nil, fmt.Errorf("malformed vehicle record: %q", line)
	}
	ownerID, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad owner id in record %q: %w", line, err)
	}
	return &store.Vehicle{
		OwnerID:       ownerID,
		Model:         parts[1],
		Make:          parts[2],
		Year:          parts[3],
		VIN:           parts[4],
		ResidencyTime: parts[5],
		RegisteredAt:  parts[6],
	}, nil
}

// AddVehicle appends a registered vehicle.
func (s *Store) AddVehicle(ctx context.Context, v *store.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(vehiclesFile, vehicleToLine(v))
}

// AllVehicles returns every registered vehicle in file order.
func (s *Store) AllVehicles(ctx context.Context) ([]store.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readAllLines(vehiclesFile)
	out := make([]store.Vehicle, 0, len(lines))
	for _, line := range lines {
		v, err := lineToVehicle(line)
		if err != nil {
			s.log.Warn("skipping vehicle record", "error", err)
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}
