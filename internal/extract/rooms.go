package extract

import (
	"encoding/json"
	"fmt"
	"sort"

	"schedule-etl/internal/domain"
)

type roomRecord struct {
	ID       *int    `json:"id"`
	Number   *string `json:"number"`
	Capacity *int    `json:"capacity"`
}

// Rooms extracts the nested building inventory: a mapping from building name
// to its room records, flattened into one row per room with the building
// injected as a column. Records with a missing field are dropped.
func (e *Extractor) Rooms(name string) ([]domain.Room, error) {
	b, err := e.readFile(name)
	if err != nil {
		return nil, err
	}

	var buildings map[string][]roomRecord
	if err := json.Unmarshal(b, &buildings); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	var rooms []domain.Room
	for building, records := range buildings {
		for _, r := range records {
			if r.ID == nil || r.Number == nil || r.Capacity == nil || *r.Number == "" {
				continue
			}
			rooms = append(rooms, domain.Room{
				RID:      *r.ID,
				Building: building,
				Number:   *r.Number,
				Capacity: *r.Capacity,
			})
		}
	}

	// Map iteration order is random; keep the table deterministic.
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RID < rooms[j].RID })
	return rooms, nil
}
