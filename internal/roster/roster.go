package roster

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

// Roster is the fixed set of tracked entities, loaded once at startup.
type Roster struct {
	entities []models.Entity
	byID     map[string]models.Entity
}

type rosterFile struct {
	Entities []models.Entity `yaml:"entities"`
}

// Load reads and validates the roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if len(file.Entities) == 0 {
		return nil, fmt.Errorf("roster %s contains no entities", path)
	}

	byID := make(map[string]models.Entity, len(file.Entities))
	for i, e := range file.Entities {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("roster entry %d: id and name are required", i)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate roster id %q", e.ID)
		}
		byID[e.ID] = e
	}

	logger.Info("roster loaded",
		zap.String("path", path),
		zap.Int("entities", len(file.Entities)),
	)

	return &Roster{entities: file.Entities, byID: byID}, nil
}

// Entities returns the roster in file order.
func (r *Roster) Entities() []models.Entity {
	return r.entities
}

// Get looks an entity up by id.
func (r *Roster) Get(id string) (models.Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}
