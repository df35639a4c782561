package catalog

import (
	"embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regrowhq/regrow-backend/internal/types"
)

//go:embed unlocks.yaml
var unlocksFS embed.FS

// Milestone is a one-time, time-threshold unlock measured from the profile's
// start date. A milestone may carry a growth-stage advance.
type Milestone struct {
	ID    string
	Title string
	After time.Duration
	Stage types.GrowthStage
}

// JournalAchievement is a one-time, count-threshold unlock keyed on the
// journal-entry counter.
type JournalAchievement struct {
	ID        string
	Threshold int
}

// Catalog holds the fixed unlock tables, ascending by threshold.
type Catalog struct {
	Milestones          []Milestone
	JournalAchievements []JournalAchievement
}

type yamlCatalog struct {
	Version      int             `yaml:"version"`
	Milestones   []yamlMilestone `yaml:"milestones"`
	Achievements struct {
		Journal []yamlAchievement `yaml:"journal"`
	} `yaml:"achievements"`
}

type yamlMilestone struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	After string `yaml:"after"`
	Stage string `yaml:"stage"`
}

type yamlAchievement struct {
	ID        string `yaml:"id"`
	Threshold int    `yaml:"threshold"`
}

var (
	loadOnce    sync.Once
	loadedCat   *Catalog
	loadedError error
)

// Load parses and validates the embedded unlock tables. The result is cached
// after the first call.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loadedCat, loadedError = parse()
	})
	return loadedCat, loadedError
}

func parse() (*Catalog, error) {
	raw, err := unlocksFS.ReadFile("unlocks.yaml")
	if err != nil {
		return nil, fmt.Errorf("read unlocks.yaml: %w", err)
	}
	var doc yamlCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse unlocks.yaml: %w", err)
	}
	if len(doc.Milestones) == 0 {
		return nil, fmt.Errorf("unlocks.yaml: no milestones defined")
	}
	if len(doc.Achievements.Journal) == 0 {
		return nil, fmt.Errorf("unlocks.yaml: no journal achievements defined")
	}

	cat := &Catalog{}
	seen := make(map[string]struct{})

	var prevAfter time.Duration
	for i, m := range doc.Milestones {
		if m.ID == "" {
			return nil, fmt.Errorf("unlocks.yaml: milestone %d has no id", i)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("unlocks.yaml: duplicate id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		after, err := time.ParseDuration(m.After)
		if err != nil {
			return nil, fmt.Errorf("unlocks.yaml: milestone %q: bad after %q: %w", m.ID, m.After, err)
		}
		if after <= prevAfter {
			return nil, fmt.Errorf("unlocks.yaml: milestone %q: thresholds must ascend", m.ID)
		}
		prevAfter = after
		stage := types.GrowthStage(m.Stage)
		if m.Stage != "" && !stage.Valid() {
			return nil, fmt.Errorf("unlocks.yaml: milestone %q: unknown stage %q", m.ID, m.Stage)
		}
		cat.Milestones = append(cat.Milestones, Milestone{
			ID:    m.ID,
			Title: m.Title,
			After: after,
			Stage: stage,
		})
	}

	prevThreshold := 0
	for i, a := range doc.Achievements.Journal {
		if a.ID == "" {
			return nil, fmt.Errorf("unlocks.yaml: journal achievement %d has no id", i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("unlocks.yaml: duplicate id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.Threshold <= prevThreshold {
			return nil, fmt.Errorf("unlocks.yaml: achievement %q: thresholds must ascend", a.ID)
		}
		prevThreshold = a.Threshold
		cat.JournalAchievements = append(cat.JournalAchievements, JournalAchievement{
			ID:        a.ID,
			Threshold: a.Threshold,
		})
	}

	return cat, nil
}
