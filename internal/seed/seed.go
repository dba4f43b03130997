// Package seed loads sample site content through the managers, so seeded
// data satisfies the same invariants as data entered through the admin API.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"clearview/internal/service/lifecycle"
	"clearview/internal/service/ordering"

	"gopkg.in/yaml.v3"
)

//go:embed data/content.yaml
var dataFiles embed.FS

// stateKey is the seed-only key that moves a record out of the default state
const stateKey = "_state"

// Data is sample content keyed by collection and record kind names
type Data struct {
	Content map[string][]map[string]any `yaml:"content"`
	Records map[string][]map[string]any `yaml:"records"`
}

// Summary counts what was created
type Summary struct {
	Items   int
	Records int
}

// Load parses the embedded sample content
func Load() (*Data, error) {
	raw, err := dataFiles.ReadFile("data/content.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read seed data: %w", err)
	}
	return Parse(raw)
}

// Parse decodes seed YAML
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	return &data, nil
}

// Seeder applies seed data through the managers
type Seeder struct {
	collections *ordering.Registry
	records     *lifecycle.Registry
	logger      *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(collections *ordering.Registry, records *lifecycle.Registry, logger *slog.Logger) *Seeder {
	return &Seeder{
		collections: collections,
		records:     records,
		logger:      logger,
	}
}

// Apply appends every content entry and creates every record.
// It stops at the first failure.
func (s *Seeder) Apply(ctx context.Context, data *Data) (Summary, error) {
	var sum Summary

	for _, c := range s.collections.All() {
		name := string(c.Collection())
		for i, entry := range data.Content[name] {
			item := c.New()
			if err := decode(entry, item); err != nil {
				return sum, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			if _, err := c.Append(ctx, item); err != nil {
				return sum, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			sum.Items++
		}
		s.logger.Info("seeded collection", "collection", name, "count", len(data.Content[name]))
	}

	for _, set := range s.records.All() {
		name := string(set.Kind())
		for i, entry := range data.Records[name] {
			state, _ := entry[stateKey].(string)
			delete(entry, stateKey)

			record := set.New()
			if err := decode(entry, record); err != nil {
				return sum, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			created, err := set.Create(ctx, record)
			if err != nil {
				return sum, fmt.Errorf("%s[%d]: %w", name, i, err)
			}

			id := created.Base().ID
			switch state {
			case "":
			case "inactive":
				_, err = set.SetActive(ctx, id, false)
			case "deleted":
				_, err = set.SoftDelete(ctx, id)
			default:
				err = fmt.Errorf("unknown %s %q", stateKey, state)
			}
			if err != nil {
				return sum, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			sum.Records++
		}
		s.logger.Info("seeded records", "kind", name, "count", len(data.Records[name]))
	}

	return sum, nil
}

// decode fills dst from a YAML entry using the entity's JSON field names
func decode(entry map[string]any, dst any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
