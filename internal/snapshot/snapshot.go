// Package snapshot loads the pre-aggregated market documents the analytics
// and dashboard workers read. Sources are read-only; every document is checked
// against an embedded JSON schema before it is handed out.
package snapshot

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

// Source returns the snapshot for a region. Implementations return
// SNAPSHOT_NOT_FOUND for an unknown region and SNAPSHOT_SOURCE_FAILED when
// the backing store cannot be read.
type Source interface {
	Load(ctx context.Context, region string) (*models.Snapshot, error)
}

//go:embed schema/snapshot.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// NormalizeRegion lowercases and trims a region code.
func NormalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// Decode validates raw against the snapshot schema, unmarshals it and checks
// the cross-record invariants the schema cannot express.
func Decode(raw []byte) (*models.Snapshot, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.NewSnapshotInvalidError(err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, apperrors.NewSnapshotInvalidError(strings.Join(msgs, "; "))
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, apperrors.NewSnapshotInvalidError(err.Error())
	}

	if err := checkInvariants(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func checkInvariants(snap *models.Snapshot) error {
	countries := make(map[string]bool, len(snap.Analytics.LocationSalary))
	for _, l := range snap.Analytics.LocationSalary {
		if countries[l.Country] {
			return apperrors.NewSnapshotInvalidError(fmt.Sprintf("duplicate location %q", l.Country))
		}
		countries[l.Country] = true
	}

	labels := make(map[models.RemoteWorkLabel]bool, 3)
	for _, c := range snap.Analytics.RemoteWorkStats {
		if !c.Label.Valid() {
			return apperrors.NewSnapshotInvalidError(fmt.Sprintf("unknown remote work category %q", c.Label))
		}
		if labels[c.Label] {
			return apperrors.NewSnapshotInvalidError(fmt.Sprintf("remote work category %q appears twice", c.Label))
		}
		labels[c.Label] = true
	}
	return nil
}
