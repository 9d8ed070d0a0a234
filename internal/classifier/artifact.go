package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"BreakoutSentinel/internal/model"
)

// ArtifactVersion identifies the on-disk model schema.
const ArtifactVersion = 1

// Artifact is the persisted trained model: the fitted forest plus the exact
// ordered feature-name list the screener must feed at inference time.
// Superseded, never mutated, on retraining.
type Artifact struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Features  []string  `json:"features"`
	Forest    *Forest   `json:"forest"`
	Samples   int       `json:"samples"`
	Positives int       `json:"positives"`
}

// NewArtifact wraps a fitted forest with its training metadata.
func NewArtifact(forest *Forest, samples, positives int) *Artifact {
	features := make([]string, len(model.FeatureNames))
	copy(features, model.FeatureNames)
	return &Artifact{
		Version:   ArtifactVersion,
		CreatedAt: time.Now().UTC(),
		Features:  features,
		Forest:    forest,
		Samples:   samples,
		Positives: positives,
	}
}

// Save writes the artifact atomically: temp file then rename.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename model: %w", err)
	}
	return nil
}

// Load reads an artifact from disk. A missing file maps to
// ErrModelUnavailable so callers can fall back to rule-only screening.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	a := &Artifact{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: unsupported artifact version %d", model.ErrModelUnavailable, a.Version)
	}
	if a.Forest == nil || len(a.Features) == 0 {
		return nil, fmt.Errorf("%w: malformed artifact", model.ErrModelUnavailable)
	}
	return a, nil
}
