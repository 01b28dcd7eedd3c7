package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// artifactVersion guards against loading artifacts written by an
// incompatible layout
const artifactVersion = 1

// Artifact is a fully trained, serializable model bundle: every fitted
// roster model, the selection outcome, and the preprocessing state a
// predictor needs. There is no global model; callers hold an Artifact
// explicitly.
type Artifact struct {
	Version        int       `json:"version"`
	RunID          string    `json:"run_id"`
	TrainedAt      time.Time `json:"trained_at"`
	FeatureColumns []string  `json:"feature_columns"`
	TrainingRows   int       `json:"training_rows"`
	TestRows       int       `json:"test_rows"`

	Encoder *LabelEncoder   `json:"encoder"`
	Scaler  *StandardScaler `json:"scaler"`

	BestModel string                  `json:"best_model"`
	Metrics   map[string]ModelMetrics `json:"metrics"`

	Linear   *LinearRegression `json:"linear,omitempty"`
	Ridge    *RidgeRegression  `json:"ridge,omitempty"`
	Lasso    *LassoRegression  `json:"lasso,omitempty"`
	Forest   *RandomForest     `json:"forest,omitempty"`
	Boosting *GradientBoosting `json:"boosting,omitempty"`
}

// setModel stores a fitted model in its typed slot
func (a *Artifact) setModel(m Model) {
	switch v := m.(type) {
	case *LinearRegression:
		a.Linear = v
	case *RidgeRegression:
		a.Ridge = v
	case *LassoRegression:
		a.Lasso = v
	case *RandomForest:
		a.Forest = v
	case *GradientBoosting:
		a.Boosting = v
	}
}

// Model returns the fitted model stored under name, or nil
func (a *Artifact) Model(name string) Model {
	switch name {
	case ModelLinear:
		if a.Linear != nil {
			return a.Linear
		}
	case ModelRidge:
		if a.Ridge != nil {
			return a.Ridge
		}
	case ModelLasso:
		if a.Lasso != nil {
			return a.Lasso
		}
	case ModelForest:
		if a.Forest != nil {
			return a.Forest
		}
	case ModelBoosting:
		if a.Boosting != nil {
			return a.Boosting
		}
	}
	return nil
}

// Best returns the selected model, or nil if the artifact is incomplete
func (a *Artifact) Best() Model {
	return a.Model(a.BestModel)
}

// BestMetrics returns the metrics of the selected model
func (a *Artifact) BestMetrics() ModelMetrics {
	return a.Metrics[a.BestModel]
}

// Save writes the artifact as JSON via a temp file and atomic rename,
// so readers never observe a half-written bundle.
func (a *Artifact) Save(path string) error {
	a.Version = artifactVersion

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close artifact: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an artifact from disk
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	if a.Version != artifactVersion {
		return nil, fmt.Errorf("artifact version %d not supported (want %d)", a.Version, artifactVersion)
	}
	if a.BestModel == "" || a.Best() == nil {
		return nil, fmt.Errorf("artifact has no usable best model")
	}
	if a.Scaler == nil || a.Encoder == nil {
		return nil, fmt.Errorf("artifact is missing preprocessing state")
	}
	if len(a.FeatureColumns) != len(a.Scaler.Means) {
		return nil, fmt.Errorf("artifact scaler width %d does not match %d feature columns",
			len(a.Scaler.Means), len(a.FeatureColumns))
	}
	return &a, nil
}
