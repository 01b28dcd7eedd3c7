package ml

import (
	"fmt"
	"math"

	"github.com/evently/evently-backend-go/internal/models"
	"github.com/evently/evently-backend-go/internal/stats"
)

// ExcludedRow records why one event could not become a training row
type ExcludedRow struct {
	EventName string `json:"event_name"`
	Reason    string `json:"reason"`
}

// AssemblyReport summarizes a dataset build for callers and logs
type AssemblyReport struct {
	Assembled int            `json:"assembled"`
	Excluded  []ExcludedRow  `json:"excluded,omitempty"`
	Imputed   map[string]int `json:"imputed,omitempty"`
}

// Dataset is an assembled, imputed feature matrix with provenance
type Dataset struct {
	Records []*FeatureRecord `json:"records"`
	Columns []string         `json:"columns"`
}

// BuildDataset assembles one record per event, attaches targets where
// available, and imputes missing values per the feature metadata table.
// Events missing hard prerequisites are excluded, not imputed.
func BuildDataset(assembler *Assembler, events []models.Event, cities map[string]*models.City, targets map[int64]float64) (*Dataset, *AssemblyReport) {
	report := &AssemblyReport{Imputed: make(map[string]int)}

	var records []*FeatureRecord
	for i := range events {
		event := &events[i]
		record, err := assembler.Assemble(event, cities[event.City])
		if err != nil {
			report.Excluded = append(report.Excluded, ExcludedRow{
				EventName: event.Name,
				Reason:    err.Error(),
			})
			continue
		}
		if target, ok := targets[event.ID]; ok && target > 0 {
			record.Target = target
			record.HasTarget = true
		}
		records = append(records, record)
	}
	report.Assembled = len(records)

	ds := &Dataset{Records: records, Columns: FeatureColumns()}
	ds.impute(report)
	return ds, report
}

// impute fills NaN cells. Change-rate columns fill with zero; the rest
// fill with the column median of observed values (zero when nothing was
// observed at all).
func (ds *Dataset) impute(report *AssemblyReport) {
	if len(ds.Records) == 0 {
		return
	}

	vectors := make([][]float64, len(ds.Records))
	for i, r := range ds.Records {
		vectors[i] = r.Vector()
	}

	for _, meta := range FeatureMetadata() {
		var fill float64
		switch meta.Policy {
		case ImputeZero:
			fill = 0
		case ImputeMedian:
			var observed []float64
			for _, v := range vectors {
				if !math.IsNaN(v[meta.Index]) {
					observed = append(observed, v[meta.Index])
				}
			}
			fill = stats.Median(observed)
		}

		for i, v := range vectors {
			if math.IsNaN(v[meta.Index]) {
				vectors[i][meta.Index] = fill
				report.Imputed[meta.Name]++
			}
		}
	}

	for i, r := range ds.Records {
		r.setVector(vectors[i])
	}
}

// TrainingMatrix returns feature rows and targets for labeled records only
func (ds *Dataset) TrainingMatrix() (X [][]float64, y []float64, err error) {
	for _, r := range ds.Records {
		if !r.HasTarget {
			continue
		}
		X = append(X, r.Vector())
		y = append(y, r.Target)
	}
	if len(X) == 0 {
		return nil, nil, fmt.Errorf("no labeled rows in dataset of %d records", len(ds.Records))
	}
	return X, y, nil
}
