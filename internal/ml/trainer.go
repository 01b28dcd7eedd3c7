package ml

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/evently/evently-backend-go/internal/stats"
)

// ErrInsufficientData is returned when too few labeled rows exist to
// fit and evaluate the roster.
var ErrInsufficientData = errors.New("not enough labeled events to train")

// minTrainingRows is the smallest labeled set worth splitting
const minTrainingRows = 10

// Training hyperparameters shared by every run
const (
	trainSeed    = 42
	testFraction = 0.2
	cvFolds      = 5

	ridgeAlpha = 1.0
	lassoAlpha = 0.1

	forestTrees    = 100
	forestDepth    = 10
	forestMinSplit = 3

	boostTrees = 100
	boostDepth = 5
	boostLR    = 0.1
)

// ModelMetrics holds evaluation results for one candidate model.
// Error metrics are computed on the held-out split after transforming
// predictions back to dollars; CV scores stay in log space.
type ModelMetrics struct {
	R2       float64 `json:"r2"`
	MAE      float64 `json:"mae"`
	RMSE     float64 `json:"rmse"`
	MAPE     float64 `json:"mape"`
	CVR2Mean float64 `json:"cv_r2_mean"`
	CVR2Std  float64 `json:"cv_r2_std"`
}

// Trainer fits the model roster and selects the best candidate
type Trainer struct {
	seed int64
}

// NewTrainer creates a trainer with the standard seed
func NewTrainer() *Trainer {
	return &Trainer{seed: trainSeed}
}

// roster returns the fresh candidate models in evaluation order.
// Order matters: ties on held-out R2 keep the first-seen model.
func (t *Trainer) roster() []Model {
	return []Model{
		NewLinearRegression(),
		NewRidgeRegression(ridgeAlpha),
		NewLassoRegression(lassoAlpha),
		NewRandomForest(forestTrees, forestDepth, forestMinSplit, t.seed),
		NewGradientBoosting(boostTrees, boostDepth, boostLR),
	}
}

// Train fits every roster model on the labeled rows of the dataset and
// returns an artifact holding the fitted models, the scaler, the encoder,
// and per-model metrics. Targets are modeled in log space (log1p) and
// predictions transformed back with expm1.
func (t *Trainer) Train(ds *Dataset, encoder *LabelEncoder) (*Artifact, error) {
	X, y, err := ds.TrainingMatrix()
	if err != nil {
		return nil, err
	}
	if len(X) < minTrainingRows {
		return nil, fmt.Errorf("%w: have %d rows, need %d", ErrInsufficientData, len(X), minTrainingRows)
	}

	logY := make([]float64, len(y))
	for i, v := range y {
		logY[i] = math.Log1p(v)
	}

	// Deterministic shuffle, then an 80/20 split
	rng := rand.New(rand.NewSource(t.seed))
	perm := rng.Perm(len(X))

	testSize := int(math.Round(float64(len(X)) * testFraction))
	if testSize < 1 {
		testSize = 1
	}

	var trainX, testX [][]float64
	var trainLogY []float64
	var testY []float64
	for k, i := range perm {
		if k < testSize {
			testX = append(testX, X[i])
			testY = append(testY, y[i])
		} else {
			trainX = append(trainX, X[i])
			trainLogY = append(trainLogY, logY[i])
		}
	}

	// Scaler statistics come from the training split only
	scaler := FitScaler(trainX)
	trainXs := scaler.Transform(trainX)
	testXs := scaler.Transform(testX)

	artifact := &Artifact{
		RunID:          uuid.NewString(),
		TrainedAt:      time.Now().UTC(),
		FeatureColumns: FeatureColumns(),
		Encoder:        encoder,
		Scaler:         scaler,
		Metrics:        make(map[string]ModelMetrics),
		TrainingRows:   len(trainX),
		TestRows:       len(testX),
	}

	bestR2 := math.Inf(-1)
	for _, model := range t.roster() {
		if err := model.Fit(trainXs, trainLogY); err != nil {
			return nil, fmt.Errorf("training %s failed: %w", model.Name(), err)
		}

		// Back-transform held-out predictions to dollars for error metrics
		predicted := make([]float64, len(testXs))
		for i, x := range testXs {
			predicted[i] = math.Expm1(model.Predict(x))
		}

		// Cross-validation folds come from the train split only, so the
		// held-out rows never leak into fold fitting
		cvMean, cvStd := t.crossValidate(model, trainX, trainLogY)
		metrics := ModelMetrics{
			R2:       stats.R2(testY, predicted),
			MAE:      stats.MAE(testY, predicted),
			RMSE:     stats.RMSE(testY, predicted),
			MAPE:     stats.MAPE(testY, predicted),
			CVR2Mean: cvMean,
			CVR2Std:  cvStd,
		}
		artifact.Metrics[model.Name()] = metrics
		artifact.setModel(model)

		log.Printf("[Trainer] %s: R2=%.4f MAE=%.0f RMSE=%.0f MAPE=%.1f%% cvR2=%.4f±%.4f",
			model.Name(), metrics.R2, metrics.MAE, metrics.RMSE, metrics.MAPE, cvMean, cvStd)

		// Strictly greater keeps the first-seen model on ties
		if metrics.R2 > bestR2 {
			bestR2 = metrics.R2
			artifact.BestModel = model.Name()
		}
	}

	log.Printf("[Trainer] Selected %s (held-out R2=%.4f) over %d candidates, run %s",
		artifact.BestModel, bestR2, len(artifact.Metrics), artifact.RunID)
	return artifact, nil
}

// crossValidate runs k-fold CV in log space over the rows it is given
// (the train split), refitting a fresh clone and scaler per fold.
func (t *Trainer) crossValidate(model Model, X [][]float64, logY []float64) (mean, std float64) {
	n := len(X)
	folds := cvFolds
	if folds > n {
		folds = n
	}
	if folds < 2 {
		return 0, 0
	}

	rng := rand.New(rand.NewSource(t.seed))
	perm := rng.Perm(n)

	scores := make([]float64, 0, folds)
	for f := 0; f < folds; f++ {
		var trainX, valX [][]float64
		var trainY, valY []float64
		for k, i := range perm {
			if k%folds == f {
				valX = append(valX, X[i])
				valY = append(valY, logY[i])
			} else {
				trainX = append(trainX, X[i])
				trainY = append(trainY, logY[i])
			}
		}
		if len(trainX) == 0 || len(valX) == 0 {
			continue
		}

		scaler := FitScaler(trainX)
		clone := model.Clone()
		if err := clone.Fit(scaler.Transform(trainX), trainY); err != nil {
			continue
		}
		scores = append(scores, stats.R2(valY, predictAll(clone, scaler.Transform(valX))))
	}

	return stats.Mean(scores), stats.PopStdDev(scores)
}
