package classify

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/tabular"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
)

// Classifier is a model that can be trained on labeled rows and label new ones.
type Classifier interface {
	Fit(X mat.Matrix, y []string) error
	Predict(X mat.Matrix) ([]string, error)
}

// New creates the classifier named by the config.
func New(cfg config.ClassifierConfig) (Classifier, error) {
	switch cfg.Type {
	case "", "logistic_regression", "lr":
		return &LogisticRegression{MaxIter: cfg.MaxIter, LearningRate: cfg.LearningRate, L2: cfg.L2}, nil
	default:
		return nil, fmt.Errorf("unknown classifier type '%s'", cfg.Type)
	}
}

// Label trains clf on train and labels every row of test. The returned table is test with
// its label column replaced by the predictions, or with a label column appended.
func Label(clf Classifier, train, test *tabular.Sheet, labelColumn string) ([]string, [][]string, error) {
	trainSet, err := LoadDataset(train, labelColumn, true)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid training table: %w", err)
	}
	testSet, err := LoadDataset(test, labelColumn, false)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid test table: %w", err)
	}
	testSet, err = testSet.Align(trainSet.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("test table does not match training features: %w", err)
	}

	if err := clf.Fit(trainSet.X, trainSet.Labels); err != nil {
		return nil, nil, fmt.Errorf("training failed: %w", err)
	}
	predicted, err := clf.Predict(testSet.X)
	if err != nil {
		return nil, nil, fmt.Errorf("prediction failed: %w", err)
	}

	header := append([]string(nil), test.Header...)
	labelIdx := test.Column(labelColumn)
	if labelIdx < 0 {
		header = append(header, labelColumn)
		labelIdx = len(header) - 1
	}
	rows := make([][]string, len(test.Rows))
	for i := range test.Rows {
		row := make([]string, len(header))
		copy(row, test.Rows[i])
		row[labelIdx] = predicted[i]
		rows[i] = row
	}
	return header, rows, nil
}

// Predict runs the configured train/predict pipeline and writes the labeled test table.
func Predict(cfg config.ClassifierConfig) (string, error) {
	clf, err := New(cfg)
	if err != nil {
		return "", err
	}
	train, err := tabular.Read(cfg.TrainPath)
	if err != nil {
		return "", err
	}
	test, err := tabular.Read(cfg.TestPath)
	if err != nil {
		return "", err
	}

	header, rows, err := Label(clf, train, test, cfg.LabelColumn)
	if err != nil {
		return "", err
	}
	if err := tabular.Write(cfg.OutputPath, "Sheet1", header, rows); err != nil {
		return "", fmt.Errorf("failed to write predictions: %w", err)
	}
	log.Printf("Predictions have been saved to %s", cfg.OutputPath)
	return cfg.OutputPath, nil
}
