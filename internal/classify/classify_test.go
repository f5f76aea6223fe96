package classify

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/tabular"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// separable builds two well separated clusters: label 1 has high DAO counts.
func separable() *tabular.Sheet {
	s := &tabular.Sheet{Header: []string{"DAO_Sent", "DIO_Sent", "Label"}}
	for i := 0; i < 10; i++ {
		s.Rows = append(s.Rows, []string{strconv.Itoa(i % 3), strconv.Itoa(10 + i%4), "0"})
		s.Rows = append(s.Rows, []string{strconv.Itoa(40 + i%5), strconv.Itoa(11 + i%3), "1"})
	}
	return s
}

func TestLoadDataset(t *testing.T) {
	sheet := &tabular.Sheet{
		Header: []string{"A", "Label", "B"},
		Rows:   [][]string{{"1", "x", "2"}, {"3", "y", "4.5"}},
	}
	ds, err := LoadDataset(sheet, "Label", true)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if !reflect.DeepEqual(ds.Features, []string{"A", "B"}) || !reflect.DeepEqual(ds.Labels, []string{"x", "y"}) {
		t.Errorf("Unexpected dataset: %v %v", ds.Features, ds.Labels)
	}
	if ds.X.At(1, 1) != 4.5 {
		t.Errorf("X[1][1] = %f, want 4.5", ds.X.At(1, 1))
	}

	sheet.Rows[0][2] = ""
	if _, err := LoadDataset(sheet, "Label", true); err == nil {
		t.Error("Expected an error for a missing feature, got nil")
	}
	if _, err := LoadDataset(&tabular.Sheet{Header: []string{"A"}, Rows: [][]string{{"1"}}}, "Label", true); err == nil {
		t.Error("Expected an error for a missing label column, got nil")
	}
}

func TestLogisticRegression_Binary(t *testing.T) {
	ds, err := LoadDataset(separable(), "Label", true)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	lr := &LogisticRegression{MaxIter: 500, LearningRate: 0.5, L2: 1}
	if err := lr.Fit(ds.X, ds.Labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got, err := lr.Predict(mat.NewDense(2, 2, []float64{1, 11, 42, 12}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"0", "1"}) {
		t.Errorf("Predict = %v, want [0 1]", got)
	}
}

func TestLogisticRegression_MultiClass(t *testing.T) {
	var data []float64
	var y []string
	centers := map[string][2]float64{"a": {0, 0}, "b": {10, 0}, "c": {0, 10}}
	for _, class := range []string{"a", "b", "c"} {
		c := centers[class]
		for i := 0; i < 8; i++ {
			data = append(data, c[0]+float64(i%3)*0.5, c[1]+float64(i%2)*0.5)
			y = append(y, class)
		}
	}
	X := mat.NewDense(len(y), 2, data)

	lr := &LogisticRegression{MaxIter: 1000, LearningRate: 0.5}
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !reflect.DeepEqual(lr.Classes(), []string{"a", "b", "c"}) {
		t.Fatalf("Classes = %v", lr.Classes())
	}
	got, err := lr.Predict(mat.NewDense(3, 2, []float64{0.5, 0.5, 10.5, 0.2, 0.2, 10.5}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Predict = %v, want [a b c]", got)
	}
}

func TestLogisticRegression_Errors(t *testing.T) {
	lr := &LogisticRegression{}
	if err := lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), []string{"0", "0"}); err == nil {
		t.Error("Expected an error for a single class, got nil")
	}
	if _, err := lr.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected an error predicting with an unfitted model, got nil")
	}
}

func TestPredict_ReplacesLabelColumn(t *testing.T) {
	dir := t.TempDir()
	train := separable()
	if err := tabular.Write(filepath.Join(dir, "Training-Data.xlsx"), "Sheet1", train.Header, train.Rows); err != nil {
		t.Fatal(err)
	}
	// Columns in another order, with a stale label column.
	testHeader := []string{"DIO_Sent", "Label", "DAO_Sent"}
	testRows := [][]string{{"10", "1", "0"}, {"12", "0", "45"}}
	if err := tabular.Write(filepath.Join(dir, "Test-Data.xlsx"), "Sheet1", testHeader, testRows); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default().Classifier
	cfg.TrainPath = filepath.Join(dir, "Training-Data.xlsx")
	cfg.TestPath = filepath.Join(dir, "Test-Data.xlsx")
	cfg.OutputPath = filepath.Join(dir, "out", "Test_with_Predictions_LR.xlsx")

	out, err := Predict(cfg)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	sheet, err := tabular.Read(out)
	if err != nil {
		t.Fatalf("Failed to read predictions: %v", err)
	}
	if !reflect.DeepEqual(sheet.Header, testHeader) {
		t.Errorf("Header = %v, want %v", sheet.Header, testHeader)
	}
	if sheet.Cell(0, 1) != "0" || sheet.Cell(1, 1) != "1" {
		t.Errorf("Unexpected predictions: %v", sheet.Rows)
	}
}

func TestLabel_AppendsLabelColumn(t *testing.T) {
	test := &tabular.Sheet{Header: []string{"DAO_Sent", "DIO_Sent"}, Rows: [][]string{{"44", "12"}}}
	clf, err := New(config.Default().Classifier)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	header, rows, err := Label(clf, separable(), test, "Label")
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if header[2] != "Label" || rows[0][2] != "1" {
		t.Errorf("Unexpected output: %v %v", header, rows)
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := New(config.ClassifierConfig{Type: "svm"}); err == nil {
		t.Error("Expected an error for an unknown classifier, got nil")
	}
}
