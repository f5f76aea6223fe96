package classify

import (
	"WSNSpectra/internal/metrics"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is an L2-regularized logistic regression trained by batch gradient
// descent on standardized features. More than two classes are handled one-vs-rest.
type LogisticRegression struct {
	MaxIter      int
	LearningRate float64
	L2           float64

	classes []string
	mean    []float64
	scale   []float64
	// One weight vector per class (a single one for two classes); the last entry is the bias.
	weights [][]float64
}

// Classes returns the class labels seen during Fit, in sorted order.
func (m *LogisticRegression) Classes() []string {
	return append([]string(nil), m.classes...)
}

// Fit trains the model.
func (m *LogisticRegression) Fit(X mat.Matrix, y []string) error {
	rows, cols := X.Dims()
	if rows != len(y) {
		return fmt.Errorf("%d rows but %d labels", rows, len(y))
	}
	if rows == 0 {
		return fmt.Errorf("no training rows")
	}
	m.classes = metrics.SortedLabels(y)
	if len(m.classes) < 2 {
		return fmt.Errorf("need at least two classes, got %v", m.classes)
	}
	if m.MaxIter <= 0 {
		m.MaxIter = 1000
	}
	if m.LearningRate <= 0 {
		m.LearningRate = 0.1
	}

	m.mean = make([]float64, cols)
	m.scale = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, X)
		m.mean[j] = floats.Sum(col) / float64(rows)
		floats.AddConst(-m.mean[j], col)
		sd := math.Sqrt(floats.Dot(col, col) / float64(rows))
		if sd == 0 {
			sd = 1
		}
		m.scale[j] = sd
	}
	Z := m.design(X)

	targets := m.classes[1:]
	if len(m.classes) > 2 {
		targets = m.classes
	}
	m.weights = m.weights[:0]
	for _, class := range targets {
		t := make([]float64, rows)
		for i, label := range y {
			if label == class {
				t[i] = 1
			}
		}
		m.weights = append(m.weights, m.gradientDescent(Z, t))
	}
	return nil
}

// design standardizes X and appends a bias column of ones.
func (m *LogisticRegression) design(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()
	Z := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			Z.Set(i, j, (X.At(i, j)-m.mean[j])/m.scale[j])
		}
		Z.Set(i, cols, 1)
	}
	return Z
}

func (m *LogisticRegression) gradientDescent(Z *mat.Dense, t []float64) []float64 {
	rows, cols := Z.Dims()
	w := mat.NewVecDense(cols, nil)
	target := mat.NewVecDense(rows, t)
	p := mat.NewVecDense(rows, nil)
	grad := mat.NewVecDense(cols, nil)
	n := float64(rows)

	for iter := 0; iter < m.MaxIter; iter++ {
		p.MulVec(Z, w)
		for i := 0; i < rows; i++ {
			p.SetVec(i, sigmoid(p.AtVec(i)))
		}
		p.SubVec(p, target)
		grad.MulVec(Z.T(), p)
		grad.ScaleVec(1/n, grad)
		// The bias is not regularized.
		for j := 0; j < cols-1; j++ {
			grad.SetVec(j, grad.AtVec(j)+m.L2*w.AtVec(j)/n)
		}
		w.AddScaledVec(w, -m.LearningRate, grad)
	}
	return mat.Col(nil, 0, w)
}

// Probabilities returns, per row, the positive-class score of every weight vector.
func (m *LogisticRegression) Probabilities(X mat.Matrix) (*mat.Dense, error) {
	if m.weights == nil {
		return nil, fmt.Errorf("model is not fitted")
	}
	_, cols := X.Dims()
	if cols != len(m.mean) {
		return nil, fmt.Errorf("model was fitted on %d features, got %d", len(m.mean), cols)
	}
	Z := m.design(X)
	rows, _ := Z.Dims()
	W := mat.NewDense(len(m.weights[0]), len(m.weights), nil)
	for k, w := range m.weights {
		W.SetCol(k, w)
	}
	var scores mat.Dense
	scores.Mul(Z, W)
	out := mat.NewDense(rows, len(m.weights), nil)
	out.Apply(func(i, j int, v float64) float64 { return sigmoid(v) }, &scores)
	return out, nil
}

// Predict returns a class label per row of X.
func (m *LogisticRegression) Predict(X mat.Matrix) ([]string, error) {
	probs, err := m.Probabilities(X)
	if err != nil {
		return nil, err
	}
	rows, _ := probs.Dims()
	labels := make([]string, rows)
	for i := 0; i < rows; i++ {
		row := probs.RawRowView(i)
		if len(m.weights) == 1 {
			if row[0] >= 0.5 {
				labels[i] = m.classes[1]
			} else {
				labels[i] = m.classes[0]
			}
			continue
		}
		labels[i] = m.classes[floats.MaxIdx(row)]
	}
	return labels, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
