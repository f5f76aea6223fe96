package metrics

import (
	"fmt"
	"sort"
	"strconv"
)

// Confusion is a confusion matrix. Rows are actual labels, columns are predicted labels.
type Confusion struct {
	Labels []string
	Counts [][]int
	index  map[string]int
}

// NewConfusion counts actual/predicted pairs. When labels is empty the label set is the
// union of both sequences, sorted (numerically when every label is a number).
// Pairs with a label outside an explicit label set are ignored.
func NewConfusion(actual, predicted, labels []string) (*Confusion, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("label sequences differ in length: %d actual, %d predicted", len(actual), len(predicted))
	}
	if len(labels) == 0 {
		labels = SortedLabels(append(append([]string(nil), actual...), predicted...))
	}

	cm := &Confusion{
		Labels: append([]string(nil), labels...),
		Counts: make([][]int, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		cm.Counts[i] = make([]int, len(labels))
		cm.index[l] = i
	}

	for i := range actual {
		r, ok1 := cm.index[actual[i]]
		c, ok2 := cm.index[predicted[i]]
		if !ok1 || !ok2 {
			continue
		}
		cm.Counts[r][c]++
	}
	return cm, nil
}

// SortedLabels returns the distinct labels in sorted order.
func SortedLabels(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	numeric := true
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
	}
	if numeric {
		sort.Slice(out, func(i, j int) bool {
			a, _ := strconv.ParseFloat(out[i], 64)
			b, _ := strconv.ParseFloat(out[j], 64)
			return a < b
		})
	} else {
		sort.Strings(out)
	}
	return out
}

// Total is the number of counted pairs.
func (cm *Confusion) Total() int {
	n := 0
	for _, row := range cm.Counts {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Correct is the sum of the diagonal.
func (cm *Confusion) Correct() int {
	n := 0
	for i := range cm.Counts {
		n += cm.Counts[i][i]
	}
	return n
}

// Accuracy is Correct/Total, or 0 for an empty matrix.
func (cm *Confusion) Accuracy() float64 {
	return ratio(cm.Correct(), cm.Total())
}

// BinaryMetrics are the counts and scores for one positive label.
type BinaryMetrics struct {
	Positive  string
	TN        int
	FP        int
	FN        int
	TP        int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Binary computes the one-vs-rest metrics for the given positive label.
// A zero denominator yields 0.
func (cm *Confusion) Binary(positive string) (BinaryMetrics, error) {
	p, ok := cm.index[positive]
	if !ok {
		return BinaryMetrics{}, fmt.Errorf("positive label '%s' not among labels %v", positive, cm.Labels)
	}

	m := BinaryMetrics{Positive: positive, TP: cm.Counts[p][p]}
	for i := range cm.Counts {
		if i == p {
			continue
		}
		m.FN += cm.Counts[p][i]
		m.FP += cm.Counts[i][p]
	}
	total := cm.Total()
	m.TN = total - m.TP - m.FP - m.FN

	m.Accuracy = cm.Accuracy()
	m.Precision = ratio(m.TP, m.TP+m.FP)
	m.Recall = ratio(m.TP, m.TP+m.FN)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, nil
}

// Lines renders the metrics as the text block shown under the confusion chart.
func (m BinaryMetrics) Lines() []string {
	return []string{
		fmt.Sprintf("True Positives (TP): %d", m.TP),
		fmt.Sprintf("True Negatives (TN): %d", m.TN),
		fmt.Sprintf("False Positives (FP): %d", m.FP),
		fmt.Sprintf("False Negatives (FN): %d", m.FN),
		"",
		fmt.Sprintf("Accuracy: %.4f", m.Accuracy),
		fmt.Sprintf("Precision: %.4f", m.Precision),
		fmt.Sprintf("Recall: %.4f", m.Recall),
		fmt.Sprintf("F1 Score: %.4f", m.F1),
	}
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
