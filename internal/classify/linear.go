package classify

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Linear is a single-layer softmax classifier over the flattened numeral
// crop. It mirrors the fully-connected reference model: one weight row
// per label, scores = W*x + b, probabilities by softmax.
type Linear struct {
	labels  []string
	weights *mat.Dense
	bias    *mat.VecDense
}

// linearModel is the on-disk JSON layout of a trained model.
type linearModel struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// NewLinear builds a classifier from explicit weights. weights must have
// one row per label, all rows of equal length, and bias one entry per
// label.
func NewLinear(labels []string, weights [][]float64, bias []float64) (*Linear, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels")
	}
	if len(weights) != len(labels) || len(bias) != len(labels) {
		return nil, fmt.Errorf("got %d weight rows and %d biases for %d labels",
			len(weights), len(bias), len(labels))
	}
	cols := len(weights[0])
	flat := make([]float64, 0, len(labels)*cols)
	for i, row := range weights {
		if len(row) != cols {
			return nil, fmt.Errorf("weight row %d has %d entries, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return &Linear{
		labels:  labels,
		weights: mat.NewDense(len(labels), cols, flat),
		bias:    mat.NewVecDense(len(labels), bias),
	}, nil
}

// LoadLinear reads model weights (JSON) and the label list (one label per
// line) from disk.
func LoadLinear(modelPath, labelPath string) (*Linear, error) {
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	var model linearModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	rawLabels, err := os.ReadFile(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	var labels []string
	for _, line := range strings.Split(string(rawLabels), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			labels = append(labels, line)
		}
	}

	return NewLinear(labels, model.Weights, model.Bias)
}

// Classify flattens the crop to [0,1] intensities and returns the
// max-probability label.
func (l *Linear) Classify(img *image.Gray) (Prediction, error) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if _, cols := l.weights.Dims(); n != cols {
		return Prediction{}, fmt.Errorf("crop has %d pixels, model expects %d", n, cols)
	}

	x := mat.NewVecDense(n, nil)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for xx := b.Min.X; xx < b.Max.X; xx++ {
			x.SetVec(i, float64(img.GrayAt(xx, y).Y)/255)
			i++
		}
	}

	var scores mat.VecDense
	scores.MulVec(l.weights, x)
	scores.AddVec(&scores, l.bias)

	probs := softmax(scores.RawVector().Data)
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Prediction{Label: l.labels[best], Confidence: probs[best]}, nil
}

// softmax converts raw scores to probabilities, shifted by the max score
// for numerical stability.
func softmax(scores []float64) []float64 {
	max := math.Inf(-1)
	for _, s := range scores {
		max = math.Max(max, s)
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
