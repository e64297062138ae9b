package estimator

import (
	"math"
	"math/rand"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a multinomial logistic regression trained with stochastic gradient
// descent.
type LogisticRegression struct {
	Seed         int64
	Epochs       int
	LearningRate float64
	L2           float64

	classes []float64
	w       [][]float64
	b       []float64
}

// NewLogisticRegression creates a logistic regression with default parameters.
func NewLogisticRegression(seed int64) *LogisticRegression {
	return &LogisticRegression{Seed: seed, Epochs: 20, LearningRate: 0.1, L2: 1e-4}
}

func newLogisticRegressionFromArgs(args Args) (Estimator, error) {
	if args.Task == dataset.Regression {
		return nil, errors.New("logistic regression cannot be used for regression")
	}
	m := NewLogisticRegression(args.Seed)
	epochs, err := floatKwarg(args.Kwargs, "epochs", float64(m.Epochs))
	if err != nil {
		return nil, err
	}
	m.Epochs = int(epochs)
	if m.LearningRate, err = floatKwarg(args.Kwargs, "learning_rate", m.LearningRate); err != nil {
		return nil, err
	}
	if m.L2, err = floatKwarg(args.Kwargs, "l2", m.L2); err != nil {
		return nil, err
	}
	if m.Epochs <= 0 || m.LearningRate <= 0 || m.L2 < 0 {
		return nil, errors.Errorf("invalid logistic regression parameters epochs=%d learning_rate=%v l2=%v", m.Epochs, m.LearningRate, m.L2)
	}
	return m, nil
}

// Clone returns an unfitted copy.
func (m *LogisticRegression) Clone() Estimator {
	return &LogisticRegression{Seed: m.Seed, Epochs: m.Epochs, LearningRate: m.LearningRate, L2: m.L2}
}

func (m *LogisticRegression) logits(X mat.Matrix, i int, out []float64) {
	copy(out, m.b)
	eachNonZero(X, i, func(j int, v float64) {
		for k := range out {
			out[k] += m.w[k][j] * v
		}
	})
}

func softmax(z []float64) {
	hi := floats.Max(z)
	var sum float64
	for k := range z {
		z[k] = math.Exp(z[k] - hi)
		sum += z[k]
	}
	floats.Scale(1/sum, z)
}

// Fit trains the model. Labels are treated as class codes.
func (m *LogisticRegression) Fit(X mat.Matrix, y []float64, weights []float64) error {
	if err := check(X, y, weights); err != nil {
		return err
	}
	r, c := X.Dims()
	m.classes = dataset.Classes(y)
	index := make(map[float64]int, len(m.classes))
	for k, cl := range m.classes {
		index[cl] = k
	}
	nClasses := len(m.classes)
	m.w = make([][]float64, nClasses)
	for k := range m.w {
		m.w[k] = make([]float64, c)
	}
	m.b = make([]float64, nClasses)
	if nClasses == 1 {
		return nil
	}

	rng := rand.New(rand.NewSource(m.Seed))
	order := make([]int, r)
	for i := range order {
		order[i] = i
	}
	p := make([]float64, nClasses)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		lr := m.LearningRate / (1 + float64(epoch))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			m.logits(X, i, p)
			softmax(p)
			p[index[y[i]]] -= 1
			g := weight(weights, i)
			eachNonZero(X, i, func(j int, v float64) {
				for k := range p {
					m.w[k][j] -= lr * (g*p[k]*v + m.L2*m.w[k][j])
				}
			})
			for k := range p {
				m.b[k] -= lr * g * p[k]
			}
		}
	}
	return nil
}

// Predict returns the most probable class of each row.
func (m *LogisticRegression) Predict(X mat.Matrix) ([]float64, error) {
	if m.classes == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(m.w[0]) {
		return nil, errors.Errorf("fitted on %d features, got %d", len(m.w[0]), c)
	}
	out := make([]float64, r)
	z := make([]float64, len(m.classes))
	for i := range out {
		m.logits(X, i, z)
		out[i] = m.classes[floats.MaxIdx(z)]
	}
	return out, nil
}
