package model

import "math/rand"

// TrainTestSplit returns shuffled train and test row indices. The same seed
// always yields the same split.
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int) {
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	nTest := int(float64(n) * testRatio)
	if nTest < 0 {
		nTest = 0
	}
	if nTest > n {
		nTest = n
	}
	test = append(test, indices[:nTest]...)
	train = append(train, indices[nTest:]...)
	return train, test
}

func selectRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func selectValues(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
