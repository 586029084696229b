package main

import "math"

// summary compares a tensor with its rounded counterpart.
type summary struct {
	Elements     int
	MeanAbsError float64
	MaxAbsError  float64
	RoundedUp    float64 // Fraction of elements whose output exceeds the input.
	RoundedDown  float64
}

func summarize(in, out []float32) summary {
	s := summary{Elements: len(in)}
	if len(in) == 0 {
		return s
	}

	var sum float64
	var up, down int
	for i, x := range in {
		d := float64(out[i]) - float64(x)
		sum += math.Abs(d)
		s.MaxAbsError = max(s.MaxAbsError, math.Abs(d))
		switch {
		case d > 0:
			up++
		case d < 0:
			down++
		}
	}

	n := float64(len(in))
	s.MeanAbsError = sum / n
	s.RoundedUp = float64(up) / n
	s.RoundedDown = float64(down) / n
	return s
}

// decisionStats describes a freshly initialized decision tensor.
type decisionStats struct {
	Min, Max, Mean float64 // Over finite values only.
	NonFinite      int
	HardUp         float64 // Fraction of hard decisions that round up.
	SoftMean       float64
}

func describeDecisions(alpha, hard, soft []float32) decisionStats {
	s := decisionStats{Min: math.Inf(1), Max: math.Inf(-1)}

	var sum float64
	finite := 0
	for _, a := range alpha {
		v := float64(a)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		finite++
		sum += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	if finite > 0 {
		s.Mean = sum / float64(finite)
	} else {
		s.Min, s.Max = math.NaN(), math.NaN()
	}

	if len(hard) > 0 {
		s.HardUp = mean(hard)
		s.SoftMean = mean(soft)
	}
	return s
}

func mean(values []float32) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}
