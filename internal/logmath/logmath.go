// Copyright 2026 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logmath provides numerically stable log-space arithmetic used
// throughout eagle's likelihood evaluator, plus the handful of natural-log
// constants the model is built from.
package logmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Ln10 is the natural log of 10, used to convert between Phred and ln scale.
const Ln10 = math.Ln10

// InvLn10 converts a natural log value to log10 (e.g. for printing Prob).
const InvLn10 = 1 / math.Ln10

// Ln3 is ln(3), the number of possible mismatching bases per position.
var Ln3 = math.Log(3)

// LnHalf is ln(0.5).
var LnHalf = math.Log(0.5)

// Ln01 is ln(0.1).
var Ln01 = math.Log(0.1)

// Ln09 is ln(0.9).
var Ln09 = math.Log(0.9)

// Alpha scales the elsewhere-probability penalty for hard-clipped reads.
const Alpha = 1.3

// LnAlpha is ln(Alpha).
var LnAlpha = math.Log(Alpha)

// Omega is the prior weight on the "elsewhere" (paralogous source) model.
const Omega = 1e-4

// LnOmega is ln(Omega/(1-Omega)), the log-odds of the elsewhere mixture.
var LnOmega = math.Log(Omega / (1 - Omega))

// RefPrior is the prior log-probability mass assigned to the reference
// hypothesis: ln(0.5).
var RefPrior = LnHalf

// NegInf is negative infinity, the log-space representation of zero
// probability.
var NegInf = math.Inf(-1)

// LogAddExp returns ln(exp(a) + exp(b)) computed without overflow.
// LogAddExp(NegInf, x) == x for any finite x.
func LogAddExp(a, b float64) float64 {
	if a == NegInf {
		return b
	}
	if b == NegInf {
		return a
	}
	m := math.Max(a, b)
	return m + math.Log(math.Exp(a-m)+math.Exp(b-m))
}

// LogSumExp returns ln(Σ exp(xi)) over a non-empty slice, computed without
// overflow via a max-then-sum reduction.
func LogSumExp(xs []float64) float64 {
	if len(xs) == 0 {
		panic("logmath: LogSumExp of empty slice")
	}
	m := floats.Max(xs)
	if m == NegInf {
		return NegInf
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - m)
	}
	return m + math.Log(sum)
}
