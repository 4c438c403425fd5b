// Package scoring implements the appraisal scoring arithmetic: criterion
// averaging, self-score normalization, the weighted composite and the
// performance bands. All functions are pure.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"appraisal/pkg/apperror"
)

// Composite weights. The 75/25 self/HOD split is fixed institute policy;
// the per-rank weightage block on the HOD appraisal is recorded but does not
// feed this calculation.
const (
	SelfWeight = 0.75
	HodWeight  = 0.25
)

// Raw score ceilings.
const (
	CriterionMax = 25
	SelfScoreMax = 375
)

// Performance categories, ordered.
const (
	CategoryBelowAverage = "Below Average"
	CategoryAverage      = "Average"
	CategoryGood         = "Good"
	CategoryVeryGood     = "Very Good"
	CategoryExcellent    = "Excellent"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AverageCriteria returns the arithmetic mean of the HOD's criterion scores.
// Every value must be finite and within [0, 25].
func AverageCriteria(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, apperror.New(apperror.InvalidInput, "assessment criteria are required")
	}
	var sum float64
	for _, v := range values {
		if !finite(v) || v < 0 || v > CriterionMax {
			return 0, apperror.Newf(apperror.InvalidInput, "criterion score %v out of range 0-%d", v, CriterionMax)
		}
		sum += v
	}
	return sum / float64(len(values)), nil
}

// NormalizeSelfScore rescales the raw self-assessment score (out of 375)
// to the 0-100 scale.
func NormalizeSelfScore(raw float64) (float64, error) {
	if !finite(raw) || raw < 0 || raw > SelfScoreMax {
		return 0, apperror.Newf(apperror.InvalidInput, "self-assessment score %v out of range 0-%d", raw, SelfScoreMax)
	}
	return raw / SelfScoreMax * 100, nil
}

// WeightedComposite blends the normalized self score (0-100) with the HOD
// assessment average (0-25) under the fixed 75/25 split, rounded to two
// decimals.
func WeightedComposite(normalizedSelf, hodAssessment float64) (float64, error) {
	if !finite(normalizedSelf) || normalizedSelf < 0 || normalizedSelf > 100 {
		return 0, apperror.Newf(apperror.InvalidInput, "normalized self score %v out of range 0-100", normalizedSelf)
	}
	if !finite(hodAssessment) || hodAssessment < 0 || hodAssessment > CriterionMax {
		return 0, apperror.Newf(apperror.InvalidInput, "hod assessment score %v out of range 0-%d", hodAssessment, CriterionMax)
	}

	composite := decimal.NewFromFloat(normalizedSelf).Mul(decimal.NewFromFloat(SelfWeight)).
		Add(decimal.NewFromFloat(hodAssessment).Mul(decimal.NewFromFloat(HodWeight)))
	result, _ := composite.Round(2).Float64()
	return result, nil
}

// Categorize places a 0-100 score into its performance band. Bands are
// half-open on the upper edge: <60, [60,70), [70,80), [80,90), [90,100].
func Categorize(score float64) string {
	switch {
	case score < 60:
		return CategoryBelowAverage
	case score < 70:
		return CategoryAverage
	case score < 80:
		return CategoryGood
	case score < 90:
		return CategoryVeryGood
	default:
		return CategoryExcellent
	}
}
