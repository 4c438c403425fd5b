package scoring

import (
	"math"
	"testing"

	"appraisal/pkg/apperror"
)

func TestAverageCriteria(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"all max", []float64{25, 25, 25, 25, 25, 25, 25, 25, 25, 25}, 25, true},
		{"all zero", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, true},
		{"sum 200", []float64{20, 20, 20, 20, 20, 20, 20, 20, 20, 20}, 20, true},
		{"mixed", []float64{10, 15, 20, 25, 5, 0, 12, 18, 22, 23}, 15, true},
		{"empty", nil, 0, false},
		{"negative", []float64{10, -1, 10, 10, 10, 10, 10, 10, 10, 10}, 0, false},
		{"over max", []float64{10, 26, 10, 10, 10, 10, 10, 10, 10, 10}, 0, false},
		{"nan", []float64{math.NaN(), 10, 10, 10, 10, 10, 10, 10, 10, 10}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AverageCriteria(tt.values)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
				if got < 0 || got > CriterionMax {
					t.Fatalf("average %v outside [0,%d]", got, CriterionMax)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if apperror.KindOf(err) != apperror.InvalidInput {
				t.Fatalf("expected InvalidInput, got %v", apperror.KindOf(err))
			}
		})
	}
}

func TestNormalizeSelfScore(t *testing.T) {
	if got, _ := NormalizeSelfScore(0); got != 0 {
		t.Fatalf("NormalizeSelfScore(0) = %v, want 0", got)
	}
	if got, _ := NormalizeSelfScore(375); got != 100 {
		t.Fatalf("NormalizeSelfScore(375) = %v, want 100", got)
	}
	if got, _ := NormalizeSelfScore(300); got != 80 {
		t.Fatalf("NormalizeSelfScore(300) = %v, want 80", got)
	}

	// Monotonically non-decreasing across the domain.
	prev := -1.0
	for raw := 0.0; raw <= 375; raw += 12.5 {
		got, err := NormalizeSelfScore(raw)
		if err != nil {
			t.Fatalf("unexpected error at %v: %v", raw, err)
		}
		if got < prev {
			t.Fatalf("not monotonic at %v: %v < %v", raw, got, prev)
		}
		prev = got
	}

	for _, raw := range []float64{-1, 376, math.NaN(), math.Inf(1)} {
		if _, err := NormalizeSelfScore(raw); apperror.KindOf(err) != apperror.InvalidInput {
			t.Fatalf("expected InvalidInput for %v", raw)
		}
	}
}

func TestWeightedComposite(t *testing.T) {
	// Raw self score 300/375 normalizes to 80, ten criteria summing to 200
	// average 20: composite = 80*0.75 + 20*0.25 = 65.
	got, err := WeightedComposite(80, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 65 {
		t.Fatalf("got %v, want 65", got)
	}

	// Full marks on both tracks: 100*0.75 + 25*0.25 = 81.25.
	got, err = WeightedComposite(100, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 81.25 {
		t.Fatalf("got %v, want 81.25", got)
	}

	// Rounds to two decimals.
	got, err = WeightedComposite(33.333, 11.111)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 27.78 {
		t.Fatalf("got %v, want 27.78", got)
	}

	if _, err := WeightedComposite(101, 20); apperror.KindOf(err) != apperror.InvalidInput {
		t.Fatal("expected InvalidInput for self score above 100")
	}
	if _, err := WeightedComposite(80, 26); apperror.KindOf(err) != apperror.InvalidInput {
		t.Fatal("expected InvalidInput for hod score above 25")
	}
	if _, err := WeightedComposite(math.NaN(), 20); apperror.KindOf(err) != apperror.InvalidInput {
		t.Fatal("expected InvalidInput for NaN")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, CategoryBelowAverage},
		{59.99, CategoryBelowAverage},
		{60, CategoryAverage},
		{65, CategoryAverage},
		{69.99, CategoryAverage},
		{70, CategoryGood},
		{79.99, CategoryGood},
		{80, CategoryVeryGood},
		{81.25, CategoryVeryGood},
		{89.99, CategoryVeryGood},
		{90, CategoryExcellent},
		{100, CategoryExcellent},
	}

	for _, tt := range tests {
		if got := Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
