package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecisionAtK(t *testing.T) {
	cases := []struct {
		name      string
		retrieved []string
		relevant  []string
		want      float64
	}{
		{"perfect", []string{"4", "5", "6"}, []string{"4", "5", "6"}, 1.0},
		{"partial", []string{"4", "5", "99"}, []string{"4", "5", "6"}, 0.666},
		{"none", []string{"97", "98", "99"}, []string{"4", "5", "6"}, 0.0},
		{"empty_retrieved", []string{}, []string{"4", "5"}, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, PrecisionAtK(tc.retrieved, tc.relevant), 0.01)
		})
	}
}

func TestRecallAtK(t *testing.T) {
	cases := []struct {
		name      string
		retrieved []string
		relevant  []string
		want      float64
	}{
		{"perfect", []string{"4", "5", "6"}, []string{"4", "5", "6"}, 1.0},
		{"partial", []string{"4", "99"}, []string{"4", "5", "6"}, 0.333},
		{"no_relevant", []string{"4"}, nil, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RecallAtK(tc.retrieved, tc.relevant), 0.01)
		})
	}
}

func TestReciprocalRank(t *testing.T) {
	cases := []struct {
		name      string
		retrieved []string
		relevant  []string
		want      float64
	}{
		{"first", []string{"4", "5", "6"}, []string{"4"}, 1.0},
		{"second", []string{"99", "4", "6"}, []string{"4"}, 0.5},
		{"earliest_of_many", []string{"99", "98", "6", "4"}, []string{"4", "6"}, 0.333},
		{"missing", []string{"97", "98", "99"}, []string{"4"}, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ReciprocalRank(tc.retrieved, tc.relevant), 0.01)
		})
	}
}

func TestNDCG(t *testing.T) {
	cases := []struct {
		name      string
		retrieved []string
		relevant  []string
		want      float64
	}{
		{"perfect", []string{"4", "5", "99"}, []string{"4", "5"}, 1.0},
		// gains 0,1 against ideal 1,0: (1/log2 3) / 1
		{"late_hit", []string{"99", "4"}, []string{"4"}, 0.631},
		{"none", []string{"97", "98"}, []string{"4"}, 0.0},
		{"no_relevant", []string{"4"}, nil, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NDCG(tc.retrieved, tc.relevant), 0.01)
		})
	}
}
