package election

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestDeriveStatus_Boundaries(t *testing.T) {
	const start, end = 1_700_000_000.0, 1_700_003_600.0
	eps := 0.001

	tests := []struct {
		name string
		now  float64
		want Status
	}{
		{"before start", start - eps, StatusDraft},
		{"at start", start, StatusActive},
		{"mid window", (start + end) / 2, StatusActive},
		{"at end", end, StatusActive},
		{"after end", end + eps, StatusClosed},
		{"far past", 0, StatusDraft},
		{"far future", math.MaxFloat64, StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(start, end, tt.now); got != tt.want {
				t.Fatalf("DeriveStatus(%v) = %s, want %s", tt.now, got, tt.want)
			}
		})
	}
}

func TestActiveFilter_AgreesWithDeriveStatus(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		start := float64(r.Intn(100))
		end := start + float64(r.Intn(50)+1)
		// integer nows hit both edges often
		now := float64(r.Intn(200))
		if i%3 == 0 {
			now += r.Float64()
		}

		e := Election{StartTime: start, EndTime: end}
		active := DeriveStatus(start, end, now) == StatusActive

		if got := ActiveAt(now).Matches(e); got != active {
			t.Fatalf("start=%v end=%v now=%v: filter=%v derive active=%v", start, end, now, got, active)
		}
	}
}

func TestListFilter_ZeroMatchesAll(t *testing.T) {
	if !(ListFilter{}).Matches(Election{StartTime: 10, EndTime: 20}) {
		t.Fatalf("empty filter should match")
	}
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		start, end float64
		wantErr    bool
	}{
		{100, 200, false},
		{100, 100.5, false},
		{100, 100, true},
		{200, 100, true},
	}

	for _, tt := range tests {
		err := ValidateWindow(tt.start, tt.end)
		if tt.wantErr && !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("ValidateWindow(%v,%v) = %v, want ErrInvalidWindow", tt.start, tt.end, err)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("ValidateWindow(%v,%v) = %v, want nil", tt.start, tt.end, err)
		}
	}
}

func TestViewAt(t *testing.T) {
	e := Election{ID: "e1", Title: "Board", StartTime: 10, EndTime: 20, BlockchainID: 7}

	v := e.ViewAt(25)
	if v.Status != StatusClosed || v.ID != "e1" || v.BlockchainID != 7 {
		t.Fatalf("unexpected view: %+v", v)
	}
}
