package dataset

import (
	"strings"
	"testing"

	"github.com/petrofore/wellrisk/pkg/errors"
)

const sampleCSV = `id,f0,f1,f2,product
w1,0.1,0.2,0.3,100
w2,0.4,0.5,0.6,50
w3,0.7,0.8,0.9,200
`

func TestLoad(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	if table.IDs[1] != "w2" || table.Target[1] != 50 {
		t.Errorf("row 1 = (%s, %v), want (w2, 50)", table.IDs[1], table.Target[1])
	}
	if table.Features[2][2] != 0.9 {
		t.Errorf("Features[2][2] = %v, want 0.9", table.Features[2][2])
	}
}

func TestLoadColumnOrderIrrelevant(t *testing.T) {
	csv := `product,id,f2,f1,f0,extra
10,w1,3,2,1,ignored
`
	table, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Target[0] != 10 || table.Features[0][0] != 1 || table.Features[0][2] != 3 {
		t.Errorf("unexpected parse: %+v", table)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty file", csv: ""},
		{name: "missing product column", csv: "id,f0,f1,f2\nw1,1,2,3\n"},
		{name: "missing feature column", csv: "id,f0,f1,product\nw1,1,2,3\n"},
		{name: "unparsable cell", csv: "id,f0,f1,f2,product\nw1,1,2,3,abc\n"},
		{name: "nan cell", csv: "id,f0,f1,f2,product\nw1,1,2,3,NaN\n"},
		{name: "header only", csv: "id,f0,f1,f2,product\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv))
			var dataErr *errors.DataError
			if !errors.As(err, &dataErr) {
				t.Errorf("Load() error = %v, want DataError", err)
			}
		})
	}
}

func TestCleanDeduplicateKeepsMaxVolume(t *testing.T) {
	csv := `id,f0,f1,f2,product
w1,1,1,1,100
w1,1,1,1,50
w2,2,2,2,75
w3,3,3,3,200
w3,3,3,3,150
`
	table, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	clean := table.CleanDeduplicate()
	if clean.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", clean.Len())
	}

	got := map[string]float64{}
	for i, id := range clean.IDs {
		got[id] = clean.Target[i]
	}
	want := map[string]float64{"w1": 100, "w2": 75, "w3": 200}
	for id, volume := range want {
		if got[id] != volume {
			t.Errorf("%s volume = %v, want %v", id, got[id], volume)
		}
	}
}

func TestShuffleDeterministic(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	a := table.Shuffle(7)
	b := table.Shuffle(7)
	for i := range a.IDs {
		if a.IDs[i] != b.IDs[i] {
			t.Fatalf("same seed produced different orders at row %d: %s vs %s", i, a.IDs[i], b.IDs[i])
		}
	}

	// The shuffle must be a permutation, not a mutation.
	seen := map[string]bool{}
	for _, id := range a.IDs {
		seen[id] = true
	}
	if len(seen) != table.Len() {
		t.Errorf("shuffle lost rows: %v", a.IDs)
	}
}

func TestSplit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,f0,f1,f2,product\n")
	for i := 0; i < 20; i++ {
		sb.WriteString("w")
		sb.WriteString(string(rune('a' + i)))
		sb.WriteString(",1,2,3,10\n")
	}

	table, err := Load(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	train, valid, err := table.Split(0.25, 42)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if train.Len() != 15 || valid.Len() != 5 {
		t.Errorf("split sizes = (%d, %d), want (15, 5)", train.Len(), valid.Len())
	}

	// Invalid fractions fail with a ConfigurationError.
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := table.Split(frac, 42)
		var cfgErr *errors.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Split(%v) error = %v, want ConfigurationError", frac, err)
		}
	}
}

func TestFeaturesTarget(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	X, y, err := table.FeaturesTarget()
	if err != nil {
		t.Fatalf("FeaturesTarget() error = %v", err)
	}

	r, c := X.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("X dims = (%d, %d), want (3, 3)", r, c)
	}
	if X.At(1, 0) != 0.4 {
		t.Errorf("X[1,0] = %v, want 0.4", X.At(1, 0))
	}
	if y.AtVec(2) != 200 {
		t.Errorf("y[2] = %v, want 200", y.AtVec(2))
	}
}
