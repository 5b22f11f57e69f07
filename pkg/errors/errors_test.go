package errors

import (
	"math"
	"strings"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("Run", "wells_to_select", "must not exceed sample_size", 500)

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatalf("expected error to unwrap to *ConfigurationError, got %T", err)
	}

	msg := err.Error()
	for _, want := range []string{"wellrisk:", "Run", "wells_to_select", "500"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q does not contain %q", msg, want)
		}
	}
}

func TestDataError(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{name: "with index", index: 7, want: "invalid data at record 7"},
		{name: "without index", index: -1, want: "invalid data:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDataError("Load", tt.index, "negative volume")
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DataError message %q does not contain %q", err.Error(), tt.want)
			}

			var dataErr *DataError
			if !As(err, &dataErr) {
				t.Fatalf("expected *DataError, got %T", err)
			}
			if dataErr.Index != tt.index {
				t.Errorf("Index = %d, want %d", dataErr.Index, tt.index)
			}
		})
	}
}

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("WeightedRegressor", "Predict")

	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Fatalf("expected *NotFittedError, got %T", err)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("NewDataset", 100, 99, 0)
	if !strings.Contains(err.Error(), "Expected 100, got 99") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "rows") {
		t.Errorf("axis 0 should report rows, got %q", err.Error())
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewConfigurationError("Summarize", "confidence_level", "must be in (0, 1)", 1.5)
	wrapped := Wrap(base, "summarizing region distribution")

	var cfgErr *ConfigurationError
	if !As(wrapped, &cfgErr) {
		t.Fatal("wrapping lost the ConfigurationError type")
	}
	if cfgErr.Param != "confidence_level" {
		t.Errorf("Param = %q, want confidence_level", cfgErr.Param)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(func(w error) {})

	warning := NewModelDriftWarning("DDM", 3.2, 3.0, "retrain model")
	Warn(warning)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "drift detected by DDM") {
		t.Errorf("unexpected warning message: %q", captured.Error())
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("Load", []float64{1.0, 2.5, 0.0}); err != nil {
		t.Errorf("finite values should pass, got %v", err)
	}

	err := CheckFinite("Load", []float64{1.0, math.NaN(), 3.0})
	var dataErr *DataError
	if !As(err, &dataErr) {
		t.Fatalf("expected *DataError, got %v", err)
	}
	if dataErr.Index != 1 {
		t.Errorf("Index = %d, want 1", dataErr.Index)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "fn")
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if panicErr.Operation != "fn" {
		t.Errorf("Operation = %q, want fn", panicErr.Operation)
	}
}
