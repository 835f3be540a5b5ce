package voicefx

import (
	"sync"
	"testing"
)

func TestParameterStore_SetGet(t *testing.T) {
	ps := NewParameterStore(-12, 0, -7)

	if got := ps.Get(); got != -7 {
		t.Errorf("Expected initial pitch -7, got %d", got)
	}

	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", -12, false},
		{"upper bound", 0, false},
		{"mid range", -5, false},
		{"below range", -13, true},
		{"above range", 1, true},
		{"far out of range", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ps.Get()
			err := ps.Set(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%d) succeeded, want error", tt.value)
				}
				if !IsErrorCode(err, ErrCodePitchRange) {
					t.Errorf("Set(%d) error code = %v, want %s", tt.value, err, ErrCodePitchRange)
				}
				if got := ps.Get(); got != before {
					t.Errorf("rejected Set(%d) changed stored value to %d", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%d) failed: %v", tt.value, err)
			}
			if got := ps.Get(); got != tt.value {
				t.Errorf("Get() = %d after Set(%d)", got, tt.value)
			}
		})
	}
}

func TestParameterStore_Bounds(t *testing.T) {
	ps := NewParameterStore(-12, 0, 0)
	min, max := ps.Bounds()
	if min != -12 || max != 0 {
		t.Errorf("Bounds() = [%d, %d], want [-12, 0]", min, max)
	}
}

// Concurrent writers and a reader must never observe a value outside the
// configured range; the atomic word guarantees no torn reads.
func TestParameterStore_ConcurrentAccess(t *testing.T) {
	ps := NewParameterStore(-12, 0, -7)

	var wg sync.WaitGroup
	done := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				// Cycles through valid and out-of-range values; the
				// out-of-range ones must be rejected without effect.
				_ = ps.Set(-((seed + i) % 15))
			}
		}(w)
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		v := ps.Get()
		if v < -12 || v > 0 {
			t.Fatalf("observed out-of-range value %d", v)
		}
		select {
		case <-done:
			return
		default:
		}
	}
}
