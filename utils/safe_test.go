package utils

import (
	"errors"
	"testing"
)

func TestCheckLength(t *testing.T) {
	if err := CheckLength(100, 1000); err != nil {
		t.Errorf("CheckLength(100, 1000) should pass: %v", err)
	}

	if err := CheckLength(1001, 1000); err == nil {
		t.Error("CheckLength(1001, 1000) should fail")
	}

	if err := CheckLength(-1, 1000); err == nil {
		t.Error("CheckLength(-1, 1000) should fail")
	}
}

func TestCheckDimension(t *testing.T) {
	if err := CheckDimension(1); err != nil {
		t.Errorf("CheckDimension(1) should pass: %v", err)
	}
	if err := CheckDimension(MaxDimension); err != nil {
		t.Errorf("CheckDimension(MaxDimension) should pass: %v", err)
	}
	if err := CheckDimension(0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("CheckDimension(0) = %v, want ErrInvalidLength", err)
	}
	if err := CheckDimension(MaxDimension + 1); !errors.Is(err, ErrExceedsLimit) {
		t.Errorf("CheckDimension(MaxDimension+1) = %v, want ErrExceedsLimit", err)
	}
}
