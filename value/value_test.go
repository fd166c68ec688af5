package value

import "testing"

func TestAddSub(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		delta Value
		want  Value
	}{
		{name: "positive delta", v: 10, delta: 5, want: 15},
		{name: "negative delta", v: 10, delta: -5, want: 5},
		{name: "zero delta", v: 10, delta: 0, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Add(tt.delta); got != tt.want {
				t.Errorf("Add() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Value(7).Equal(7) {
		t.Error("expected 7 == 7")
	}
	if Value(7).Equal(8) {
		t.Error("expected 7 != 8")
	}
}

func TestLess(t *testing.T) {
	if !Value(1).Less(2) {
		t.Error("expected 1 < 2")
	}
	if Value(2).Less(1) {
		t.Error("expected 2 not < 1")
	}
}
