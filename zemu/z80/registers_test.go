package z80

import (
	"testing"
)

func TestPair_low(t *testing.T) {
	tests := []struct {
		name string
		p    Pair
		want uint8
	}{
		{"Returns low byte", Pair(0xABCD), 0xCD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Low(); got != tt.want {
				t.Errorf("Pair.Low() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPair_high(t *testing.T) {
	tests := []struct {
		name string
		p    Pair
		want uint8
	}{
		{"Returns high byte", Pair(0xABCD), 0xAB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.High(); got != tt.want {
				t.Errorf("Pair.High() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPair_word(t *testing.T) {
	tests := []struct {
		name string
		p    Pair
		want uint16
	}{
		{"Gets the internal value", Pair(0xBEEF), 0xBEEF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Word(); got != tt.want {
				t.Errorf("Pair.Word() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPair_setWord(t *testing.T) {
	p := Pair(0xFFFF)
	p.SetWord(0)

	if p.Word() != 0 {
		t.Fail()
	}
}

func TestPair_setHigh(t *testing.T) {
	p := Pair(0xFFFF)
	p.SetHigh(1)

	if p.Word() != 0x01FF {
		t.Fail()
	}
}

func TestPair_setLow(t *testing.T) {
	p := Pair(0xFFFF)
	p.SetLow(1)

	if p.Word() != 0xFF01 {
		t.Fail()
	}
}
