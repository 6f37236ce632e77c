package bmi088

import (
	"math"
	"math/rand"
	"testing"
)

// The decoder tests follow the original driver-verification harness: draw
// inputs from the full register domain and assert the output invariants,
// then pin a few concrete datasheet values.

func TestCombine(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		msb := uint8(rng.Intn(256))
		lsb := uint8(rng.Intn(256))

		result := Combine(msb, lsb)
		if uint8(uint16(result)>>8) != msb {
			t.Fatalf("Combine(%#x, %#x): MSB not in high byte of %#x", msb, lsb, uint16(result))
		}
		if uint8(result&0xFF) != lsb {
			t.Fatalf("Combine(%#x, %#x): LSB not in low byte of %#x", msb, lsb, uint16(result))
		}
	}

	if got := Combine(0x80, 0x00); got != math.MinInt16 {
		t.Errorf("Combine(0x80, 0x00) = %d, want %d", got, math.MinInt16)
	}
	if got := Combine(0x7F, 0xFF); got != math.MaxInt16 {
		t.Errorf("Combine(0x7F, 0xFF) = %d, want %d", got, math.MaxInt16)
	}
}

func TestFIFOReadCount(t *testing.T) {
	for len0 := 0; len0 < 256; len0++ {
		for len1 := 0; len1 < 256; len1++ {
			count := FIFOReadCount(uint8(len0), uint8(len1))
			if count > 0x3FFF {
				t.Fatalf("FIFOReadCount(%#x, %#x) = %d exceeds the 14-bit counter", len0, len1, count)
			}
		}
	}

	// Reserved top bits of the high register must be ignored.
	if got := FIFOReadCount(0x12, 0xFF); got != 0x3F12 {
		t.Errorf("FIFOReadCount(0x12, 0xFF) = %#x, want 0x3f12", got)
	}
	if got := FIFOReadCount(0, 0); got != 0 {
		t.Errorf("FIFOReadCount(0, 0) = %d, want 0", got)
	}
}

func TestTemperature(t *testing.T) {
	// The 11-bit two's-complement reading spans [-1024, 1023] LSB, so the
	// decoded value must stay inside [-105, 150.875] degC.
	for msb := 0; msb < 256; msb++ {
		for lsb := 0; lsb < 256; lsb++ {
			temp := Temperature(uint8(msb), uint8(lsb))
			if math.IsNaN(float64(temp)) || math.IsInf(float64(temp), 0) {
				t.Fatalf("Temperature(%#x, %#x) is not finite", msb, lsb)
			}
			if temp < -105.0 || temp > 150.875 {
				t.Fatalf("Temperature(%#x, %#x) = %f out of range", msb, lsb, temp)
			}
		}
	}

	if got := Temperature(0, 0); got != 23.0 {
		t.Errorf("Temperature(0, 0) = %f, want 23.0", got)
	}
	// 0x08 * 8 = 64 LSB -> 64 * 0.125 + 23 = 31 degC.
	if got := Temperature(0x08, 0); got != 31.0 {
		t.Errorf("Temperature(0x08, 0) = %f, want 31.0", got)
	}
	// 0xFF * 8 + 0xFF / 32 = 2047 -> -1 LSB -> 22.875 degC.
	if got := Temperature(0xFF, 0xFF); got != 22.875 {
		t.Errorf("Temperature(0xFF, 0xFF) = %f, want 22.875", got)
	}
}

func TestProcessAccel(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		yRaw := int16(rng.Intn(1 << 16))
		zRaw := int16(rng.Intn(1 << 16))

		y, z := ProcessAccel(yRaw, zRaw)

		if yRaw == math.MinInt16 {
			if y != math.MaxInt16 {
				t.Fatalf("ProcessAccel: MinInt16 Y must saturate, got %d", y)
			}
		} else if y != -yRaw {
			t.Fatalf("ProcessAccel(%d, _): got y=%d", yRaw, y)
		}
		if zRaw == math.MinInt16 {
			if z != math.MaxInt16 {
				t.Fatalf("ProcessAccel: MinInt16 Z must saturate, got %d", z)
			}
		} else if z != -zRaw {
			t.Fatalf("ProcessAccel(_, %d): got z=%d", zRaw, z)
		}
	}
}

func TestProcessGyro(t *testing.T) {
	if _, _, _, ok := ProcessGyro(math.MinInt16, math.MinInt16, math.MinInt16); ok {
		t.Error("All-MinInt16 sample must be rejected as invalid")
	}

	x, y, z, ok := ProcessGyro(100, 200, -300)
	if !ok {
		t.Fatal("Valid sample rejected")
	}
	if x != 100 || y != -200 || z != 300 {
		t.Errorf("ProcessGyro(100, 200, -300) = (%d, %d, %d)", x, y, z)
	}

	// Partial MinInt16 samples are valid but saturate on the flipped axes.
	_, y, z, ok = ProcessGyro(0, math.MinInt16, math.MinInt16)
	if !ok {
		t.Fatal("Partially-invalid sample must still be accepted")
	}
	if y != math.MaxInt16 || z != math.MaxInt16 {
		t.Errorf("Expected saturated flips, got y=%d z=%d", y, z)
	}
}
