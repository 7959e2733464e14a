package bloom

import (
	"math"
	"testing"
)

func TestDefaultUniforms(t *testing.T) {
	u := defaultUniforms()
	if u.FadeFactor != InitialFade {
		t.Errorf("FadeFactor = %v, want %v", u.FadeFactor, InitialFade)
	}
	if u.ClearMask != 1 {
		t.Errorf("ClearMask = %v, want 1", u.ClearMask)
	}
	if u.Cursor != InitialPointer {
		t.Errorf("Cursor = %v, want %v", u.Cursor, InitialPointer)
	}
}

func TestUniformsRestart(t *testing.T) {
	u := defaultUniforms()
	u.StopTime = 3.5
	u.FadeFactor = 0.2
	u.restart(Vec2{0.1, 0.9}, Vec2{0.3, 0.4}, Vec3{0.5, 0.6, 0.7})

	if u.StopTime != 0 {
		t.Errorf("StopTime = %v, want 0", u.StopTime)
	}
	if u.FadeFactor != FadeReset {
		t.Errorf("FadeFactor = %v, want %v", u.FadeFactor, FadeReset)
	}
	if u.Cursor != (Vec2{0.1, 0.9}) || u.StopRandomizer != (Vec2{0.3, 0.4}) || u.ColorSeed != (Vec3{0.5, 0.6, 0.7}) {
		t.Errorf("restart did not store cursor, randomizer and seed: %+v", u)
	}
}

func TestUniformsAdvance(t *testing.T) {
	u := defaultUniforms()
	u.restart(Vec2{0.5, 0.5}, Vec2{}, Vec3{})
	for range 100 {
		u.advance(0.016)
	}
	want := FadeReset * math.Pow(DecayConstant, 100)
	if math.Abs(u.FadeFactor-want) > 1e-12 {
		t.Errorf("FadeFactor = %v, want %v", u.FadeFactor, want)
	}
	if math.Abs(u.StopTime-1.6) > 1e-9 {
		t.Errorf("StopTime = %v, want 1.6", u.StopTime)
	}
}

func TestUniformsFill(t *testing.T) {
	u := Uniforms{
		StopTime:       1.5,
		StopRandomizer: Vec2{0.25, 0.75},
		Cursor:         Vec2{0.5, 0.125},
		AspectRatio:    2,
		ColorSeed:      Vec3{0.1, 0.2, 0.3},
		ClearMask:      0,
		FadeFactor:     0.5,
	}
	m := map[string]any{}
	var buf uniformBuffers
	u.fill(m, &buf)

	scalars := []struct {
		name string
		want float32
	}{
		{"StopTime", 1.5},
		{"Ratio", 2},
		{"Clean", 0},
		{"Fade", 0.5},
		{"BloomDuration", BloomDuration},
	}
	for _, tt := range scalars {
		got, ok := m[tt.name].(float32)
		if !ok || got != tt.want {
			t.Errorf("uniform %s = %v, want %v", tt.name, m[tt.name], tt.want)
		}
	}

	cursor, ok := m["Cursor"].([]float32)
	if !ok || len(cursor) != 2 || cursor[0] != 0.5 || cursor[1] != 0.125 {
		t.Errorf("Cursor = %v, want [0.5 0.125]", m["Cursor"])
	}
	seed, ok := m["ColorSeed"].([]float32)
	if !ok || len(seed) != 3 || seed[2] != float32(0.3) {
		t.Errorf("ColorSeed = %v, want [0.1 0.2 0.3]", m["ColorSeed"])
	}
	if r, ok := m["StopRandomizer"].([]float32); !ok || r[1] != 0.75 {
		t.Errorf("StopRandomizer = %v, want [0.25 0.75]", m["StopRandomizer"])
	}
}
