package bloom

// Uniforms is the parameter set handed to the stamp pass each frame. The
// previous buffer is passed alongside it by the driver.
type Uniforms struct {
	// StopTime is the number of seconds since the last trigger.
	StopTime float64
	// StopRandomizer is re-rolled on every trigger and varies petal shape.
	StopRandomizer Vec2
	// Cursor is the normalized stamp position, Y down.
	Cursor Vec2
	// AspectRatio is viewport width over height.
	AspectRatio float64
	// ColorSeed selects the petal hue.
	ColorSeed Vec3
	// ClearMask is 0 on frames that must erase the buffer, 1 otherwise.
	ClearMask float64
	// FadeFactor scales the previous buffer before the petal is drawn.
	FadeFactor float64
}

// defaultUniforms returns the state before the first frame.
func defaultUniforms() Uniforms {
	return Uniforms{
		Cursor:      InitialPointer,
		AspectRatio: 1,
		ClearMask:   1,
		FadeFactor:  InitialFade,
	}
}

// restart begins a new stamp at cursor.
func (u *Uniforms) restart(cursor Vec2, randomizer Vec2, seed Vec3) {
	u.Cursor = cursor
	u.StopRandomizer = randomizer
	u.ColorSeed = seed
	u.StopTime = 0
	u.FadeFactor = FadeReset
}

// advance ages the current stamp by elapsed seconds and decays the fade.
func (u *Uniforms) advance(elapsed float64) {
	u.StopTime += elapsed
	u.FadeFactor *= DecayConstant
}

// fill writes the uniforms into a Kage uniform map. Names match the
// variables declared in stamp.kage; float32 slices avoid per-frame boxing of
// vector values.
func (u *Uniforms) fill(m map[string]any, buf *uniformBuffers) {
	buf.cursor[0] = float32(u.Cursor.X)
	buf.cursor[1] = float32(u.Cursor.Y)
	buf.randomizer[0] = float32(u.StopRandomizer.X)
	buf.randomizer[1] = float32(u.StopRandomizer.Y)
	buf.seed[0] = float32(u.ColorSeed.X)
	buf.seed[1] = float32(u.ColorSeed.Y)
	buf.seed[2] = float32(u.ColorSeed.Z)

	m["StopTime"] = float32(u.StopTime)
	m["StopRandomizer"] = buf.randomizer[:]
	m["Cursor"] = buf.cursor[:]
	m["Ratio"] = float32(u.AspectRatio)
	m["ColorSeed"] = buf.seed[:]
	m["Clean"] = float32(u.ClearMask)
	m["Fade"] = float32(u.FadeFactor)
	m["BloomDuration"] = float32(BloomDuration)
}

// uniformBuffers holds persistent backing arrays for vector uniforms.
type uniformBuffers struct {
	cursor     [2]float32
	randomizer [2]float32
	seed       [3]float32
}
