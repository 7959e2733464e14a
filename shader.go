package bloom

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// The stamp program uses //kage:unit pixels. Ebitengine works in
// premultiplied alpha and so does the stamp math, so no conversion is needed.

//go:embed stamp.kage
var stampShaderSrc []byte

// ShaderSource is the program text for the stamp pass. Kage has no
// user-supplied vertex stage; only the fragment text is configurable.
type ShaderSource struct {
	Fragment []byte
}

// DefaultShaderSource returns the embedded stamp program.
func DefaultShaderSource() ShaderSource {
	return ShaderSource{Fragment: stampShaderSrc}
}

// LoadShaderSource reads a Kage fragment program from path.
func LoadShaderSource(path string) (ShaderSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ShaderSource{}, fmt.Errorf("bloom: read shader %s: %w", path, err)
	}
	return ShaderSource{Fragment: data}, nil
}

// compileStampShader compiles src. A failure is returned rather than
// panicked on; the driver stays in idle rendering.
func compileStampShader(src ShaderSource) (*ebiten.Shader, error) {
	if len(src.Fragment) == 0 {
		return nil, fmt.Errorf("bloom: compile stamp shader: empty source")
	}
	s, err := ebiten.NewShader(src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("bloom: compile stamp shader: %w", err)
	}
	return s, nil
}
