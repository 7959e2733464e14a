package mic

import (
	"fmt"
	"sync"

	"github.com/bloomfx/bloom"
	"github.com/gordonklaus/portaudio"
)

// Device is a source of mono float32 sample frames.
type Device interface {
	// Start begins capture. The returned channel is closed by Stop.
	Start() (<-chan []float32, error)
	// Stop ends capture and closes the channel.
	Stop() error
	// SampleRate returns the capture rate in Hz.
	SampleRate() int
}

// PortAudioDevice captures the default input device through PortAudio.
type PortAudioDevice struct {
	sampleRate int
	stream     *portaudio.Stream

	// mu guards audioChan and isStreaming against the PortAudio callback,
	// which may still fire while Stop runs.
	mu          sync.Mutex
	audioChan   chan []float32
	isStreaming bool
}

// NewPortAudioDevice initializes PortAudio for capture at sampleRate.
func NewPortAudioDevice(sampleRate int) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("mic: initialize portaudio: %w", err)
	}
	return &PortAudioDevice{sampleRate: sampleRate}, nil
}

// audioCallback runs on PortAudio's thread. The input slice is reused by
// PortAudio, so it is copied before being handed off.
func (m *PortAudioDevice) audioCallback(in []float32) {
	frame := make([]float32, len(in))
	copy(frame, in)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isStreaming {
		return
	}
	select {
	case m.audioChan <- frame:
	default:
		bloom.Logger().Debug("mic: consumer behind, dropping frame", "samples", len(in))
	}
}

// Start opens a mono stream on the default input device.
func (m *PortAudioDevice) Start() (<-chan []float32, error) {
	m.audioChan = make(chan []float32, 16)

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		close(m.audioChan)
		return nil, fmt.Errorf("mic: default host api: %w", err)
	}

	params := portaudio.LowLatencyParameters(host.DefaultInputDevice, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)

	stream, err := portaudio.OpenStream(params, m.audioCallback)
	if err != nil {
		close(m.audioChan)
		return nil, fmt.Errorf("mic: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		close(m.audioChan)
		return nil, fmt.Errorf("mic: start stream: %w", err)
	}
	m.stream = stream
	m.mu.Lock()
	m.isStreaming = true
	m.mu.Unlock()
	return m.audioChan, nil
}

// Stop closes the stream and terminates PortAudio.
func (m *PortAudioDevice) Stop() error {
	if !m.endStream() {
		return nil
	}
	if err := m.stream.Stop(); err != nil {
		bloom.Logger().Warn("mic: stop stream", "err", err)
	}
	if err := m.stream.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("mic: close stream: %w", err)
	}
	return portaudio.Terminate()
}

// endStream turns off delivery and closes the channel. Callbacks arriving
// afterwards drop their frames. It reports whether a stream was running.
func (m *PortAudioDevice) endStream() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isStreaming {
		return false
	}
	m.isStreaming = false
	close(m.audioChan)
	return true
}

// SampleRate returns the capture rate in Hz.
func (m *PortAudioDevice) SampleRate() int { return m.sampleRate }

// NullDevice produces no samples. It stands in when no microphone can be
// opened, so callers never need a nil check.
type NullDevice struct {
	sampleRate int
	once       sync.Once
	ch         chan []float32
}

// NewNullDevice returns a silent device reporting sampleRate.
func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{sampleRate: sampleRate}
}

// Start returns a channel that stays empty until Stop.
func (n *NullDevice) Start() (<-chan []float32, error) {
	n.ch = make(chan []float32)
	return n.ch, nil
}

// Stop closes the channel.
func (n *NullDevice) Stop() error {
	n.once.Do(func() {
		if n.ch != nil {
			close(n.ch)
		}
	})
	return nil
}

// SampleRate returns the reported rate in Hz.
func (n *NullDevice) SampleRate() int { return n.sampleRate }

// Open returns a PortAudio device, or a NullDevice with a warning when the
// microphone is unavailable.
func Open(sampleRate int) Device {
	dev, err := NewPortAudioDevice(sampleRate)
	if err != nil {
		bloom.Logger().Warn("mic: unavailable, using silent device", "err", err)
		return NewNullDevice(sampleRate)
	}
	return dev
}
