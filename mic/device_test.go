package mic

import "testing"

func TestPortAudioCallbackAfterStreamEnds(t *testing.T) {
	m := &PortAudioDevice{sampleRate: DefaultSampleRate, audioChan: make(chan []float32, 2), isStreaming: true}

	in := []float32{0.1, 0.2}
	m.audioCallback(in)
	in[0] = 9
	if frame := <-m.audioChan; frame[0] != 0.1 {
		t.Errorf("frame[0] = %v, want 0.1 (callback must copy its input)", frame[0])
	}

	if !m.endStream() {
		t.Fatal("endStream should report a running stream")
	}
	if m.endStream() {
		t.Error("second endStream should report nothing to end")
	}

	// A late callback after the channel is closed drops the frame.
	m.audioCallback(in)
	if _, ok := <-m.audioChan; ok {
		t.Error("channel should be closed and empty")
	}
}

func TestNullDeviceStopTwice(t *testing.T) {
	n := NewNullDevice(DefaultSampleRate)
	ch, err := n.Start()
	if err != nil {
		t.Fatal(err)
	}
	n.Stop()
	n.Stop()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if n.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", n.SampleRate(), DefaultSampleRate)
	}
}
