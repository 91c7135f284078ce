package synth

import (
	"encoding/binary"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/voxelstream/mediabridge/internal/decoder"
)

func TestProduceAudioSineBlock(t *testing.T) {
	e := New(Config{SampleRate: 48000, Channels: 2, ToneHz: 1000}, zap.NewNop())

	var gotData []byte
	var gotFrames uint32
	e.SetAudioCallbacks(decoder.AudioCallbacks{
		Play: func(data []byte, frames uint32, pts int64) {
			gotData = append([]byte(nil), data...)
			gotFrames = frames
		},
	})

	const frames = 480
	pcm := make([]byte, frames*2*2)
	phase := e.produceAudio(pcm, frames, 0)

	if gotFrames != frames {
		t.Fatalf("frames = %d, want %d", gotFrames, frames)
	}
	if e.AudioFramesProduced() != frames {
		t.Errorf("AudioFramesProduced = %d", e.AudioFramesProduced())
	}
	if phase < 0 || phase > 2*math.Pi {
		t.Errorf("phase = %v, want wrapped into [0, 2π]", phase)
	}

	// First sample is sin(0) = 0 on both channels; a quarter period in
	// (48000/1000/4 = 12 frames) the tone is near its peak.
	if v := int16(binary.LittleEndian.Uint16(gotData[0:])); v != 0 {
		t.Errorf("first sample = %d, want 0", v)
	}
	left := int16(binary.LittleEndian.Uint16(gotData[12*4:]))
	right := int16(binary.LittleEndian.Uint16(gotData[12*4+2:]))
	if left < 15000 {
		t.Errorf("quarter-period sample = %d, want near amplitude", left)
	}
	if left != right {
		t.Errorf("channels differ: %d vs %d", left, right)
	}
}

func TestProduceAudioPhaseContinuity(t *testing.T) {
	e := New(Config{SampleRate: 44100, Channels: 1, ToneHz: 440}, zap.NewNop())

	var blocks [][]byte
	e.SetAudioCallbacks(decoder.AudioCallbacks{
		Play: func(data []byte, frames uint32, pts int64) {
			blocks = append(blocks, append([]byte(nil), data...))
		},
	})

	pcm := make([]byte, 100*2)
	phase := e.produceAudio(pcm, 100, 0)
	e.produceAudio(pcm, 100, phase)

	// The second block must continue the waveform, not restart at sin(0).
	step := 2 * math.Pi * 440 / 44100
	want := int16(16000 * math.Sin(100*step))
	got := int16(binary.LittleEndian.Uint16(blocks[1][0:]))
	if diff := int(got) - int(want); diff < -1 || diff > 1 {
		t.Errorf("second block starts at %d, want %d (continuous phase)", got, want)
	}
}

func TestProduceVideoCycle(t *testing.T) {
	e := New(DefaultConfig(), zap.NewNop())

	const stride, lines = 16, 4
	buf := make([]byte, stride*lines)
	var order []string
	handle := &struct{}{}

	e.SetVideoCallbacks(decoder.VideoCallbacks{
		Lock: func(planes *decoder.PlaneSet) decoder.Picture {
			order = append(order, "lock")
			planes[0] = buf
			return handle
		},
		Unlock: func(pic decoder.Picture, planes *decoder.PlaneSet) {
			order = append(order, "unlock")
			if pic != decoder.Picture(handle) {
				t.Error("unlock received a different picture handle")
			}
		},
		Display: func(pic decoder.Picture) {
			order = append(order, "display")
		},
	})

	e.produceVideo(stride, lines, 3)

	if len(order) != 3 || order[0] != "lock" || order[1] != "unlock" || order[2] != "display" {
		t.Fatalf("callback order = %v", order)
	}
	if e.FramesProduced() != 1 {
		t.Errorf("FramesProduced = %d", e.FramesProduced())
	}

	// Alpha is opaque in every written pixel and the gradient moved with tick.
	if buf[3] != 0xFF {
		t.Error("alpha not set")
	}
	if buf[0] != byte(0+3) || buf[1] != byte(0+3) || buf[2] != 3 {
		t.Errorf("pixel 0 = % X, want gradient offset by tick", buf[0:3])
	}
}

func TestProduceVideoSkipsOnNilPlane(t *testing.T) {
	e := New(DefaultConfig(), zap.NewNop())

	e.SetVideoCallbacks(decoder.VideoCallbacks{
		Lock:    func(planes *decoder.PlaneSet) decoder.Picture { return nil },
		Unlock:  func(pic decoder.Picture, planes *decoder.PlaneSet) { t.Error("unlock called") },
		Display: func(pic decoder.Picture) { t.Error("display called") },
	})

	e.produceVideo(16, 4, 0)
	if e.FramesProduced() != 0 {
		t.Errorf("FramesProduced = %d, want 0 on protocol failure", e.FramesProduced())
	}
}
