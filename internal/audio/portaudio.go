package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

const defaultFramesPerBuffer = 320 // 20ms @ 16kHz

// PortAudioSource captures through PortAudio (CoreAudio, ALSA, WASAPI).
type PortAudioSource struct {
	Input           string
	FramesPerBuffer int
}

// DeviceName returns the name of the input device Open would use.
func (s *PortAudioSource) DeviceName(_ context.Context) (string, error) {
	if err := portaudio.Initialize(); err != nil {
		return "", &DeviceError{Backend: "portaudio", Err: err}
	}
	defer func() { _ = portaudio.Terminate() }()

	device, err := s.resolve()
	if err != nil {
		return "", &DeviceError{Backend: "portaudio", Err: err}
	}
	return device.Name, nil
}

// Open starts a mono float32 input stream on the resolved device.
func (s *PortAudioSource) Open(_ context.Context, sampleRate int, onChunk func([]float32)) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &DeviceError{Backend: "portaudio", Err: fmt.Errorf("initialize: %w", err)}
	}

	device, err := s.resolve()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, &DeviceError{Backend: "portaudio", Err: err}
	}

	frames := s.FramesPerBuffer
	if frames <= 0 {
		frames = defaultFramesPerBuffer
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = frames

	ps := &portAudioStream{onChunk: onChunk}
	stream, err := portaudio.OpenStream(params, ps.process)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, &DeviceError{Backend: "portaudio", Err: fmt.Errorf("open stream on %q: %w", device.Name, err)}
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, &DeviceError{Backend: "portaudio", Err: fmt.Errorf("start stream: %w", err)}
	}

	ps.stream = stream
	return ps, nil
}

func (s *PortAudioSource) resolve() (*portaudio.DeviceInfo, error) {
	input := strings.TrimSpace(strings.ToLower(s.Input))
	if input == "" || input == "default" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for _, device := range devices {
		if device.MaxInputChannels > 0 && strings.Contains(strings.ToLower(device.Name), input) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("audio.input %q did not match any device", input)
}

type portAudioStream struct {
	stream  *portaudio.Stream
	onChunk func([]float32)
	closed  atomic.Bool
}

// process runs on the PortAudio callback thread.
func (s *portAudioStream) process(in []float32) {
	if s.closed.Load() || s.onChunk == nil {
		return
	}
	chunk := make([]float32, len(in))
	copy(chunk, in)
	s.onChunk(chunk)
}

// Close stops the stream; Stop returns after the last callback has finished.
func (s *portAudioStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	var errs []error
	if err := s.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop stream: %w", err))
	}
	if err := s.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminate: %w", err))
	}
	return errors.Join(errs...)
}

// ListPortAudioDevices returns input-capable PortAudio devices.
func ListPortAudioDevices(_ context.Context) ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defaultName := ""
	if def, err := portaudio.DefaultInputDevice(); err == nil {
		defaultName = def.Name
	}

	out := make([]Device, 0, len(devices))
	for _, device := range devices {
		if device.MaxInputChannels <= 0 {
			continue
		}
		hostAPI := ""
		if device.HostApi != nil {
			hostAPI = device.HostApi.Name
		}
		out = append(out, Device{
			ID:          device.Name,
			Description: hostAPI,
			State:       "available",
			Available:   true,
			Default:     device.Name == defaultName,
		})
	}
	return out, nil
}
