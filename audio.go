package dawai

// AudioSink accepts rendered audio for playback or capture. WriteAudio may
// block until the device has consumed the buffer. Device playback is a
// collaborator behind this interface; the synthesis core itself never
// touches a device.
type AudioSink interface {
	WriteAudio(buffer AudioBuffer) error
	Close() error
}

// AudioContext represents the audio playback environment of the system.
type AudioContext interface {
	Output() AudioSink
	Close() error
}
