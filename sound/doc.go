// Package sound streams converted PCM buffers to a playback device.
//
// Each WAV file is decoded and converted once, at load time, into the
// device format. A Stream then owns an immutable buffer, a cursor, a volume
// and a playback state. The audio thread pulls each Playing stream on every
// callback:
//
//	dev, err := sound.OpenDevice(sound.DeviceConfig{Format: sound.FormatStereo16})
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//
//	s, err := sound.Load(raw, dev.Format())
//	if err != nil {
//		return err
//	}
//	dev.Attach(s)
//	s.Resume()
//
// A stream that reaches its end stops and stays silent. To play a sound
// again, attach a Clone.
package sound
