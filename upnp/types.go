package upnp

import "fmt"

// TrackInfo describes the track a speaker is currently playing. Title and
// Artist come from the embedded DIDL-Lite metadata and are empty when the
// device does not report them.
type TrackInfo struct {
	Position string // elapsed play time, as hh:mm:ss
	Duration string // total track length, as hh:mm:ss
	URI      string // source the track is played from
	Title    string
	Artist   string
}

// PlaybackState is the transport state reported by a speaker. The set is
// closed: an unrecognized state string is a decode failure, never a new
// variant.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
	Transitioning
)

// ParsePlaybackState maps a raw transport-state string onto a
// PlaybackState. The mapping is total over the known firmware vocabulary
// and fails closed for everything else.
func ParsePlaybackState(raw string) (PlaybackState, error) {
	switch raw {
	case "STOPPED":
		return Stopped, nil
	case "PLAYING":
		return Playing, nil
	case "PAUSED_PLAYBACK":
		return Paused, nil
	case "TRANSITIONING":
		return Transitioning, nil
	default:
		return Stopped, &DecodeError{
			Element: "CurrentTransportState",
			Detail:  fmt.Sprintf("unknown state %q", raw),
			Err:     ErrUnexpectedValue,
		}
	}
}

func (p PlaybackState) String() string {
	switch p {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Transitioning:
		return "Transitioning"
	default:
		return "Stopped"
	}
}

// PlaybackStatus pairs the transport state with the raw transport status
// string reported alongside it (usually "OK").
type PlaybackStatus struct {
	State  PlaybackState
	Status string
}

// QueueEntry is one track in the play queue. Only the URI is guaranteed;
// duration, title, and artist are empty when the device omits them.
type QueueEntry struct {
	URI      string
	Duration string
	Title    string
	Artist   string
}
