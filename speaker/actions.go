package speaker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"zonectl.app/zonectl/upnp"
)

// Play starts playback of the current track.
func (s *Speaker) Play(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "Play", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Speed", Value: "1"},
	})
	return err
}

// Pause pauses playback.
func (s *Speaker) Pause(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "Pause", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

// CurrentTrack returns information about the track currently playing.
func (s *Speaker) CurrentTrack(ctx context.Context) (upnp.TrackInfo, error) {
	body, err := s.invoke(ctx, upnp.AVTransport, "GetPositionInfo", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	if err != nil {
		return upnp.TrackInfo{}, err
	}
	return upnp.DecodeTrackInfo(body)
}

// SetCurrentURI points the transport at a new source URI.
func (s *Speaker) SetCurrentURI(ctx context.Context, uri string) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "SetAVTransportURI", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "CurrentURI", Value: uri},
		{Name: "CurrentURIMetaData", Value: ""},
	})
	return err
}

// Volume returns the current volume, 0-100.
func (s *Speaker) Volume(ctx context.Context) (uint8, error) {
	body, err := s.invoke(ctx, upnp.RenderingControl, "GetVolume", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
	})
	if err != nil {
		return 0, err
	}
	return upnp.DecodeVolume(body)
}

// SetVolume changes the volume. Values above 100 are rejected before any
// request is made.
func (s *Speaker) SetVolume(ctx context.Context, volume uint8) error {
	if volume > 100 {
		return errors.Wrapf(ErrInvalidVolume, "got %d", volume)
	}
	_, err := s.invoke(ctx, upnp.RenderingControl, "SetVolume", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Channel", Value: "Master"},
		{Name: "DesiredVolume", Value: strconv.Itoa(int(volume))},
	})
	return err
}

// PlaybackStatus returns the current transport state and status.
func (s *Speaker) PlaybackStatus(ctx context.Context) (upnp.PlaybackStatus, error) {
	body, err := s.invoke(ctx, upnp.AVTransport, "GetTransportInfo", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	if err != nil {
		return upnp.PlaybackStatus{}, err
	}
	return upnp.DecodePlaybackStatus(body)
}

// Seek starts playing from the given position in the current track, as
// hh:mm:ss.
func (s *Speaker) Seek(ctx context.Context, position string) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "Seek", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Unit", Value: "REL_TIME"},
		{Name: "Target", Value: position},
	})
	return err
}

// Queue returns the tracks in the play queue.
func (s *Speaker) Queue(ctx context.Context) ([]upnp.QueueEntry, error) {
	body, err := s.invoke(ctx, upnp.ContentDirectory, "Browse", []upnp.Arg{
		{Name: "ObjectID", Value: "Q:0"},
		{Name: "BrowseFlag", Value: "BrowseDirectChildren"},
		{Name: "Filter", Value: "*"},
		{Name: "StartingIndex", Value: "0"},
		{Name: "RequestedCount", Value: "100"},
		{Name: "SortCriteria", Value: ""},
	})
	if err != nil {
		return nil, err
	}
	return upnp.DecodeQueue(body)
}

// EnterQueue switches the transport to the speaker's own queue. Tracks in
// the queue cannot be played until the queue has been entered.
func (s *Speaker) EnterQueue(ctx context.Context) error {
	return s.SetCurrentURI(ctx, fmt.Sprintf("x-rincon-queue:%s#0", s.uid))
}

// AddTrackToQueue appends a track to the end of the queue.
func (s *Speaker) AddTrackToQueue(ctx context.Context, uri string) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "AddURIToQueue", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "EnqueuedURI", Value: uri},
		{Name: "EnqueuedURIMetaData", Value: ""},
		{Name: "DesiredFirstTrackNumberEnqueued", Value: "0"},
		{Name: "EnqueueAsNext", Value: "0"},
	})
	return err
}

// NextTrack skips to the next track in the queue. The device reports an
// error when there is no next track or the queue has not been entered.
func (s *Speaker) NextTrack(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "Next", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

// PreviousTrack goes back to the previous track in the queue.
func (s *Speaker) PreviousTrack(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "Previous", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

// ClearQueue removes every track from the queue.
func (s *Speaker) ClearQueue(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "RemoveAllTracksFromQueue", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}

// EndExternalControl cuts off any third-party service currently driving
// the speaker, e.g. a streaming app session.
func (s *Speaker) EndExternalControl(ctx context.Context) error {
	_, err := s.invoke(ctx, upnp.AVTransport, "EndDirectControlSession", []upnp.Arg{
		{Name: "InstanceID", Value: "0"},
	})
	return err
}
