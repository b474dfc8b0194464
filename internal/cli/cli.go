// Package cli dispatches zonectl commands. Device access goes through
// small interfaces so commands can be exercised against fakes.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"zonectl.app/zonectl/discovery"
	"zonectl.app/zonectl/internal/config"
	"zonectl.app/zonectl/upnp"
)

// Controller is the control surface of one speaker session.
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error
	Seek(ctx context.Context, position string) error
	Volume(ctx context.Context) (uint8, error)
	SetVolume(ctx context.Context, volume uint8) error
	PlaybackStatus(ctx context.Context) (upnp.PlaybackStatus, error)
	CurrentTrack(ctx context.Context) (upnp.TrackInfo, error)
	Queue(ctx context.Context) ([]upnp.QueueEntry, error)
	SetCurrentURI(ctx context.Context, uri string) error
	AddTrackToQueue(ctx context.Context, uri string) error
	ClearQueue(ctx context.Context) error
	EnterQueue(ctx context.Context) error
	EndExternalControl(ctx context.Context) error
}

// Lister runs one discovery pass.
type Lister interface {
	Discover(window, readTimeout time.Duration) ([]discovery.Device, error)
}

type App struct {
	Out    io.Writer
	Log    zerolog.Logger
	Config config.Config
	Lister Lister
	// Connect opens a session with the device at addr.
	Connect func(ctx context.Context, addr netip.Addr) (Controller, error)
}

const Usage = `usage: zonectl <command> [arguments]

commands:
  discover                        list devices on the network
  status <device>                 playback state
  track <device>                  current track info
  queue <device>                  list the play queue
  play | pause <device>           start or pause playback
  next | prev <device>            move within the queue
  seek <device> <hh:mm:ss>        jump to a position in the current track
  volume <device> [0-100]         get or set the volume
  play-uri <device> <uri>         play straight from a URI
  queue-add <device> <uri>        append a track to the queue
  queue-clear <device>            remove all queued tracks
  enter-queue <device>            switch playback to the queue
  release <device>                end third-party control sessions

<device> is an IPv4 address or an alias from the config file.`

// Run executes one command line, already stripped of the program name and
// global flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("no command given\n\n" + Usage)
	}

	command, rest := args[0], args[1:]
	if command == "discover" {
		return a.discover(rest)
	}

	if len(rest) < 1 {
		return errors.Errorf("%s: device argument required", command)
	}
	addr, err := a.Config.Resolve(rest[0])
	if err != nil {
		return err
	}
	ctl, err := a.Connect(ctx, addr)
	if err != nil {
		return errors.Wrapf(err, "connect to %s", rest[0])
	}

	switch command {
	case "status":
		return a.status(ctx, ctl)
	case "track":
		return a.track(ctx, ctl)
	case "queue":
		return a.queue(ctx, ctl)
	case "play":
		return ctl.Play(ctx)
	case "pause":
		return ctl.Pause(ctx)
	case "next":
		return ctl.NextTrack(ctx)
	case "prev":
		return ctl.PreviousTrack(ctx)
	case "seek":
		if len(rest) < 2 {
			return errors.New("seek: position argument required, as hh:mm:ss")
		}
		return ctl.Seek(ctx, rest[1])
	case "volume":
		return a.volume(ctx, ctl, rest[1:])
	case "play-uri":
		if len(rest) < 2 {
			return errors.New("play-uri: uri argument required")
		}
		if err := ctl.SetCurrentURI(ctx, rest[1]); err != nil {
			return err
		}
		return ctl.Play(ctx)
	case "queue-add":
		if len(rest) < 2 {
			return errors.New("queue-add: uri argument required")
		}
		return ctl.AddTrackToQueue(ctx, rest[1])
	case "queue-clear":
		return ctl.ClearQueue(ctx)
	case "enter-queue":
		return ctl.EnterQueue(ctx)
	case "release":
		return ctl.EndExternalControl(ctx)
	default:
		return errors.Errorf("unknown command %q\n\n%s", command, Usage)
	}
}

func (a *App) discover(args []string) error {
	if len(args) != 0 {
		return errors.New("discover takes no arguments")
	}

	a.Log.Info().Dur("window", a.Config.Window()).Msg("searching for devices")
	found, err := a.Lister.Discover(a.Config.Window(), a.Config.ReadTimeout())
	if err != nil {
		return errors.Wrap(err, "discover")
	}
	if len(found) == 0 {
		fmt.Fprintln(a.Out, "no devices found")
		return nil
	}

	for _, dev := range found {
		fmt.Fprintf(a.Out, "%s\t%s\t%s\t%s\n", dev.Addr, dev.RoomName, dev.FriendlyName, dev.UID)
	}
	return nil
}

func (a *App) status(ctx context.Context, ctl Controller) error {
	status, err := ctl.PlaybackStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s (%s)\n", status.State, status.Status)
	return nil
}

func (a *App) track(ctx context.Context, ctl Controller) error {
	track, err := ctl.CurrentTrack(ctx)
	if err != nil {
		return err
	}
	if track.Title != "" {
		fmt.Fprintf(a.Out, "%s - %s\n", track.Title, track.Artist)
	}
	fmt.Fprintf(a.Out, "%s / %s\n", track.Position, track.Duration)
	fmt.Fprintf(a.Out, "%s\n", track.URI)
	return nil
}

func (a *App) queue(ctx context.Context, ctl Controller) error {
	entries, err := ctl.Queue(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "queue is empty")
		return nil
	}
	for i, entry := range entries {
		title := entry.Title
		if title == "" {
			title = entry.URI
		}
		fmt.Fprintf(a.Out, "%3d  %s", i+1, title)
		if entry.Artist != "" {
			fmt.Fprintf(a.Out, " - %s", entry.Artist)
		}
		if entry.Duration != "" {
			fmt.Fprintf(a.Out, " (%s)", entry.Duration)
		}
		fmt.Fprintln(a.Out)
	}
	return nil
}

func (a *App) volume(ctx context.Context, ctl Controller, args []string) error {
	if len(args) == 0 {
		volume, err := ctl.Volume(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "%d\n", volume)
		return nil
	}

	parsed, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return errors.Errorf("volume: %q is not a number between 0 and 100", args[0])
	}
	return ctl.SetVolume(ctx, uint8(parsed))
}
