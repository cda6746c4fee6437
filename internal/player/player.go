package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	"karolbroda.com/karaoke/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisRootIface   = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"

	// a position further than this from the extrapolated one is a seek
	seekThresholdMs = 1500
)

type Event int

const (
	EventTrackChanged Event = iota
	EventSeeked
	EventPlaybackStateChanged
)

func (e Event) String() string {
	switch e {
	case EventTrackChanged:
		return "track-changed"
	case EventSeeked:
		return "seeked"
	case EventPlaybackStateChanged:
		return "playback-state-changed"
	default:
		return "unknown"
	}
}

type EventData struct {
	Type       Event
	Track      *track.Info
	PositionMs uint64
	Playing    bool
}

type State struct {
	Track      *track.Info
	PositionMs uint64
	Playing    bool

	lastPositionUpdate time.Time
	lastPositionMs     uint64
}

// DetectSeek reports whether newPositionMs is too far from where playback
// should be given the last known position and elapsed wall time.
func (s *State) DetectSeek(newPositionMs uint64, now time.Time) bool {
	if s.lastPositionUpdate.IsZero() {
		return false
	}

	expected := int64(s.lastPositionMs)
	if s.Playing {
		expected += now.Sub(s.lastPositionUpdate).Milliseconds()
	}

	diff := int64(newPositionMs) - expected
	if diff < 0 {
		diff = -diff
	}

	return diff > seekThresholdMs
}

func (s *State) UpdatePosition(positionMs uint64, now time.Time) {
	s.PositionMs = positionMs
	s.lastPositionMs = positionMs
	s.lastPositionUpdate = now
}

type Service struct {
	bus        *dbus.Conn
	service    string
	signalChan chan *dbus.Signal
	stopChan   chan struct{}
	stopOnce   sync.Once
	eventChan  chan EventData
	state      *State
	mu         sync.RWMutex
}

func NewService(bus *dbus.Conn, mprisService string) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}

	return &Service{
		bus:       bus,
		service:   mprisService,
		eventChan: make(chan EventData, 16),
		state:     &State{},
	}, nil
}

func (s *Service) Name() string {
	return s.service
}

// Start subscribes to property and seek signals. Polling works without it,
// so callers may treat a failure as a warning.
func (s *Service) Start() error {
	s.signalChan = make(chan *dbus.Signal, 10)
	s.stopChan = make(chan struct{})

	s.bus.Signal(s.signalChan)

	matchPropertiesChanged := fmt.Sprintf(
		"type='signal',sender='%s',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='%s'",
		s.service, mprisPath,
	)
	matchSeeked := fmt.Sprintf(
		"type='signal',sender='%s',interface='%s',member='Seeked',path='%s'",
		s.service, mprisPlayerIface, mprisPath,
	)

	for _, match := range []string{matchPropertiesChanged, matchSeeked} {
		if err := s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, match).Err; err != nil {
			return fmt.Errorf("failed to add signal match: %w", err)
		}
	}

	go s.signalLoop()

	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		if s.stopChan != nil {
			close(s.stopChan)
		}
		if s.signalChan != nil {
			s.bus.RemoveSignal(s.signalChan)
		}
	})
}

func (s *Service) Events() <-chan EventData {
	return s.eventChan
}

func (s *Service) CurrentTrack() (*track.Info, error) {
	prop, err := s.bus.Object(s.service, mprisPath).GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	metadata, ok := prop.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", prop.Value())
	}

	info := infoFromMetadata(metadata)
	if !info.IsValid() {
		return nil, fmt.Errorf("no track metadata from %s", s.service)
	}

	return info, nil
}

// PositionMillis asks the player for its current position.
func (s *Service) PositionMillis() (uint64, error) {
	prop, err := s.bus.Object(s.service, mprisPath).GetProperty(mprisPlayerIface + ".Position")
	if err != nil {
		return 0, fmt.Errorf("failed to get position property: %w", err)
	}

	positionMicroseconds, ok := prop.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected position type %T", prop.Value())
	}

	return microsToMillis(positionMicroseconds), nil
}

func (s *Service) Playing() (bool, error) {
	prop, err := s.bus.Object(s.service, mprisPath).GetProperty(mprisPlayerIface + ".PlaybackStatus")
	if err != nil {
		return false, fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := prop.Value().(string)
	if !ok {
		return false, fmt.Errorf("unexpected playback status type %T", prop.Value())
	}

	return status == "Playing", nil
}

// Poll refreshes track and position state, emitting track change and seek
// events for anything the signal subscription missed.
func (s *Service) Poll() error {
	trk, err := s.CurrentTrack()
	if err != nil {
		return err
	}

	pos, err := s.PositionMillis()
	if err != nil {
		return err
	}

	playing, err := s.Playing()
	if err != nil {
		return err
	}

	now := time.Now()

	s.mu.Lock()
	seekDetected := s.state.DetectSeek(pos, now)
	s.state.UpdatePosition(pos, now)
	s.state.Playing = playing
	changed := !trk.IsSameTrack(s.state.Track)
	if changed {
		s.state.Track = trk
	}
	s.mu.Unlock()

	if changed {
		s.emitEvent(EventData{Type: EventTrackChanged, Track: trk, PositionMs: pos, Playing: playing})
		return nil
	}

	if seekDetected {
		s.emitEvent(EventData{Type: EventSeeked, PositionMs: pos, Playing: playing})
	}

	return nil
}

func (s *Service) signalLoop() {
	for {
		select {
		case sig, ok := <-s.signalChan:
			if !ok {
				return
			}
			s.handleSignal(sig)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleSignal(sig *dbus.Signal) {
	if sig == nil {
		return
	}

	switch sig.Name {
	case "org.freedesktop.DBus.Properties.PropertiesChanged":
		s.handlePropertiesChanged(sig)
	case "org.mpris.MediaPlayer2.Player.Seeked":
		s.handleSeeked(sig)
	}
}

func (s *Service) handlePropertiesChanged(sig *dbus.Signal) {
	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != mprisPlayerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	if metadataVariant, exists := changedProps["Metadata"]; exists {
		if metadata, ok := metadataVariant.Value().(map[string]dbus.Variant); ok {
			s.applyTrack(infoFromMetadata(metadata))
		}
	}

	if playbackVariant, exists := changedProps["PlaybackStatus"]; exists {
		if status, ok := playbackVariant.Value().(string); ok {
			s.applyPlaybackStatus(status == "Playing")
		}
	}
}

func (s *Service) applyTrack(info *track.Info) {
	if !info.IsValid() {
		return
	}

	s.mu.Lock()
	if info.IsSameTrack(s.state.Track) {
		s.mu.Unlock()
		return
	}
	s.state.Track = info
	s.state.UpdatePosition(0, time.Now())
	s.mu.Unlock()

	log.WithFields(log.Fields{"service": s.service, "track": info.DisplayTitle()}).Debug("track changed")
	s.emitEvent(EventData{Type: EventTrackChanged, Track: info})
}

func (s *Service) applyPlaybackStatus(playing bool) {
	s.mu.Lock()
	s.state.Playing = playing
	s.state.lastPositionUpdate = time.Now()
	s.mu.Unlock()

	s.emitEvent(EventData{Type: EventPlaybackStateChanged, Playing: playing})
}

func (s *Service) handleSeeked(sig *dbus.Signal) {
	if len(sig.Body) < 1 {
		return
	}

	positionMicroseconds, ok := sig.Body[0].(int64)
	if !ok {
		return
	}

	pos := microsToMillis(positionMicroseconds)

	s.mu.Lock()
	s.state.UpdatePosition(pos, time.Now())
	s.mu.Unlock()

	s.emitEvent(EventData{Type: EventSeeked, PositionMs: pos})
}

func (s *Service) emitEvent(event EventData) {
	select {
	case s.eventChan <- event:
	default:
		log.WithField("event", event.Type.String()).Debug("dropped player event, channel full")
	}
}

// State returns a copy of the last observed player state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stateCopy := State{
		PositionMs: s.state.PositionMs,
		Playing:    s.state.Playing,
	}
	if s.state.Track != nil {
		trackCopy := *s.state.Track
		stateCopy.Track = &trackCopy
	}

	return stateCopy
}

func microsToMillis(us int64) uint64 {
	if us <= 0 {
		return 0
	}
	return uint64(us / 1_000)
}
