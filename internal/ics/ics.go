// Package ics exports calendar events as an iCalendar (RFC 5545) feed.
package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/example/staff-calendar/internal/calendar"
)

const (
	// DefaultProductID identifies the exporter in PRODID.
	DefaultProductID = "-//staff-calendar//weekly export//EN"
	// UIDDomain is appended to every event UID.
	UIDDomain = "staff-calendar"

	floatingLayout = "20060102T150405"
)

// ErrNoEvents is returned by Encode for an empty event list; a VCALENDAR
// must carry at least one component.
var ErrNoEvents = errors.New("ics: no events to export")

// Options tunes the export.
type Options struct {
	ProductID string
	// Location pins event times to a zone. When nil times are written as
	// floating local times, matching how they are stored.
	Location *time.Location
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

// Encode writes events as a VCALENDAR. Each event becomes one VEVENT whose
// attendees are listed in the description.
func Encode(w io.Writer, events []calendar.EventRecord, opts Options) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	stamp := opts.Now().UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, opts.ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, event := range events {
		component, err := eventComponent(event, stamp, opts.Location)
		if err != nil {
			return err
		}
		cal.Children = append(cal.Children, component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("ics: encode: %w", err)
	}
	return nil
}

func eventComponent(event calendar.EventRecord, stamp time.Time, loc *time.Location) (*ical.Component, error) {
	key, err := calendar.ClassifyRecord(calendar.KindEvent, event)
	if err != nil {
		return nil, fmt.Errorf("ics: event %q: %w", event.Title, err)
	}

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, UID(event))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	vevent.Props.SetText(ical.PropSummary, event.Title)
	setTime(vevent.Props, ical.PropDateTimeStart, key.Start, loc)
	setTime(vevent.Props, ical.PropDateTimeEnd, key.End, loc)
	if len(event.Employees) > 0 {
		vevent.Props.SetText(ical.PropDescription, "Participants: "+strings.Join(event.Employees, ", "))
	}
	if created, err := calendar.ParseTimestamp(event.Create); err == nil && loc != nil {
		// CREATED must be UTC, so it needs a real zone to convert from.
		vevent.Props.SetDateTime(ical.PropCreated, inLocation(created, loc).UTC())
	}
	return vevent.Component, nil
}

// setTime writes a naive wall-clock instant either as a floating time or in loc.
func setTime(props ical.Props, name string, naive time.Time, loc *time.Location) {
	if loc != nil {
		props.SetDateTime(name, inLocation(naive, loc))
		return
	}
	prop := ical.NewProp(name)
	prop.Value = naive.Format(floatingLayout)
	props.Set(prop)
}

func inLocation(naive time.Time, loc *time.Location) time.Time {
	return time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), 0, 0, loc)
}

// UID is stable for a stored event and content-derived otherwise.
func UID(event calendar.EventRecord) string {
	if event.ID != 0 {
		return "event-" + strconv.FormatInt(event.ID, 10) + "@" + UIDDomain
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{event.Title, event.Start, event.End, strings.Join(event.Employees, ",")}, "\x1e")))
	return "event-" + hex.EncodeToString(sum[:8]) + "@" + UIDDomain
}
