// Package embed builds the status card shown in the tracked chat message
// from a server snapshot. Building is pure: no I/O, no clock reads.
package embed

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/edgard/armastatus/internal/domain/model"
	"github.com/edgard/armastatus/internal/roster"
)

// ConnectPlaceholder is shown when the connect address is unknown.
const ConnectPlaceholder = "undefined:undefined"

// Labels holds the captions and fixed words of the status card.
type Labels struct {
	ServerName string
	Connect    string
	Contact    string
	Status     string
	Players    string
	Map        string
	Online     string
	Offline    string
	Unknown    string
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		ServerName: "Server name",
		Connect:    "Direct connect",
		Contact:    "TeamSpeak address",
		Status:     "Server status",
		Players:    "Players online",
		Map:        "Map",
		Online:     "✅ Online",
		Offline:    "❌ Offline",
		Unknown:    "Unknown",
	}
}

// Options carries the static presentation settings of the card.
type Options struct {
	AuthorName     string
	AuthorIconURL  string
	ContactAddress string
	Title          string
	Color          int
	Labels         Labels
}

// Build renders snapshot into a Display. An absent snapshot, or a snapshot
// with missing values, renders placeholders instead.
//
// The server counts as online when at least one player is listed. A reachable
// server with nobody on it therefore shows as offline, same as an unreachable one.
func Build(snapshot mo.Option[model.Snapshot], mappings []model.OrgMapping, opts Options, now time.Time) model.Display {
	labels := opts.Labels
	snap := snapshot.OrEmpty()

	playerCount := snap.PlayerCount()
	online := playerCount > 0

	status := labels.Offline
	if online {
		status = labels.Online
	}

	d := model.Display{
		AuthorName:    orDefault(opts.AuthorName, labels.Unknown),
		AuthorIconURL: opts.AuthorIconURL,
		Title:         opts.Title,
		Color:         opts.Color,
		Timestamp:     now,
		Online:        online,
		Fields: []model.Field{
			{Name: labels.ServerName, Value: orDefault(snap.Name, labels.Unknown), Inline: true},
			{Name: labels.Connect, Value: orDefault(snap.Connect, ConnectPlaceholder), Inline: true},
			{Name: labels.Contact, Value: orDefault(opts.ContactAddress, labels.Unknown), Inline: true},
			{Name: labels.Status, Value: status, Inline: true},
			{Name: labels.Players, Value: fmt.Sprintf("%d/%d", playerCount, snap.MaxPlayers), Inline: true},
			{Name: labels.Map, Value: orDefault(snap.Map, labels.Unknown), Inline: true},
		},
	}

	if playerCount > 0 {
		d.Sections = roster.Group(snap.Players, mappings, labels.Unknown)
	}

	return d
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
