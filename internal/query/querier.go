// Package query queries the game server over the Steam A2S protocol and turns
// the replies into domain snapshots.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/rumblefrog/go-a2s"
	"github.com/samber/mo"

	"github.com/edgard/armastatus/internal/domain/model"
)

// DefaultTimeout bounds each A2S request when none is configured.
const DefaultTimeout = 5 * time.Second

// Target identifies the game server to query. QueryPort is where A2S
// answers; GamePort is what players connect to.
type Target struct {
	Host      string
	GamePort  int
	QueryPort int
}

// QueryAddress returns host:query_port.
func (t Target) QueryAddress() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.QueryPort))
}

// a2sClient is the part of *a2s.Client the querier uses.
type a2sClient interface {
	QueryInfo() (*a2s.ServerInfo, error)
	QueryPlayer() (*a2s.PlayerInfo, error)
	Close() error
}

type dialFunc func(address string, timeout time.Duration) (a2sClient, error)

func dialA2S(address string, timeout time.Duration) (a2sClient, error) {
	c, err := a2s.NewClient(address, a2s.TimeoutOption(timeout))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Querier turns A2S replies into snapshots and contains their failures.
type Querier struct {
	target  Target
	timeout time.Duration
	dial    dialFunc
	logger  *slog.Logger
}

// NewQuerier creates a Querier for target. A non-positive timeout selects
// DefaultTimeout.
func NewQuerier(target Target, timeout time.Duration, logger *slog.Logger) *Querier {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Querier{
		target:  target,
		timeout: timeout,
		dial:    dialA2S,
		logger:  logger.With("component", "server_query", "address", target.QueryAddress()),
	}
}

// Query asks the server for info and players once. Any failure (timeout,
// unreachable host, malformed reply) is logged and reported as an absent
// snapshot.
func (q *Querier) Query(ctx context.Context) mo.Option[model.Snapshot] {
	q.logger.DebugContext(ctx, "Querying server status...")
	startTime := time.Now()

	info, players, err := q.fetch(ctx)
	if err != nil {
		q.logger.WarnContext(ctx, "Failed to query server", "error", err, "duration", time.Since(startTime))
		return mo.None[model.Snapshot]()
	}

	snap := toSnapshot(q.target, info, players)
	q.logger.DebugContext(ctx, "Got server status",
		"name", snap.Name,
		"map", snap.Map,
		"players", snap.PlayerCount(),
		"max_players", snap.MaxPlayers,
		"duration", time.Since(startTime))

	return mo.Some(snap)
}

func (q *Querier) fetch(ctx context.Context) (*a2s.ServerInfo, *a2s.PlayerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	client, err := q.dial(q.target.QueryAddress(), q.timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create A2S client: %w", err)
	}
	defer func() { _ = client.Close() }()

	// go-a2s has no context support; closing the socket unblocks a pending read.
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	info, err := client.QueryInfo()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query server info: %w", contextErr(ctx, err))
	}

	players, err := client.QueryPlayer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query server players: %w", contextErr(ctx, err))
	}

	return info, players, nil
}

func contextErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func toSnapshot(target Target, info *a2s.ServerInfo, players *a2s.PlayerInfo) model.Snapshot {
	gamePort := target.GamePort
	if info.ExtendedServerInfo != nil && info.ExtendedServerInfo.Port != 0 {
		gamePort = int(info.ExtendedServerInfo.Port)
	}

	snap := model.Snapshot{
		Name:       info.Name,
		Connect:    net.JoinHostPort(target.Host, strconv.Itoa(gamePort)),
		Map:        info.Map,
		Game:       info.Game,
		Version:    info.Version,
		MaxPlayers: int(info.MaxPlayers),
		Bots:       int(info.Bots),
	}
	if players == nil {
		return snap
	}

	snap.Players = make([]model.Player, 0, len(players.Players))
	for _, p := range players.Players {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, model.Player{
			Name:     p.Name,
			Score:    int32(p.Score), //nolint:gosec // wire value
			Duration: time.Duration(float64(p.Duration) * float64(time.Second)),
		})
	}
	return snap
}
