// Package persona tracks friends' online status and game activity, and lets
// the local account publish its own status.
package persona

import (
	"context"
	"fmt"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/steamid"
	"github.com/steamkit-go/cmframework/waiter"
	"github.com/steamkit-go/cmframework/wire"
)

// State is a Steam user's online status.
type State uint32

const (
	StateOffline        State = 0
	StateOnline         State = 1
	StateBusy           State = 2
	StateAway           State = 3
	StateSnooze         State = 4
	StateLookingToTrade State = 5
	StateLookingToPlay  State = 6
	StateInvisible      State = 7
)

var stateNames = map[State]string{
	StateOffline:        "Offline",
	StateOnline:         "Online",
	StateBusy:           "Busy",
	StateAway:           "Away",
	StateSnooze:         "Snooze",
	StateLookingToTrade: "LookingToTrade",
	StateLookingToPlay:  "LookingToPlay",
	StateInvisible:      "Invisible",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

// requestedDataFlags asks for status, player name, presence, last-seen and
// game-extra-info in one shot.
const requestedDataFlags = 339

// StateEvent is broadcast on the client's messageboard for every friend
// entry of an incoming CMsgClientPersonaState.
type StateEvent struct {
	SteamID     steamid.SteamID
	StatusFlags uint32
	State       State
	PlayerName  string
	GameAppID   uint32
	GameName    string
	LastLogoff  uint32
	LastLogon   uint32
}

// Module implements client.Module.
type Module struct{}

func New() func() client.Module { return func() client.Module { return &Module{} } }

func (m *Module) Init(c *client.Client) error { return nil }

func (m *Module) Run(ctx context.Context, c *client.Client) {
	sub := messageboard.Subscribe[client.IncomingPacket](c.Messageboard)
	defer sub.Unsubscribe()

	for {
		for {
			env, ok := sub.Pop()
			if !ok {
				break
			}
			if env.Packet.EMsg == message.EMsgClientPersonaState {
				m.handle(c, env.Packet)
			}
		}

		w := waiter.New(waiter.MessageboardItem(sub))
		if err := w.WaitTimeout(ctx, 0); err != nil {
			return
		}
	}
}

func (m *Module) handle(c *client.Client, pkt *message.Packet) {
	state, err := wire.UnmarshalClientPersonaState(pkt.Body)
	if err != nil {
		c.Logger.Error("persona: failed to decode ClientPersonaState", "error", err)
		return
	}
	for _, f := range state.Friends {
		messageboard.Send(c.Messageboard, StateEvent{
			SteamID:     steamid.FromSteamID64(f.FriendID),
			StatusFlags: state.StatusFlags,
			State:       State(f.PersonaState),
			PlayerName:  f.PlayerName,
			GameAppID:   f.GamePlayedAppID,
			GameName:    f.GameName,
			LastLogoff:  f.LastLogoff,
			LastLogon:   f.LastLogon,
		})
	}
}

// SetState publishes the local account's online status.
func SetState(ctx context.Context, c *client.Client, state State) error {
	body := (&wire.ClientChangeStatus{PersonaState: uint32(state), PersonaSetByUser: true}).Marshal()
	return c.SendPacket(ctx, message.EMsgClientChangeStatus, body)
}

// RequestFriendData asks the server to push persona data for the given
// Steam users; responses arrive as StateEvent broadcasts.
func RequestFriendData(ctx context.Context, c *client.Client, friends []steamid.SteamID) error {
	ids := make([]uint64, len(friends))
	for i, f := range friends {
		ids[i] = f.ToSteamID64()
	}
	body := (&wire.ClientRequestFriendData{PersonaStateRequested: requestedDataFlags, Friends: ids}).Marshal()
	return c.SendPacket(ctx, message.EMsgClientRequestFriendData, body)
}
