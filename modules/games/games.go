// Package games lets an account announce which games it is currently
// playing.
package games

import (
	"context"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/wire"
)

// SetGamesPlayed tells Steam which games the account is currently playing.
// Pass an empty slice to stop playing.
func SetGamesPlayed(ctx context.Context, c *client.Client, appIDs []uint32) error {
	games := make([]wire.GamePlayed, len(appIDs))
	for i, id := range appIDs {
		games[i] = wire.GamePlayed{GameID: uint64(id)}
	}
	body := (&wire.ClientGamesPlayed{GamesPlayed: games}).Marshal()
	return c.SendPacket(ctx, message.EMsgClientGamesPlayed, body)
}
