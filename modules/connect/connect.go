// Package connect is the module that attaches a connection.Supervisor to a
// freshly constructed Client and keeps it connected for the Client's
// lifetime, reconnecting whenever the supervisor reports GotEOF or Error.
package connect

import (
	"context"
	"net/http"
	"time"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/connection"
	"github.com/steamkit-go/cmframework/directory"
)

const reconnectDelay = 5 * time.Second

// Module implements client.Module.
type Module struct {
	resolver      *directory.Resolver
	httpClient    *http.Client
	transportType string
	cellID        int32
}

// New constructs a connect Module factory bound to the process-wide
// directory resolver, HTTP client, preferred transport and cell ID.
func New(resolver *directory.Resolver, httpClient *http.Client, transportType string, cellID int32) func() client.Module {
	return func() client.Module {
		return &Module{resolver: resolver, httpClient: httpClient, transportType: transportType, cellID: cellID}
	}
}

func (m *Module) Init(c *client.Client) error {
	c.AttachConnection(connection.New(m.resolver, m.httpClient, m.transportType))
	return nil
}

func (m *Module) Run(ctx context.Context, c *client.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.Connect(ctx, m.cellID); err != nil {
			c.Logger.Error("connect: failed to connect", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-c.Connection.StatusChan():
		}
	}
}
