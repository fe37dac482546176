// Package login implements the CM login driver: sending CMsgClientLogon,
// interpreting CMsgClientLogonResponse, and servicing sentry-file pushes via
// CMsgClientUpdateMachineAuth.
package login

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"net"
	"time"

	"github.com/tidwall/gjson"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/config"
	"github.com/steamkit-go/cmframework/connection"
	"github.com/steamkit-go/cmframework/datafile"
	"github.com/steamkit-go/cmframework/keyvalue"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/modules/steamguard"
	"github.com/steamkit-go/cmframework/waiter"
	"github.com/steamkit-go/cmframework/whiteboard"
	"github.com/steamkit-go/cmframework/wire"
)

// Status is the login driver's whiteboard slot.
type Status int

const (
	StatusLoggedOut Status = iota
	StatusSentClientLogon
	StatusWaitForRestart
	StatusLogonComplete
)

// obfuscatedPrivateIPXOR has no known purpose; preserved bit-for-bit.
const obfuscatedPrivateIPXOR = 0xBAADF00D

const (
	clientOSTypeLinux     = -203
	clientLanguageEnglish = "english"
	clientProtocolVersion = message.ProtoVersion
)

const (
	eresultOK                              = 1
	eresultAccountLogonDenied              = 63
	eresultAccountLogonDeniedNeedTwoFactor = 85
	eresultInvalidLoginAuthCode            = 65
	eresultTwoFactorCodeMismatch           = 88
)

// Module implements client.Module.
type Module struct {
	workDir string
}

// New constructs a login Module rooted at workDir (for machine identity).
func New(workDir string) func() client.Module {
	return func() client.Module { return &Module{workDir: workDir} }
}

func (m *Module) Init(c *client.Client) error {
	whiteboard.Set(c.Whiteboard, StatusLoggedOut)
	return nil
}

func (m *Module) Run(ctx context.Context, c *client.Client) {
	sub := messageboard.Subscribe[client.IncomingPacket](c.Messageboard)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.progress(ctx, c, sub)

		w := waiter.New(
			waiter.ChanItem(c.Connection.StatusChan()),
			waiter.MessageboardItem(sub),
		)
		deregister := c.Cancel.Register(w)
		err := w.WaitTimeout(ctx, 5*time.Second)
		deregister()
		if err != nil {
			return
		}
	}
}

func (m *Module) progress(ctx context.Context, c *client.Client, sub *messageboard.Subscription[client.IncomingPacket]) {
	for {
		env, ok := sub.Pop()
		if !ok {
			break
		}
		switch env.Packet.EMsg {
		case message.EMsgClientUpdateMachineAuth:
			m.handleMachineAuth(ctx, c, env.Packet)
		case message.EMsgClientLogOnResponse:
			m.handleLogonResponse(c, env.Packet)
		case message.EMsgClientLoggedOff:
			m.handleLoggedOff(c, env.Packet)
		}
	}

	if c.Connection.CurrentStatus() != connection.StatusConnected {
		return
	}

	status, _ := whiteboard.Get[Status](c.Whiteboard)
	if status == StatusLoggedOut {
		m.sendClientLogon(ctx, c)
	}
}

func (m *Module) sendClientLogon(ctx context.Context, c *client.Client) {
	creds, err := config.Load(c.AccountName, c.DataFile)
	if err != nil {
		c.Logger.Error("login: no credentials available", "error", err)
		whiteboard.Set(c.Whiteboard, StatusWaitForRestart)
		return
	}

	machineID, err := client.MachineIdentity(m.workDir)
	if err != nil {
		c.Logger.Warn("login: failed to load machine identity", "error", err)
	}

	ip := obfuscatedPrivateIP()
	logon := &wire.ClientLogon{
		AccountName:                creds.AccountName,
		Password:                   creds.Password,
		LoginKey:                   creds.LoginKey,
		ProtocolVersion:            clientProtocolVersion,
		ClientOSType:               clientOSTypeLinux,
		ClientLanguage:             clientLanguageEnglish,
		ShouldRememberPassword:     true,
		SupportsRateLimitResponse:  true,
		MachineID:                  keyvalue.BuildMachineID(machineID, machineID, machineID),
		MachineName:                "cmframework",
		ObfuscatedPrivateIP:        &wire.IPv4{V4: ip},
		DeprecatedObfuscatedPrivIP: ip,
	}

	if hash, ok := sentryHash(c.DataFile); ok {
		logon.ShaSentryfile = hash
		logon.EresultSentryfile = eresultOK
	} else {
		logon.EresultSentryfile = 9 // FileNotFound
	}
	logon.HaveEresultSentryfile = true

	if code, ok := whiteboard.Get[steamguard.Code](c.Whiteboard); ok && code.Value != "" {
		logon.TwoFactorCode = code.Value
	}

	if err := c.SendPacket(ctx, message.EMsgClientLogon, logon.Marshal()); err != nil {
		c.Logger.Error("login: failed to send ClientLogon", "error", err)
		return
	}
	whiteboard.Set(c.Whiteboard, StatusSentClientLogon)
}

func (m *Module) handleLogonResponse(c *client.Client, pkt *message.Packet) {
	resp, err := wire.UnmarshalClientLogonResponse(pkt.Body)
	if err != nil {
		c.Logger.Error("login: failed to decode ClientLogonResponse", "error", err)
		return
	}

	switch resp.Eresult {
	case eresultOK:
		steamguard.Clear(c.AccountName)
		whiteboard.Set(c.Whiteboard, client.SessionInfo{
			SteamID:   pkt.Header.SteamID,
			SessionID: pkt.Header.ClientSessionID,
			CellID:    resp.CellID,
		})
		whiteboard.Set(c.Whiteboard, StatusLogonComplete)
		if resp.LegacyOutOfGameHeartbeatSeconds > 0 {
			c.LaunchFiber("heartbeat", func() {
				m.heartbeatLoop(c, time.Duration(resp.LegacyOutOfGameHeartbeatSeconds)*time.Second)
			})
		}
	case eresultAccountLogonDenied, eresultAccountLogonDeniedNeedTwoFactor, eresultInvalidLoginAuthCode, eresultTwoFactorCodeMismatch:
		creds, credErr := config.Load(c.AccountName, c.DataFile)
		if credErr == nil && steamguard.AutoCode(c.Whiteboard, creds.SharedSecret) {
			whiteboard.Set(c.Whiteboard, StatusLoggedOut)
			return
		}
		steamguard.RegisterAccount(c.AccountName)
		whiteboard.Set(c.Whiteboard, StatusWaitForRestart)
	default:
		c.Logger.Error("login: logon denied", "eresult", resp.Eresult)
		whiteboard.Set(c.Whiteboard, StatusWaitForRestart)
	}
}

func (m *Module) handleLoggedOff(c *client.Client, pkt *message.Packet) {
	off, err := wire.UnmarshalClientLoggedOff(pkt.Body)
	if err != nil {
		c.Logger.Error("login: failed to decode ClientLoggedOff", "error", err)
		return
	}
	c.Logger.Info("login: logged off", "eresult", off.Eresult)
	whiteboard.Set(c.Whiteboard, StatusWaitForRestart)
}

func (m *Module) heartbeatLoop(c *client.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		status, _ := whiteboard.Get[Status](c.Whiteboard)
		if status != StatusLogonComplete {
			return
		}
		if err := c.SendPacket(context.Background(), message.EMsgClientHeartBeat, wire.ClientHeartBeat{}.Marshal()); err != nil {
			c.Logger.Warn("login: heartbeat failed", "error", err)
			return
		}
	}
}

func (m *Module) handleMachineAuth(ctx context.Context, c *client.Client, pkt *message.Packet) {
	auth, err := wire.UnmarshalClientUpdateMachineAuth(pkt.Body)
	if err != nil {
		c.Logger.Error("login: failed to decode ClientUpdateMachineAuth", "error", err)
		return
	}

	blob, err := applySentryBytes(c.DataFile, auth.Offset, auth.Bytes)
	if err != nil {
		c.Logger.Error("login: failed to store sentry file", "error", err)
	}
	sum := sha1.Sum(blob)

	resp := &wire.ClientUpdateMachineAuthResponse{
		ShaFile:  sum[:],
		Offset:   auth.Offset,
		Cubwrote: auth.Cubtowrite,
		Filename: auth.Filename,
	}
	hdr := wire.NewProtoBufHeader()
	hdr.JobIDTarget = pkt.Header.JobIDSource
	if err := c.SendPacketWithHeader(ctx, message.EMsgClientUpdateMachineAuthResponse, hdr, resp.Marshal()); err != nil {
		c.Logger.Warn("login: failed to ack machine auth", "error", err)
	}
}

// sentryHash returns the SHA-1 of the sentry blob currently stored under
// SteamGuard.sentryFile, if any.
func sentryHash(file *datafile.File) ([]byte, bool) {
	blob, ok := loadSentryBlob(file)
	if !ok {
		return nil, false
	}
	sum := sha1.Sum(blob)
	return sum[:], true
}

func loadSentryBlob(file *datafile.File) ([]byte, bool) {
	var blob []byte
	var ok bool
	file.Examine(func(root gjson.Result) {
		v, found := datafile.GetItem(root, "SteamGuard", "sentryFile")
		if !found {
			return
		}
		b, err := base64.StdEncoding.DecodeString(v.String())
		if err != nil || len(b) == 0 {
			return
		}
		blob, ok = b, true
	})
	return blob, ok
}

// applySentryBytes writes data at offset into the account's sentry blob,
// growing it if offset+len(data) exceeds its current size, and persists the
// result under SteamGuard.sentryFile (base64). It returns the full blob
// after the patch, for hashing.
func applySentryBytes(file *datafile.File, offset uint32, data []byte) ([]byte, error) {
	var blob []byte
	err := file.Update(func(current string) (string, error) {
		existing := ""
		if v, found := datafile.GetItem(gjson.Parse(current), "SteamGuard", "sentryFile"); found {
			existing = v.String()
		}
		raw, decErr := base64.StdEncoding.DecodeString(existing)
		if decErr != nil {
			raw = nil
		}

		needed := int(offset) + len(data)
		if len(raw) < needed {
			grown := make([]byte, needed)
			copy(grown, raw)
			raw = grown
		}
		copy(raw[offset:], data)
		blob = raw

		return datafile.CreateItem(current, base64.StdEncoding.EncodeToString(raw), "SteamGuard", "sentryFile")
	})
	return blob, err
}

func obfuscatedPrivateIP() uint32 {
	return localIPv4() ^ obfuscatedPrivateIPXOR
}

func localIPv4() uint32 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		v4 := ipnet.IP.To4()
		if v4 == nil {
			continue
		}
		return binary.BigEndian.Uint32(v4)
	}
	return 0
}
