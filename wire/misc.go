package wire

import "google.golang.org/protobuf/encoding/protowire"

// ClientLoggedOff mirrors CMsgClientLoggedOff.
type ClientLoggedOff struct {
	Eresult int32
}

func UnmarshalClientLoggedOff(data []byte) (*ClientLoggedOff, error) {
	m := &ClientLoggedOff{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		if num == 1 {
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Eresult = int32(v)
			data = data[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
	}
	return m, nil
}

// ClientUpdateMachineAuth mirrors CMsgClientUpdateMachineAuth (sentry file
// push from the backend).
type ClientUpdateMachineAuth struct {
	Bytes      []byte
	Filename   string
	Offset     uint32
	Cubtowrite uint32
}

func UnmarshalClientUpdateMachineAuth(data []byte) (*ClientUpdateMachineAuth, error) {
	m := &ClientUpdateMachineAuth{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Bytes = append([]byte{}, v...)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Filename = string(v)
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Offset = uint32(v)
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Cubtowrite = uint32(v)
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return m, nil
}

// ClientUpdateMachineAuthResponse mirrors the ack sent back after storing a
// new sentry file.
type ClientUpdateMachineAuthResponse struct {
	ShaFile      []byte
	GetLastError uint32
	Offset       uint32
	Cubwrote     uint32
	Filename     string
}

func (m *ClientUpdateMachineAuthResponse) Marshal() []byte {
	var b []byte
	if len(m.ShaFile) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ShaFile)
	}
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.GetLastError))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Offset))
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Cubwrote))
	if m.Filename != "" {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, m.Filename)
	}
	return b
}

// ClientHeartBeat mirrors CMsgClientHeartBeat (no fields in practice).
type ClientHeartBeat struct{}

func (ClientHeartBeat) Marshal() []byte { return nil }

// ClientLogOff mirrors CMsgClientLogOff (no fields needed here).
type ClientLogOff struct{}

func (ClientLogOff) Marshal() []byte { return nil }

// GamePlayed is one entry of CMsgClientGamesPlayed.games_played.
type GamePlayed struct {
	GameID uint64
}

// ClientGamesPlayed mirrors CMsgClientGamesPlayed.
type ClientGamesPlayed struct {
	GamesPlayed []GamePlayed
}

func (m *ClientGamesPlayed) Marshal() []byte {
	var b []byte
	for _, g := range m.GamesPlayed {
		var entry []byte
		entry = protowire.AppendTag(entry, 1, protowire.VarintType)
		entry = protowire.AppendVarint(entry, g.GameID)
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// Multi mirrors CMsgMulti.
type Multi struct {
	MessageBody  []byte
	SizeUnzipped int32
}

func UnmarshalMulti(data []byte) (*Multi, error) {
	m := &Multi{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.MessageBody = append([]byte{}, v...)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.SizeUnzipped = int32(v)
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return m, nil
}

func (m *Multi) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, m.MessageBody)
	if m.SizeUnzipped != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.SizeUnzipped))
	}
	return b
}
