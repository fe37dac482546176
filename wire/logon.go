package wire

import "google.golang.org/protobuf/encoding/protowire"

// IPv4 wraps the CMsgIPAddress shape used for obfuscated_private_ip.
type IPv4 struct {
	V4 uint32
}

func (ip *IPv4) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, ip.V4)
	return b
}

// ClientLogon mirrors the fields of CMsgClientLogon actually populated by
// the login driver.
type ClientLogon struct {
	AccountName                string
	Password                   string
	ProtocolVersion            uint32
	DeprecatedObfuscatedPrivIP uint32
	ObfuscatedPrivateIP        *IPv4
	CellID                     uint32
	ClientPackageVersion       uint32
	ClientLanguage             string
	ClientOSType               int32
	ShouldRememberPassword     bool
	LoginKey                   string
	Steam2TicketRequest        bool
	MachineID                  []byte
	AuthCode                   string
	MachineName                string
	TwoFactorCode              string
	ShaSentryfile              []byte
	EresultSentryfile          int32
	HaveEresultSentryfile      bool
	SupportsRateLimitResponse  bool
}

func (m *ClientLogon) Marshal() []byte {
	var b []byte
	appendString := func(num protowire.Number, s string) {
		if s == "" {
			return
		}
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	appendVarint := func(num protowire.Number, v uint64) {
		if v == 0 {
			return
		}
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}
	appendBytes := func(num protowire.Number, v []byte) {
		if len(v) == 0 {
			return
		}
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, v)
	}

	appendString(1, m.AccountName)
	appendString(2, m.Password)
	appendVarint(3, uint64(m.ProtocolVersion))
	if m.DeprecatedObfuscatedPrivIP != 0 {
		b = protowire.AppendTag(b, 4, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, m.DeprecatedObfuscatedPrivIP)
	}
	appendVarint(5, uint64(m.CellID))
	appendVarint(7, uint64(m.ClientPackageVersion))
	appendString(14, m.ClientLanguage)
	appendVarint(15, uint64(int64(m.ClientOSType)))
	if m.ShouldRememberPassword {
		b = protowire.AppendTag(b, 16, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	appendString(20, m.LoginKey)
	if m.Steam2TicketRequest {
		b = protowire.AppendTag(b, 21, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	appendBytes(25, m.MachineID)
	appendString(26, m.AuthCode)
	appendString(32, m.MachineName)
	appendString(33, m.TwoFactorCode)
	appendBytes(36, m.ShaSentryfile)
	if m.HaveEresultSentryfile {
		b = protowire.AppendTag(b, 37, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.EresultSentryfile)))
	}
	if m.SupportsRateLimitResponse {
		b = protowire.AppendTag(b, 39, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if m.ObfuscatedPrivateIP != nil {
		b = protowire.AppendTag(b, 46, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ObfuscatedPrivateIP.marshal())
	}
	return b
}

// ClientLogonResponse mirrors the CMsgClientLogonResponse fields read by the
// login driver.
type ClientLogonResponse struct {
	Eresult                         int32
	LegacyOutOfGameHeartbeatSeconds int32
	CellID                          uint32
}

func UnmarshalClientLogonResponse(data []byte) (*ClientLogonResponse, error) {
	m := &ClientLogonResponse{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Eresult = int32(v)
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.LegacyOutOfGameHeartbeatSeconds = int32(v)
			data = data[n:]
		case 8:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.CellID = uint32(v)
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
