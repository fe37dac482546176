// Package wire implements the small set of protobuf-shaped messages the CM
// protocol needs, hand-encoded with protowire instead of a generated
// package (none of the retrieved source carries the .proto catalog, and the
// spec treats the message catalog as shape-only).
package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// JobIDNone is the sentinel used for "no job id" on both jobid_source and
// jobid_target.
const JobIDNone uint64 = math.MaxUint64

// ProtoBufHeader mirrors CMsgProtoBufHeader's fields used by this client.
type ProtoBufHeader struct {
	SteamID         uint64
	ClientSessionID int32
	JobIDSource     uint64
	JobIDTarget     uint64
	TargetJobName   string
	Eresult         int32
	HaveEresult     bool
}

func NewProtoBufHeader() *ProtoBufHeader {
	return &ProtoBufHeader{JobIDSource: JobIDNone, JobIDTarget: JobIDNone}
}

func (h *ProtoBufHeader) Marshal() []byte {
	var b []byte
	if h.SteamID != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, h.SteamID)
	}
	if h.ClientSessionID != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(h.ClientSessionID)))
	}
	if h.JobIDSource != 0 && h.JobIDSource != JobIDNone {
		b = protowire.AppendTag(b, 10, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, h.JobIDSource)
	}
	if h.JobIDTarget != 0 && h.JobIDTarget != JobIDNone {
		b = protowire.AppendTag(b, 11, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, h.JobIDTarget)
	}
	if h.TargetJobName != "" {
		b = protowire.AppendTag(b, 12, protowire.BytesType)
		b = protowire.AppendString(b, h.TargetJobName)
	}
	if h.HaveEresult {
		b = protowire.AppendTag(b, 14, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(h.Eresult)))
	}
	return b
}

func UnmarshalProtoBufHeader(data []byte) (*ProtoBufHeader, error) {
	h := NewProtoBufHeader()
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
			h.SteamID = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.ClientSessionID = int32(v)
			data = data[n:]
		case 10:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.JobIDSource = v
			data = data[n:]
		case 11:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.JobIDTarget = v
			data = data[n:]
		case 12:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.TargetJobName = string(v)
			data = data[n:]
		case 14:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.Eresult = int32(v)
			h.HaveEresult = true
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return h, nil
}
