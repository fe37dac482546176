package wire

import "google.golang.org/protobuf/encoding/protowire"

// PersonaStateFriend is one entry of CMsgClientPersonaState.friends.
type PersonaStateFriend struct {
	FriendID        uint64
	PersonaState    uint32
	PlayerName      string
	GamePlayedAppID uint32
	GameName        string
	LastLogoff      uint32
	LastLogon       uint32
}

func unmarshalPersonaStateFriend(data []byte) (PersonaStateFriend, error) {
	var f PersonaStateFriend
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return f, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.FriendID = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.PersonaState = uint32(v)
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.PlayerName = string(v)
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.GamePlayedAppID = uint32(v)
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.GameName = string(v)
			data = data[n:]
		case 6:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.LastLogoff = uint32(v)
			data = data[n:]
		case 7:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.LastLogon = uint32(v)
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return f, nil
}

// ClientPersonaState mirrors CMsgClientPersonaState.
type ClientPersonaState struct {
	StatusFlags uint32
	Friends     []PersonaStateFriend
}

func UnmarshalClientPersonaState(data []byte) (*ClientPersonaState, error) {
	m := &ClientPersonaState{}
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
			m.StatusFlags = uint32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			f, err := unmarshalPersonaStateFriend(v)
			if err != nil {
				return nil, err
			}
			m.Friends = append(m.Friends, f)
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

// ClientChangeStatus mirrors CMsgClientChangeStatus.
type ClientChangeStatus struct {
	PersonaState     uint32
	PersonaSetByUser bool
}

func (m *ClientChangeStatus) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.PersonaState))
	if m.PersonaSetByUser {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

// ClientRequestFriendData mirrors CMsgClientRequestFriendData.
type ClientRequestFriendData struct {
	PersonaStateRequested uint32
	Friends               []uint64
}

func (m *ClientRequestFriendData) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.PersonaStateRequested))
	for _, f := range m.Friends {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, f)
	}
	return b
}

// FriendsListFriend is one entry of CMsgClientFriendsList.friends.
type FriendsListFriend struct {
	SteamID      uint64
	Relationship uint32
}

func unmarshalFriendsListFriend(data []byte) (FriendsListFriend, error) {
	var f FriendsListFriend
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return f, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.SteamID = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			f.Relationship = uint32(v)
			data = data[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return f, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return f, nil
}

// ClientFriendsList mirrors CMsgClientFriendsList.
type ClientFriendsList struct {
	Incremental bool
	Friends     []FriendsListFriend
}

func UnmarshalClientFriendsList(data []byte) (*ClientFriendsList, error) {
	m := &ClientFriendsList{}
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
			m.Incremental = v != 0
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			f, err := unmarshalFriendsListFriend(v)
			if err != nil {
				return nil, err
			}
			m.Friends = append(m.Friends, f)
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

// ClientFriendMsgIncoming mirrors CMsgClientFriendMsgIncoming.
type ClientFriendMsgIncoming struct {
	SteamIDFrom        uint64
	ChatEntryType      int32
	Message            []byte
	FromLimitedAccount bool
	ServerTimestamp    uint32
}

func UnmarshalClientFriendMsgIncoming(data []byte) (*ClientFriendMsgIncoming, error) {
	m := &ClientFriendMsgIncoming{}
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
			m.SteamIDFrom = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.ChatEntryType = int32(v)
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Message = append([]byte{}, v...)
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.FromLimitedAccount = v != 0
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.ServerTimestamp = uint32(v)
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

// ClientFriendMsg mirrors CMsgClientFriendMsg.
type ClientFriendMsg struct {
	SteamID       uint64
	ChatEntryType int32
	Message       []byte
}

func (m *ClientFriendMsg) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.SteamID)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(m.ChatEntryType)))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Message)
	return b
}

// ClientAddFriend mirrors CMsgClientAddFriend.
type ClientAddFriend struct {
	SteamIDToAdd uint64
}

func (m *ClientAddFriend) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.SteamIDToAdd)
	return b
}

// ClientAddFriendResponse mirrors CMsgClientAddFriendResponse.
type ClientAddFriendResponse struct {
	Eresult          int32
	SteamIDAdded     uint64
	PersonaNameAdded string
}

func UnmarshalClientAddFriendResponse(data []byte) (*ClientAddFriendResponse, error) {
	m := &ClientAddFriendResponse{}
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
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.SteamIDAdded = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.PersonaNameAdded = string(v)
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

// ClientRemoveFriend mirrors CMsgClientRemoveFriend.
type ClientRemoveFriend struct {
	FriendID uint64
}

func (m *ClientRemoveFriend) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.FriendID)
	return b
}

// UserNotification is one entry of CMsgClientUserNotifications.notifications.
type UserNotification struct {
	Type  uint32
	Count uint32
}

func unmarshalUserNotification(data []byte) (UserNotification, error) {
	var n UserNotification
	for len(data) > 0 {
		num, typ, l := protowire.ConsumeTag(data)
		if l < 0 {
			return n, protowire.ParseError(l)
		}
		data = data[l:]
		switch num {
		case 1:
			v, l := protowire.ConsumeVarint(data)
			if l < 0 {
				return n, protowire.ParseError(l)
			}
			n.Type = uint32(v)
			data = data[l:]
		case 2:
			v, l := protowire.ConsumeVarint(data)
			if l < 0 {
				return n, protowire.ParseError(l)
			}
			n.Count = uint32(v)
			data = data[l:]
		default:
			l = protowire.ConsumeFieldValue(num, typ, data)
			if l < 0 {
				return n, protowire.ParseError(l)
			}
			data = data[l:]
		}
	}
	return n, nil
}

// ClientUserNotifications mirrors CMsgClientUserNotifications.
type ClientUserNotifications struct {
	Notifications []UserNotification
}

func UnmarshalClientUserNotifications(data []byte) (*ClientUserNotifications, error) {
	m := &ClientUserNotifications{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		if num == 1 {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			notif, err := unmarshalUserNotification(v)
			if err != nil {
				return nil, err
			}
			m.Notifications = append(m.Notifications, notif)
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

// ClientItemAnnouncements mirrors CMsgClientItemAnnouncements.
type ClientItemAnnouncements struct {
	CountNewItems uint32
}

func UnmarshalClientItemAnnouncements(data []byte) (*ClientItemAnnouncements, error) {
	m := &ClientItemAnnouncements{}
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
			m.CountNewItems = uint32(v)
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
