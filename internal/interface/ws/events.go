package ws

import "encoding/json"

// Inbound event names.
const (
	EventUserConnect   = "USER:CONNECT"
	EventRoomEnter     = "ROOM:ENTER"
	EventRoomLeave     = "ROOM:LEAVE"
	EventMessageNew    = "MESSAGE:NEW"
	EventMessageDelete = "MESSAGE:DELETE"
	EventMessageEdit   = "MESSAGE:EDIT"
)

// Outbound event names.
const (
	EventRoomSetUsers      = "ROOM:SET_USERS"
	EventRoomNewMessage    = "ROOM:NEW_MESSAGE"
	EventRoomDeleteMessage = "ROOM:DELETE_MESSAGE"
	EventRoomEditMessage   = "ROOM:EDIT_MESSAGE"
	EventConnectError      = "connect_error"
)

// Envelope is the wire shape of every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type connectPayload struct {
	UserID string `json:"userId"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type newMessagePayload struct {
	RoomID string `json:"roomId"`
	Body   string `json:"body"`
}

type deleteMessagePayload struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
}

type editMessagePayload struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
	Body      string `json:"body"`
}

type errorPayload struct {
	Message string `json:"message"`
}
