package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/application"
	"chirper/internal/domain/entity"
)

const handlerTimeout = 10 * time.Second

// Gateway bridges websocket events to ChatService and fans results back out
// through the hub. Validation failures go to the origin connection only as
// connect_error; successful mutations broadcast to the room group.
type Gateway struct {
	Hub    *Hub
	Chat   *application.ChatService
	Logger *logrus.Logger

	upgrader websocket.Upgrader
}

func NewGateway(hub *Hub, chat *application.ChatService, logger *logrus.Logger, checkOrigin func(*http.Request) bool) *Gateway {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Gateway{
		Hub:    hub,
		Chat:   chat,
		Logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Handle upgrades the HTTP request and runs the connection's read loop.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.Logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := newClient(uuid.NewString(), conn)
	g.Hub.Register(client)
	go client.writePump()
	g.readPump(client)
}

func (g *Gateway) readPump(client *Client) {
	defer g.disconnect(client)

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			g.sendError(client, "malformed event")
			continue
		}
		g.dispatch(client, env)
	}
}

func (g *Gateway) dispatch(client *Client, env Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch env.Event {
	case EventUserConnect:
		g.onConnect(ctx, client, env.Data)
	case EventRoomEnter:
		g.onRoomEnter(ctx, client, env.Data)
	case EventRoomLeave:
		g.onRoomLeave(ctx, client, env.Data)
	case EventMessageNew:
		g.onMessageNew(ctx, client, env.Data)
	case EventMessageDelete:
		g.onMessageDelete(ctx, client, env.Data)
	case EventMessageEdit:
		g.onMessageEdit(ctx, client, env.Data)
	default:
		g.sendError(client, "unknown event")
	}
}

func (g *Gateway) onConnect(ctx context.Context, client *Client, data json.RawMessage) {
	var p connectPayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(client, "malformed event")
		return
	}
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		g.sendError(client, "invalid user id")
		return
	}
	if _, err := g.Chat.Connect(ctx, userID, client.ID); err != nil {
		g.sendError(client, err.Error())
	}
}

func (g *Gateway) onRoomEnter(ctx context.Context, client *Client, data json.RawMessage) {
	roomID, ok := g.roomID(client, data)
	if !ok {
		return
	}
	room, err := g.Chat.EnterRoom(ctx, client.ID, roomID)
	if err != nil {
		g.sendError(client, err.Error())
		return
	}
	g.Hub.Join(room.ID.Hex(), client)
	g.broadcastPresence(ctx, room.ID)
}

func (g *Gateway) onRoomLeave(ctx context.Context, client *Client, data json.RawMessage) {
	roomID, ok := g.roomID(client, data)
	if !ok {
		return
	}
	room, err := g.Chat.LeaveRoom(ctx, client.ID, roomID)
	if err != nil {
		g.sendError(client, err.Error())
		return
	}
	g.Hub.Leave(room.ID.Hex(), client)
	g.broadcastPresence(ctx, room.ID)
}

func (g *Gateway) onMessageNew(ctx context.Context, client *Client, data json.RawMessage) {
	var p newMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(client, "malformed event")
		return
	}
	roomID, err := primitive.ObjectIDFromHex(p.RoomID)
	if err != nil {
		g.sendError(client, "invalid room id")
		return
	}
	m, err := g.Chat.NewMessage(ctx, client.ID, roomID, p.Body)
	if err != nil {
		g.sendError(client, err.Error())
		return
	}
	g.Hub.BroadcastRoom(p.RoomID, EventRoomNewMessage, gin.H{"message": m})
}

func (g *Gateway) onMessageDelete(ctx context.Context, client *Client, data json.RawMessage) {
	var p deleteMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(client, "malformed event")
		return
	}
	roomID, err := primitive.ObjectIDFromHex(p.RoomID)
	if err != nil {
		g.sendError(client, "invalid room id")
		return
	}
	messageID, err := primitive.ObjectIDFromHex(p.MessageID)
	if err != nil {
		g.sendError(client, "invalid message id")
		return
	}
	if _, err := g.Chat.DeleteMessage(ctx, client.ID, roomID, messageID); err != nil {
		g.sendError(client, err.Error())
		return
	}
	g.Hub.BroadcastRoom(p.RoomID, EventRoomDeleteMessage, gin.H{"messageId": p.MessageID})
}

func (g *Gateway) onMessageEdit(ctx context.Context, client *Client, data json.RawMessage) {
	var p editMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(client, "malformed event")
		return
	}
	roomID, err := primitive.ObjectIDFromHex(p.RoomID)
	if err != nil {
		g.sendError(client, "invalid room id")
		return
	}
	messageID, err := primitive.ObjectIDFromHex(p.MessageID)
	if err != nil {
		g.sendError(client, "invalid message id")
		return
	}
	m, err := g.Chat.EditMessage(ctx, client.ID, roomID, messageID, p.Body)
	if err != nil {
		g.sendError(client, err.Error())
		return
	}
	g.Hub.BroadcastRoom(p.RoomID, EventRoomEditMessage, gin.H{"message": m})
}

// disconnect sweeps the user out of every online list and refreshes presence
// in the rooms it left.
func (g *Gateway) disconnect(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	g.Hub.Unregister(client)
	rooms, err := g.Chat.Disconnect(ctx, client.ID)
	if err != nil {
		g.Logger.WithError(err).WithField("socket_id", client.ID).Warn("disconnect cleanup failed")
	}
	for _, roomID := range rooms {
		g.broadcastPresence(ctx, roomID)
	}
	_ = client.conn.Close()
}

func (g *Gateway) broadcastPresence(ctx context.Context, roomID primitive.ObjectID) {
	room, users, err := g.Chat.OnlineUsers(ctx, roomID)
	if err != nil {
		g.Logger.WithError(err).WithField("room_id", roomID.Hex()).Warn("presence lookup failed")
		return
	}
	g.Hub.BroadcastRoom(room.ID.Hex(), EventRoomSetUsers, gin.H{
		"roomId": room.ID.Hex(),
		"users":  publicUsers(users),
	})
}

func (g *Gateway) roomID(client *Client, data json.RawMessage) (primitive.ObjectID, bool) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.sendError(client, "malformed event")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(p.RoomID)
	if err != nil {
		g.sendError(client, "invalid room id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (g *Gateway) sendError(client *Client, message string) {
	g.Hub.SendTo(client.ID, EventConnectError, errorPayload{Message: message})
}

// publicUsers trims the presence payload down to what clients render.
func publicUsers(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":        u.ID.Hex(),
			"username":  u.Username,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"avatarUrl": u.AvatarURL,
		})
	}
	return out
}
