package app

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	identity "pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"
	"pharmacy_delivery_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// IdentityResolver maps the token subject onto a chat identity
type IdentityResolver interface {
	Resolve(ctx context.Context, accountID string) (identity.Identity, error)
}

// Subscriber per-identity live delivery feed
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error
}

// messageWriter write side of one websocket connection
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsClient serializes writes, the connection allows only one concurrent
// writer across the ping loop, the pubsub feed and request responses
type wsClient struct {
	conn messageWriter
	mu   sync.Mutex
}

func (c *wsClient) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// ChatWebsocketHandler websocket entry point of the messaging node
type ChatWebsocketHandler struct {
	convUC   *ConversationUseCase
	inboxUC  *InboxUseCase
	unreadUC *UnreadUseCase
	resolver IdentityResolver
	pubsub   Subscriber
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	convUC *ConversationUseCase,
	inboxUC *InboxUseCase,
	unreadUC *UnreadUseCase,
	resolver IdentityResolver,
	pubsub Subscriber,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		convUC:   convUC,
		inboxUC:  inboxUC,
		unreadUC: unreadUC,
		resolver: resolver,
		pubsub:   pubsub,
	}
}

// HandleConnection websocket connection lifecycle
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenAccount := conn.Locals(middlewares.TokenAccountID)
	accountID, ok := tokenAccount.(string)
	logger.Log.Info("websocket handle accountID", zap.String("accountID", accountID), zap.String("ok", strconv.FormatBool(ok)))

	client := &wsClient{conn: conn}

	viewer, err := h.resolver.Resolve(ctx, accountID)
	if err != nil {
		h.sendError(client, err.Error())
		conn.Close()
		return
	}

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("accountID", accountID))
		conn.Close()
		cancel()
	}()

	//client close is swallowed by fiber (surfaces as read err), keep a hook
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		logger.Log.Infof("Received PING:", appData)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	//subscribe to own delivery channel so counterpart sends arrive live
	if h.pubsub != nil {
		channel := repository.ChannelFor(viewer.ID)
		h.pubsub.Subscribe(ctxClose, channel, func(resp domain.WSResponse) {
			h.sendResponse(client, resp)
		})
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.write(websocket.PingMessage, []byte("ping message")); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
				logger.Log.Infof("%s Ping sent", viewer.ID)
			case <-ctxClose.Done():
				logger.Log.Infof("Ping goroutine cancelled for viewer:", viewer.ID)
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, viewer, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, client *wsClient, viewer identity.Identity, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, viewer, msg)
	default:
		h.sendError(client, "unknown action")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, client *wsClient, viewer identity.Identity, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	//append a message to the pair's single conversation
	case string(domain.SendMessage):
		envelope, err := Compose(req.Text, req.Atts, req.ReplyTo)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		sent, err := h.convUC.SendMessage(ctx, viewer, req.PartnerID, envelope)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = sent.ID
			resp.Payload["at"] = sent.At
		}

	//project the viewer's inbox, newest activity first
	case string(domain.GetInbox):
		summaries, err := h.inboxUC.Project(ctx, viewer)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["threads"] = summaries
		}

	//viewer-relative log of one counterparty
	case string(domain.GetThread):
		msgs, err := h.convUC.Thread(ctx, viewer, req.PartnerID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["messages"] = msgs
		}

	//move the watermark to now, unread drops to zero
	case string(domain.MarkSeen):
		at, err := h.unreadUC.MarkSeenNow(ctx, viewer)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["seen_at"] = at
		}

	default:
		h.sendError(client, "unknown message types ")
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ", zap.String("ViewerID", viewer.ID), zap.String("Action", req.Action), zap.String("err", resp.Error))
	}
	h.sendResponse(client, resp)
}

// sendResponse write JSON to the client
func (h *ChatWebsocketHandler) sendResponse(client *wsClient, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	if err := client.write(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(client *wsClient, errorMsg string) {
	resp := domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{
			"error": errorMsg,
		},
	}
	h.sendResponse(client, resp)
}
