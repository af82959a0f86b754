package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/engine"
	"github.com/inamate/clipcontrol/internal/geometry"
	"github.com/inamate/clipcontrol/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

var (
	ErrUnknownWidget  = errors.New("unknown widget")
	ErrTooManyWidgets = errors.New("widget limit reached")
)

// Client is one host connection. Its widgets are owned by the ReadPump
// goroutine and never touched from anywhere else.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	layout anchor.Layout
	log    *slog.Logger

	mu     sync.Mutex
	closed bool
	seq    atomic.Int64

	widgets map[string]*engine.Widget

	SessionID string
	ClientID  string
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID, clientID string, layout anchor.Layout) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		layout:    layout,
		log:       hub.log.With("session", sessionID, "client", clientID),
		widgets:   make(map[string]*engine.Widget),
		SessionID: sessionID,
		ClientID:  clientID,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("invalid message", "error", err)
			c.sendError("", fmt.Errorf("invalid message: %w", err))
			continue
		}

		msg.ClientID = c.ClientID
		msg.SessionID = c.SessionID

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg for the write pump. Messages to a full or closed client
// are dropped.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) nextSeq() int64 {
	return c.seq.Add(1)
}

func (c *Client) reply(typ, widgetID string, payload any) {
	msg := &Message{
		Type:      typ,
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		WidgetID:  widgetID,
		Seq:       c.nextSeq(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.log.Error("marshal payload", "type", typ, "error", err)
			return
		}
		msg.Payload = data
	}
	c.Send(msg)
}

func (c *Client) sendError(widgetID string, err error) {
	c.reply(TypeError, widgetID, ErrorPayload{Message: err.Error()})
}

func (c *Client) handleMessage(msg *Message) {
	var err error
	switch msg.Type {
	case TypeWidgetInit:
		err = c.handleInit(msg)
	case TypeWidgetClose:
		err = c.handleClose(msg)
	case TypeCanvasUpdate, TypePropsUpdate, TypePointer, TypeOptions, TypeRegionGet, TypeMenuAction:
		err = c.handleWidget(msg)
	default:
		c.log.Warn("unknown message type", "type", msg.Type)
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		c.sendError(msg.WidgetID, err)
	}
}

func (c *Client) handleInit(msg *Message) error {
	var p WidgetInitPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return fmt.Errorf("invalid init payload: %w", err)
	}
	if limit := c.hub.maxWidgets; limit > 0 && len(c.widgets) >= limit {
		return fmt.Errorf("%w: %d", ErrTooManyWidgets, limit)
	}

	layout := c.layout
	if p.KeepAspectRatio != nil {
		layout.KeepAspectRatio = *p.KeepAspectRatio
	}
	id := typeid.NewWidgetID()
	host := &widgetHost{client: c, widgetID: id}
	w, err := engine.New(p.Props, host,
		engine.WithID(id),
		engine.WithLayout(layout),
		engine.WithLogger(c.log),
	)
	if err != nil {
		return err
	}
	if p.Canvas != nil {
		if err := w.UpdateCanvasInfo(p.Canvas.Width, p.Canvas.Height, p.Canvas.OffsetX, p.Canvas.OffsetY); err != nil {
			return err
		}
	}

	c.widgets[id] = w
	c.snapshot(w)
	c.reply(TypeWidgetCreated, id, WidgetCreatedPayload{WidgetID: id})
	c.sendDraw(w)
	c.log.Info("widget created", "widget", id)
	return nil
}

func (c *Client) handleClose(msg *Message) error {
	if _, ok := c.widgets[msg.WidgetID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, msg.WidgetID)
	}
	delete(c.widgets, msg.WidgetID)
	c.hub.registry.Remove(msg.WidgetID)
	c.reply(TypeWidgetClosed, msg.WidgetID, nil)
	c.log.Info("widget closed", "widget", msg.WidgetID)
	return nil
}

// handleWidget routes a command to an existing widget and pushes the new
// frame back to the host.
func (c *Client) handleWidget(msg *Message) error {
	w, ok := c.widgets[msg.WidgetID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, msg.WidgetID)
	}

	switch msg.Type {
	case TypeCanvasUpdate:
		var p engine.CanvasInfo
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid canvas payload: %w", err)
		}
		if err := w.UpdateCanvasInfo(p.Width, p.Height, p.OffsetX, p.OffsetY); err != nil {
			return err
		}

	case TypePropsUpdate:
		props, err := clip.ParseProps(msg.Payload)
		if err != nil {
			return err
		}
		if err := w.UpdateProps(props); err != nil {
			return err
		}

	case TypePointer:
		var ev engine.PointerEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("invalid pointer payload: %w", err)
		}
		before := w.State()
		if err := w.HandlePointer(ev); err != nil {
			return err
		}
		// Idle hover moves leave the frame unchanged.
		if ev.Kind == engine.PointerMove && before == engine.Idle && w.State() == engine.Idle {
			return nil
		}

	case TypeOptions:
		var p OptionsPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid options payload: %w", err)
		}
		w.SetKeepAspectRatio(p.KeepAspectRatio)
		return nil

	case TypeRegionGet:
		var p RegionRequestPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return fmt.Errorf("invalid region payload: %w", err)
			}
		}
		region, err := w.Region(p.WithRotation)
		if err != nil {
			return err
		}
		c.reply(TypeRegion, msg.WidgetID, region)
		return nil

	case TypeMenuAction:
		var p MenuActionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid menu payload: %w", err)
		}
		if err := w.MenuAction(p.Button); err != nil {
			return err
		}
	}

	c.snapshot(w)
	c.sendDraw(w)
	return nil
}

func (c *Client) sendDraw(w *engine.Widget) {
	c.reply(TypeDraw, w.ID(), DrawPayload{
		Commands:  w.DrawCommands(),
		Menu:      w.MenuState(),
		State:     w.State(),
		Transform: w.Transform(),
	})
}

func (c *Client) snapshot(w *engine.Widget) {
	c.hub.registry.Put(WidgetSnapshot{
		ID:        w.ID(),
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		Shape:     w.Shape(),
		Menu:      w.MenuState(),
	})
}

// widgetHost delivers a widget's outputs. Transform and crop results go to
// every client of the session; crop.clicked only to the owner.
type widgetHost struct {
	client   *Client
	widgetID string
}

func (h *widgetHost) DoTransform(t geometry.Transform) {
	h.broadcast(TypeTransform, t)
}

func (h *widgetHost) DoCrop(r clip.Region) {
	h.broadcast(TypeCrop, r)
}

func (h *widgetHost) OnCropClicked() {
	h.client.reply(TypeCropClicked, h.widgetID, nil)
}

func (h *widgetHost) broadcast(typ string, payload any) {
	c := h.client
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("marshal payload", "type", typ, "error", err)
		return
	}
	c.hub.broadcastToRoom(c.SessionID, &Message{
		Type:      typ,
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		WidgetID:  h.widgetID,
		Seq:       c.nextSeq(),
		Payload:   data,
	}, "")
}
