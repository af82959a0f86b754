package session

import (
	"encoding/json"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/engine"
	"github.com/inamate/clipcontrol/internal/geometry"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	WidgetID  string          `json:"widgetId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Host → server
	TypeWidgetInit   = "widget.init"
	TypeWidgetClose  = "widget.close"
	TypeCanvasUpdate = "canvas.update"
	TypePropsUpdate  = "props.update"
	TypePointer      = "pointer"
	TypeOptions      = "options"
	TypeRegionGet    = "region.get"
	TypeMenuAction   = "menu.action"

	// Server → host
	TypeWidgetCreated = "widget.created"
	TypeWidgetClosed  = "widget.closed"
	TypeTransform     = "transform"
	TypeCrop          = "crop"
	TypeCropClicked   = "crop.clicked"
	TypeDraw          = "draw"
	TypeRegion        = "region"
)

type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	SessionID string `json:"sessionId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type WidgetInitPayload struct {
	Props           clip.Props         `json:"props"`
	Canvas          *engine.CanvasInfo `json:"canvas,omitempty"`
	KeepAspectRatio *bool              `json:"keepAspectRatio,omitempty"`
}

type WidgetCreatedPayload struct {
	WidgetID string `json:"widgetId"`
}

type OptionsPayload struct {
	KeepAspectRatio bool `json:"keepAspectRatio"`
}

type RegionRequestPayload struct {
	WithRotation bool `json:"withRotation"`
}

type MenuActionPayload struct {
	Button anchor.ID `json:"button"`
}

type DrawPayload struct {
	Commands  []engine.DrawCommand `json:"commands"`
	Menu      anchor.MenuState     `json:"menu"`
	State     engine.State         `json:"state"`
	Transform geometry.Transform   `json:"transform"`
}
