//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/engine"
	"github.com/inamate/clipcontrol/internal/geometry"
	"github.com/inamate/clipcontrol/internal/typeid"
)

// widgets holds every live widget by id. The js event loop is single
// threaded, so no locking is needed.
var widgets = map[string]*engine.Widget{}

func main() {
	api := js.Global().Get("Object").New()

	// --- Commands (host → widget) ---
	api.Set("create", js.FuncOf(create))
	api.Set("destroy", js.FuncOf(destroy))
	api.Set("updateCanvasInfo", js.FuncOf(updateCanvasInfo))
	api.Set("updateProps", js.FuncOf(updateProps))
	api.Set("pointer", js.FuncOf(pointer))
	api.Set("menuAction", js.FuncOf(menuAction))
	api.Set("setKeepAspectRatio", js.FuncOf(setKeepAspectRatio))
	api.Set("loadSample", js.FuncOf(loadSample))

	// --- Queries (host ← widget) ---
	api.Set("drawCommands", js.FuncOf(drawCommands))
	api.Set("region", js.FuncOf(region))
	api.Set("pick", js.FuncOf(pick))
	api.Set("getState", js.FuncOf(getState))

	js.Global().Set("clipControl", api)
	js.Global().Set("clipControlWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func lookup(args []js.Value) (*engine.Widget, interface{}) {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return nil, errorResult("missing widget id")
	}
	w, ok := widgets[args[0].String()]
	if !ok {
		return nil, errorResult("unknown widget " + args[0].String())
	}
	return w, nil
}

// jsHost forwards widget outputs to optional callbacks on a js object:
// doTransform(json), doCrop(json) and onCropClicked().
type jsHost struct {
	callbacks js.Value
}

func (h jsHost) call(name string, payload interface{}) {
	if h.callbacks.Type() != js.TypeObject {
		return
	}
	fn := h.callbacks.Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	if payload == nil {
		fn.Invoke()
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fn.Invoke(string(data))
}

func (h jsHost) DoTransform(t geometry.Transform) { h.call("doTransform", t) }
func (h jsHost) DoCrop(r clip.Region)             { h.call("doCrop", r) }
func (h jsHost) OnCropClicked()                   { h.call("onCropClicked", nil) }

// --- Command Handlers ---

// create(propsJSON, callbacks?, options?) → {ok, widgetId}
func create(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing props JSON")
	}
	props, err := clip.ParseProps([]byte(args[0].String()))
	if err != nil {
		return errorResult(err.Error())
	}

	host := jsHost{}
	if len(args) > 1 {
		host.callbacks = args[1]
	}
	layout := anchor.DefaultLayout()
	if len(args) > 2 && args[2].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[2].String()), &layout); err != nil {
			return errorResult("invalid layout: " + err.Error())
		}
	}

	id := typeid.NewWidgetID()
	w, err := engine.New(props, host, engine.WithID(id), engine.WithLayout(layout))
	if err != nil {
		return errorResult(err.Error())
	}
	widgets[id] = w
	return js.ValueOf(map[string]interface{}{"ok": true, "widgetId": id})
}

func destroy(this js.Value, args []js.Value) interface{} {
	if _, res := lookup(args); res != nil {
		return res
	}
	delete(widgets, args[0].String())
	return okResult()
}

// updateCanvasInfo(id, width, height, offsetX, offsetY)
func updateCanvasInfo(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	if len(args) < 5 {
		return errorResult("expected width, height, offsetX, offsetY")
	}
	if err := w.UpdateCanvasInfo(args[1].Float(), args[2].Float(), args[3].Float(), args[4].Float()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func updateProps(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	if len(args) < 2 {
		return errorResult("missing props JSON")
	}
	props, err := clip.ParseProps([]byte(args[1].String()))
	if err != nil {
		return errorResult(err.Error())
	}
	if err := w.UpdateProps(props); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

// pointer(id, kind, clientX, clientY) → {ok, state}
func pointer(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	if len(args) < 4 {
		return errorResult("expected kind, clientX, clientY")
	}
	ev := engine.PointerEvent{
		Kind:    engine.PointerKind(args[1].String()),
		ClientX: args[2].Float(),
		ClientY: args[3].Float(),
	}
	if err := w.HandlePointer(ev); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{
		"ok":    true,
		"state": w.State().String(),
		"menu":  w.MenuState().String(),
	})
}

func menuAction(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	if len(args) < 2 {
		return errorResult("missing button id")
	}
	if err := w.MenuAction(anchor.ID(args[1].String())); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func setKeepAspectRatio(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	if len(args) < 2 {
		return errorResult("missing flag")
	}
	w.SetKeepAspectRatio(args[1].Bool())
	return okResult()
}

// loadSample(liveWindowWidth?, liveWindowHeight?) → props JSON
func loadSample(this js.Value, args []js.Value) interface{} {
	var lw, lh float64
	if len(args) > 1 {
		lw, lh = args[0].Float(), args[1].Float()
	}
	data, err := json.Marshal(clip.NewSampleProps(lw, lh))
	if err != nil {
		return "{}"
	}
	return string(data)
}

// --- Query Handlers ---

func drawCommands(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return "[]"
	}
	jsonStr, err := w.DrawCommandsJSON()
	if err != nil {
		return "[]"
	}
	return jsonStr
}

// region(id, withRotation?) → region JSON
func region(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	withRotation := len(args) > 1 && args[1].Bool()
	r, err := w.Region(withRotation)
	if err != nil {
		return errorResult(err.Error())
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(data)
}

// pick(id, canvasX, canvasY) → anchor id or null
func pick(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil || len(args) < 3 {
		return nil
	}
	id, ok := w.Pick(args[1].Float(), args[2].Float())
	if !ok {
		return nil
	}
	return string(id)
}

func getState(this js.Value, args []js.Value) interface{} {
	w, res := lookup(args)
	if res != nil {
		return res
	}
	t := w.Transform()
	return js.ValueOf(map[string]interface{}{
		"state": w.State().String(),
		"menu":  w.MenuState().String(),
		"hover": string(w.Hover()),
		"transform": map[string]interface{}{
			"rotation": t.Rotation,
			"scaleX":   t.ScaleX,
			"scaleY":   t.ScaleY,
			"transX":   t.TransX,
			"transY":   t.TransY,
		},
	})
}
