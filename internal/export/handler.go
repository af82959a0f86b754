package export

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inamate/clipcontrol/internal/clip"
)

const maxRequestSize = 64 << 10

type Handler struct {
	ffmpegPath string
}

func NewHandler(ffmpegPath string) *Handler {
	return &Handler{ffmpegPath: ffmpegPath}
}

type CropRequest struct {
	Region       clip.Region `json:"region"`
	SourceWidth  int         `json:"sourceWidth"`
	SourceHeight int         `json:"sourceHeight"`
	Name         string      `json:"name"`
}

type CropResponse struct {
	Rect    PixelRect `json:"rect"`
	Filter  string    `json:"filter"`
	Command []string  `json:"command"`
}

// Crop turns a widget crop region into the ffmpeg invocation that applies
// it. The command is returned for the host render step, not run here.
func (h *Handler) Crop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req CropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rect, err := CropFromRegion(req.Region, req.SourceWidth, req.SourceHeight)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	name := sanitizeName(req.Name)
	args := Args(name+".mp4", name+"-cropped.mp4", rect)

	slog.Info("crop export planned", "name", name, "filter", rect.Filter())

	writeJSON(w, http.StatusOK, CropResponse{
		Rect:    rect,
		Filter:  rect.Filter(),
		Command: append([]string{h.ffmpegPath}, args...),
	})
}

func sanitizeName(name string) string {
	if name == "" {
		return "clip"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
