package haptics

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"tailscale.com/tsweb"

	"github.com/banshee-data/haptics/internal/httputil"
)

// PulseResponse is returned by the pulse debug endpoint.
type PulseResponse struct {
	ID       string   `json:"id"`
	Hand     string   `json:"hand"`
	Location string   `json:"location"`
	Strength float32  `json:"strength"`
	Duration float32  `json:"duration"`
	Sent     []string `json:"sent"`
	Command  string   `json:"command"`
}

// AttachAdminRoutes attaches debugging endpoints to the given HTTP mux served
// at /debug/. These routes are accessible only over localhost/via Tailscale.
func (l *LockedDispatcher) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.Handle("haptics-status", "glove ports and finger cooldowns", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		httputil.WriteJSONOK(w, l.Status())
	}))

	// POST hand, location, strength, duration as form values.
	debug.HandleSilent("haptics-pulse", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		req, err := parsePulseForm(r)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}

		sent := l.Dispatch(req)
		resp := PulseResponse{
			ID:       uuid.NewString(),
			Hand:     req.Hand.String(),
			Location: req.Location.String(),
			Strength: req.Strength,
			Duration: req.Duration,
			Sent:     make([]string, 0, len(sent)),
		}
		for _, h := range sent {
			resp.Sent = append(resp.Sent, h.String())
		}
		cmd := EncodeRequest(req)
		resp.Command = fmt.Sprintf("% x", cmd[:])
		httputil.WriteJSONOK(w, resp)
	}))
}

func parsePulseForm(r *http.Request) (FeedbackRequest, error) {
	var req FeedbackRequest

	hand, err := ParseHand(formValue(r, "hand", "both"))
	if err != nil {
		return req, err
	}
	loc, err := ParseLocation(formValue(r, "location", ""))
	if err != nil {
		return req, err
	}
	strength, err := strconv.ParseFloat(formValue(r, "strength", "1"), 32)
	if err != nil {
		return req, fmt.Errorf("invalid strength: %w", err)
	}
	duration, err := strconv.ParseFloat(formValue(r, "duration", "0.2"), 32)
	if err != nil {
		return req, fmt.Errorf("invalid duration: %w", err)
	}

	req.Hand = hand
	req.Location = loc
	req.Strength = float32(strength)
	req.Duration = float32(duration)
	return req, nil
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}
