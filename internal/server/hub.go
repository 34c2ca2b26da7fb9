package server

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/hydroviz/hydroviz/internal/config"
	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/query"
	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

// Request is a control message from a connected client.
type Request struct {
	Type          string       `json:"type"` // times | frame | series
	Time          float64      `json:"time,omitempty"`
	Variable      string       `json:"variable,omitempty"`
	ColorLowPct   *float64     `json:"colorLowPct,omitempty"`
	ColorHighPct  *float64     `json:"colorHighPct,omitempty"`
	WithArrows    bool         `json:"withArrows,omitempty"`
	VectorType    string       `json:"vectorType,omitempty"`
	ScaleExponent *float64     `json:"scaleExponent,omitempty"`
	Points        []PointParam `json:"points,omitempty"`
}

// PointParam is one probe point in a series request.
type PointParam struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Response wraps a reply; Content carries the JSON-encoded body.
type Response struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Hub serves one client connection's request stream against one session.
// Requests are handled strictly in order; the session is never shared, so
// there is nothing to lock.
type Hub struct {
	sess *session.Session
	cfg  *config.Config
}

func NewHub(sess *session.Session, cfg *config.Config) *Hub {
	return &Hub{sess: sess, cfg: cfg}
}

// Handle processes one request and produces one response. Errors become
// error responses; the connection stays usable.
func (h *Hub) Handle(req Request) Response {
	switch req.Type {
	case "times":
		return h.times()
	case "frame":
		return h.frame(req)
	case "series":
		return h.series(req)
	default:
		return errorResponse(fmt.Errorf("unknown request type %q", req.Type))
	}
}

func (h *Hub) times() Response {
	body, err := sonic.Marshal(h.sess.Times())
	if err != nil {
		return errorResponse(err)
	}
	return Response{Type: "times", Content: string(body)}
}

func (h *Hub) frame(req Request) Response {
	variable := req.Variable
	if variable == "" {
		variable = h.cfg.Grid.Variable
	}

	g, err := h.sess.GridAt(req.Time, variable)
	if err != nil {
		return errorResponse(err)
	}

	window := render.ColorWindow{
		LowPct:  h.cfg.Grid.ColorLowPct,
		HighPct: h.cfg.Grid.ColorHighPct,
	}
	if req.ColorLowPct != nil {
		window.LowPct = *req.ColorLowPct
	}
	if req.ColorHighPct != nil {
		window.HighPct = *req.ColorHighPct
	}

	payload := render.NewPayload(g, window)

	if req.WithArrows {
		vectorType := req.VectorType
		if vectorType == "" {
			vectorType = h.cfg.Vector.Type
		}
		exponent := h.cfg.Vector.ScaleExponent
		if req.ScaleExponent != nil {
			exponent = *req.ScaleExponent
		}
		arrows, vt, err := h.sess.ArrowsAt(req.Time, vectorType, exponent, h.cfg.Vector.MaxArrows)
		if err != nil {
			// Overlay failure degrades to a plain frame, not an error.
			util.LogWarn(fmt.Sprintf("Vector overlay unavailable: %v", err))
		} else {
			payload.WithArrows(arrows, vt, vectorType)
		}
	}

	body, err := payload.JSON()
	if err != nil {
		return errorResponse(err)
	}
	return Response{Type: "frame", Content: string(body)}
}

func (h *Hub) series(req Request) Response {
	if h.sess.Scalar == nil {
		return errorResponse(fmt.Errorf("no scalar file loaded"))
	}
	if len(req.Points) == 0 || len(req.Points) > session.MaxPlotPoints {
		return errorResponse(fmt.Errorf("series requires 1 to %d points", session.MaxPlotPoints))
	}

	variable := req.Variable
	if variable == "" {
		variable = h.cfg.Grid.Variable
	}

	points := make([]model.PlotPoint, len(req.Points))
	for i, p := range req.Points {
		points[i] = model.PlotPoint{
			Label: fmt.Sprintf("point%d", i+1),
			X:     p.X,
			Z:     p.Z,
		}
	}

	series, err := query.ExtractSeries(h.sess.Scalar.Doc, variable, points)
	if err != nil {
		return errorResponse(err)
	}
	body, err := sonic.Marshal(series)
	if err != nil {
		return errorResponse(err)
	}
	return Response{Type: "series", Content: string(body)}
}

func errorResponse(err error) Response {
	return Response{Type: "error", Content: err.Error()}
}
