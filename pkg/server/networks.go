package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/httputil"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/pipeline"
	"github.com/matzehuels/netlayout/pkg/render"
)

// entry is one hosted network. All fields are loop-owned.
type entry struct {
	id       string
	net      *network.Network
	model    *force.Model
	sess     *layout.Session
	animate  bool
	progress float64
	layouts  int
	created  time.Time
}

// NetworkView is the JSON form of a hosted network.
type NetworkView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     network.Kind  `json:"kind"`
	Nodes    int           `json:"nodes"`
	Links    int           `json:"links"`
	Status   layout.Status `json:"status"`
	Progress float64       `json:"progress"`
	Passes   int           `json:"passes"`
	Paused   bool          `json:"paused"`
	Animated bool          `json:"animated"`
	Layouts  int           `json:"layouts"` // completed layouts
	Created  time.Time     `json:"created"`
}

func (e *entry) view() NetworkView {
	return NetworkView{
		ID:       e.id,
		Name:     e.net.Name,
		Kind:     e.net.Kind,
		Nodes:    e.net.NodeCount(),
		Links:    e.net.LinkCount(),
		Status:   e.sess.Status(),
		Progress: e.progress,
		Passes:   e.sess.Passes(),
		Paused:   e.sess.Paused(),
		Animated: e.animate,
		Layouts:  e.layouts,
		Created:  e.created,
	}
}

// LayoutResponse reports whether a request started a layout.
type LayoutResponse struct {
	Started bool        `json:"started"`
	Network NetworkView `json:"network"`
}

// createRequest is the body of POST /networks. Generator fields follow
// pipeline.Options; custom networks are uploaded inline.
type createRequest struct {
	pipeline.Options
	Network json.RawMessage `json:"network,omitempty"`
	Start   bool            `json:"start,omitempty"` // request a layout immediately
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req := createRequest{}
	req.Layout = s.opts.Layout
	req.Force = s.opts.Force
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	net, err := s.build(&req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var view NetworkView
	err = s.onLoop(r, func() error {
		e := s.add(net, req.Options)
		if req.Start {
			e.sess.RequestLayout(s.ctx, e.net)
		}
		view = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.logger.Info("network created", "id", view.ID, "network", view.Name, "nodes", view.Nodes, "links", view.Links)
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// build validates req and builds its network off the loop.
func (s *Server) build(req *createRequest) (*network.Network, error) {
	if req.Path != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "path is not accepted; upload the network inline")
	}
	if len(req.Network) > 0 {
		net, err := network.Unmarshal(req.Network)
		if err != nil {
			return nil, err
		}
		req.Options.Network = net
	} else if req.Kind == network.KindCustom {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a custom network must be uploaded in the network field")
	}

	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if n := requestedNodes(req.Options); n > s.opts.MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network has %d nodes, limit is %d", n, s.opts.MaxNodes)
	}
	return pipeline.Build(req.Options)
}

// requestedNodes returns the node count opts will produce, without
// building the network. Results above the int range saturate.
func requestedNodes(opts pipeline.Options) int {
	const limit = 1 << 30
	if opts.Network != nil {
		return opts.Network.NodeCount()
	}
	switch opts.Kind {
	case network.KindLattice:
		if opts.Rows > 0 && opts.Cols > limit/opts.Rows {
			return limit
		}
		return opts.Rows * opts.Cols
	case network.KindHierarchy:
		n, width := 0, 1
		for range opts.Levels {
			n += width
			if n >= limit || width > limit/max(opts.Branching, 1) {
				return limit
			}
			width *= opts.Branching
		}
		return n
	default:
		return opts.Nodes
	}
}

// add registers net with a new session. Runs on the loop.
func (s *Server) add(net *network.Network, opts pipeline.Options) *entry {
	e := &entry{
		id:      uuid.NewString(),
		net:     net,
		model:   force.New(net, opts.Force),
		animate: s.opts.Animation.ShouldAnimate(net.NodeCount(), net.LinkCount()),
		created: time.Now().UTC(),
	}
	e.sess = layout.NewSession(layout.Config{
		Name:      net.Name,
		Relaxer:   e.model,
		Scheduler: s.loop,
		Listener: layout.ListenerFuncs{
			Progress: func(ratio float64) { e.progress = ratio },
			Complete: func() {
				e.progress = 1
				e.layouts++
				s.logger.Info("layout complete", "id", e.id, "network", e.net.Name, "passes", e.sess.Passes())
			},
		},
		Options: opts.Layout,
		Initial: pipeline.InitialStatus(net),
		Logger:  s.logger,
	})
	s.nets[e.id] = e
	return e
}

// withEntry runs fn on the loop with the entry named by the {id} parameter.
func (s *Server) withEntry(r *http.Request, fn func(e *entry) error) error {
	id := chi.URLParam(r, "id")
	return s.onLoop(r, func() error {
		e, ok := s.nets[id]
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "network %q not found", id)
		}
		return fn(e)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	var views []NetworkView
	err := s.onLoop(r, func() error {
		views = make([]NetworkView, 0, len(s.nets))
		for _, e := range s.nets {
			views = append(views, e.view())
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	slices.SortFunc(views, func(a, b NetworkView) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	var view NetworkView
	err := s.withEntry(r, func(e *entry) error {
		view = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	err := s.withEntry(r, func(e *entry) error {
		e.sess.Invalidate()
		delete(s.nets, e.id)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestLayout(w http.ResponseWriter, r *http.Request) {
	var resp LayoutResponse
	err := s.withEntry(r, func(e *entry) error {
		resp.Started = e.sess.RequestLayout(s.ctx, e.net)
		if resp.Started {
			e.progress = 0
		}
		resp.Network = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Started {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, resp)
}

type shakeRequest struct {
	// Amount is the maximum per-axis displacement. Zero means half the
	// link length.
	Amount float64 `json:"amount"`
}

func (s *Server) shake(w http.ResponseWriter, r *http.Request) {
	var req shakeRequest
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Amount < 0 {
		httputil.WriteError(w, errors.New(errors.ErrCodeInvalidInput, "amount cannot be negative"))
		return
	}

	var resp LayoutResponse
	err := s.withEntry(r, func(e *entry) error {
		if !e.sess.Shake() {
			return errors.New(errors.ErrCodeConflict, "network %q has no finished layout to shake (status %s)", e.id, e.sess.Status())
		}
		amount := req.Amount
		if amount == 0 {
			amount = e.model.Params().LinkLength / 2
		}
		e.model.Shake(amount)
		resp.Started = e.sess.RequestLayout(s.ctx, e.net)
		e.progress = 0
		resp.Network = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, resp)
}

func (s *Server) stop(w http.ResponseWriter, r *http.Request) {
	var view NetworkView
	err := s.withEntry(r, func(e *entry) error {
		if e.sess.Status() != layout.LayoutInProgress {
			return errors.New(errors.ErrCodeConflict, "network %q has no layout in progress", e.id)
		}
		e.sess.Stop()
		view = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, view)
}

func (s *Server) resume(w http.ResponseWriter, r *http.Request) {
	var resp LayoutResponse
	err := s.withEntry(r, func(e *entry) error {
		if e.sess.Status() != layout.LayoutInProgress {
			return errors.New(errors.ErrCodeConflict, "network %q has no layout in progress", e.id)
		}
		resp.Started = e.sess.Resume(s.ctx)
		resp.Network = e.view()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Started {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, resp)
}

func (s *Server) positions(w http.ResponseWriter, r *http.Request) {
	var ps []network.Position
	err := s.withEntry(r, func(e *entry) error {
		if st := e.sess.Status(); st == layout.LayoutInProgress {
			return errors.New(errors.ErrCodeLayoutPending, "network %q is being laid out", e.id)
		}
		if !e.net.Positioned() {
			return errors.New(errors.ErrCodeLayoutPending, "network %q has no layout yet", e.id)
		}
		ps = e.net.Positions()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ps)
}

func (s *Server) svg(w http.ResponseWriter, r *http.Request) {
	var frame render.Frame
	err := s.withEntry(r, func(e *entry) error {
		st := e.sess.Status()
		switch {
		case st == layout.LayoutInProgress && !e.animate:
			return errors.New(errors.ErrCodeLayoutPending, "network %q is being laid out", e.id)
		case st != layout.LayoutInProgress && !e.net.Positioned():
			return errors.New(errors.ErrCodeLayoutPending, "network %q has no layout yet", e.id)
		}
		frame = render.Capture(e.net, st)
		frame.Progress = e.progress
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	opts := render.DefaultOptions()
	opts.Labels = r.URL.Query().Get("labels") == "true"
	if err := render.WriteSVG(&buf, frame, opts); err != nil {
		httputil.WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}
