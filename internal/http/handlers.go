package http

import (
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

type sessionView struct {
	Authenticated bool       `json:"authenticated"`
	User          *core.User `json:"user"`
	Revision      uint64     `json:"revision"`
	PersistError  string     `json:"persistError,omitempty"`
}

func (s *Server) session() sessionView {
	v := sessionView{Revision: s.tracker.Revision()}
	if u, ok := s.tracker.CurrentUser(); ok {
		v.User = &u
		v.Authenticated = s.tracker.IsAuthenticated()
	}
	if err := s.tracker.LastPersistError(); err != nil {
		v.PersistError = err.Error()
	}
	return v
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.session()).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	u := core.User{Email: p.Get("email"), Name: p.Get("name")}
	if u.Email == "" {
		UnprocessableEntityError("email is required").Write(w)
		return
	}

	s.tracker.SetUser(r.Context(), u)
	log.FromContext(r.Context()).InfoContext(r.Context(), "User logged in", log.FieldOperation, log.OpLogin)
	NewJSONResponse().Data(s.session()).Write(w)
}

// handleLogout wipes every expense and budget along with the user.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tracker.ClearUser(r.Context())
	log.FromContext(r.Context()).InfoContext(r.Context(), "User logged out, data cleared", log.FieldOperation, log.OpLogout)
	NewJSONResponse().Data(s.session()).Write(w)
}

// handleEndSession drops the user and keeps the data.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.tracker.EndSession(r.Context())
	NewJSONResponse().Data(s.session()).Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.tracker.Reset(r.Context())
	log.FromContext(r.Context()).WarnContext(r.Context(), "Tracker reset over HTTP", log.FieldOperation, log.OpReset)
	NewJSONResponse().Data(s.session()).Write(w)
}
