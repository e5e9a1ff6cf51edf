package main

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"samarth-qa/internal/agent"
	"samarth-qa/internal/gateway"
	"samarth-qa/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "samarth_session"

// depthMessage is shown instead of an answer when the agent gives up.
const depthMessage = "The agent exceeded its reasoning depth. Please try rephrasing your question."

// ollamaHint replaces a raw connection error when the model backend dies
// mid-session.
const ollamaHint = "Cannot reach the local Ollama model. Please ensure Ollama is running."

// message is one chat bubble, either the user's question or the agent's answer.
type message struct {
	Role string
	Text string
}

// session holds one browser's conversation. History lives in memory only and
// is lost on restart.
type session struct {
	Messages []message
}

type server struct {
	ag   *agent.Agent
	st   *store.Store
	gw   *gateway.Gateway
	tmpl *template.Template

	mu       sync.Mutex
	sessions map[string]*session
}

func newServer(ag *agent.Agent, st *store.Store, gw *gateway.Gateway) *server {
	return &server{
		ag:       ag,
		st:       st,
		gw:       gw,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
		sessions: make(map[string]*session),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/ask", s.handleAsk)
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAPIAsk)
		r.Get("/schema", s.handleAPISchema)
	})

	return r
}

// currentSession finds the browser's session by cookie, creating both the
// cookie and the session on first contact. Only values this server could
// have issued are honored; anything else gets a fresh id, so forged cookies
// cannot fill the session map with arbitrary keys.
func (s *server) currentSession(w http.ResponseWriter, r *http.Request) *session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && isSessionID(c.Value) {
		id = c.Value
	} else {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

// isSessionID reports whether a cookie value is a canonical uuid string.
func isSessionID(v string) bool {
	if len(v) != 36 {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}

type indexData struct {
	Backend  string
	Model    string
	Messages []message
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	s.mu.Lock()
	msgs := make([]message, len(sess.Messages))
	copy(msgs, sess.Messages)
	s.mu.Unlock()

	data := indexData{
		Backend:  string(s.gw.Backend()),
		Model:    s.gw.Model(),
		Messages: msgs,
	}
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Failed to render page: %v", err)
	}
}

func (s *server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	answer := s.answer(r, question)

	s.mu.Lock()
	sess.Messages = append(sess.Messages,
		message{Role: "user", Text: question},
		message{Role: "agent", Text: answer},
	)
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// answer runs the agent and folds its one expected failure mode into a
// user-facing message.
func (s *server) answer(r *http.Request, question string) string {
	answer, err := s.ag.Run(r.Context(), question)
	if errors.Is(err, agent.ErrDepthExceeded) {
		return depthMessage
	}
	if err != nil {
		log.Printf("Agent failed on question %q: %v", question, err)
		return "Something went wrong while answering. Please try again."
	}
	if agent.BackendUnreachable(answer) {
		return ollamaHint
	}
	return answer
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
	SQL    string `json:"sql,omitempty"`
	Result string `json:"result,omitempty"`
}

func (s *server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	st, err := s.ag.RunState(r.Context(), question)
	resp := askResponse{}
	switch {
	case errors.Is(err, agent.ErrDepthExceeded):
		resp.Answer = depthMessage
	case err != nil:
		log.Printf("Agent failed on question %q: %v", question, err)
		http.Error(w, "agent failed", http.StatusInternalServerError)
		return
	default:
		resp.Answer = st.Answer
		if agent.BackendUnreachable(st.Answer) {
			resp.Answer = ollamaHint
		}
		resp.SQL = st.SQL
		resp.Result = st.Result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *server) handleAPISchema(w http.ResponseWriter, r *http.Request) {
	desc, err := s.st.Describe(r.Context())
	if err != nil {
		http.Error(w, "failed to describe database", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(desc))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"backend": string(s.gw.Backend()),
	})
}
