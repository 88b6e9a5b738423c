package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reventa/internal/core"
)

const sessionCookie = "reventa_session"

// sessionManager signs and verifies stateless session cookies. The
// cookie value is "openID|expiryUnix|signature" with an HMAC-SHA256
// signature over the first two fields.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

func newSessionManager(secret string, ttl time.Duration) *sessionManager {
	return &sessionManager{secret: []byte(secret), ttl: ttl}
}

func (m *sessionManager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *sessionManager) issue(openID string) (value string, expires time.Time) {
	expires = time.Now().Add(m.ttl)
	payload := fmt.Sprintf("%s|%d", openID, expires.Unix())
	return payload + "|" + m.sign(payload), expires
}

// verify returns the open id of a valid, unexpired session token.
func (m *sessionManager) verify(value string) (string, bool) {
	i := strings.LastIndex(value, "|")
	if i < 0 {
		return "", false
	}
	payload, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(m.sign(payload)), []byte(sig)) {
		return "", false
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 2 {
		return "", false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", false
	}
	return parts[0], true
}

// sessionOpenID extracts the open id from the request cookie, if any.
func (s *Server) sessionOpenID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	return s.sessions.verify(c.Value)
}

// requireSession rejects requests without a valid session cookie.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessionOpenID(r); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

type loginRequest struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
}

// handleLogin upserts the user record and issues a session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.OpenID) == "" {
		writeError(w, http.StatusUnprocessableEntity, "openId is required")
		return
	}

	user, err := s.repo.UpsertUser(r.Context(), core.User{
		OpenID:      req.OpenID,
		Name:        req.Name,
		Email:       req.Email,
		LoginMethod: req.LoginMethod,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	value, expires := s.sessions.issue(user.OpenID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "User signed in", "open_id", user.OpenID)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	openID, ok := s.sessionOpenID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := s.repo.GetUserByOpenID(r.Context(), openID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
