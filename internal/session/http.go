package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"AspectoStore/pkg/kit"
)

type Server struct {
	JWT *TokenMaker
	TTL time.Duration
	Log *zap.Logger
}

type issueResp struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// IssueHandler mints a fresh browsing session. The client stores the token
// and presents it on every cart and checkout call.
func (s *Server) IssueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := "s_" + uuid.NewString()

		token, err := s.JWT.New(id, s.TTL)
		if err != nil {
			if s.Log != nil {
				s.Log.Error("sign session token failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		kit.WriteJSON(w, http.StatusCreated, issueResp{SessionID: id, Token: token})
	}
}
