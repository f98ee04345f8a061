package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// HandleWebSocket upgrades a request into a realtime connection. The
// session is checked before the upgrade, so an anonymous caller is refused
// with a plain 401 instead of a doomed websocket handshake.
func HandleWebSocket(deps *AppDeps, upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Warn("WebSocket upgrade failed", "error", err.Error(), "username", principal.Username)
			return
		}

		client := chat.NewClient(deps.Hub, conn, principal.Username, clientIP(r))

		go client.WritePump()
		deps.Hub.Attach(client)
		client.ReadPump()
	}
}
