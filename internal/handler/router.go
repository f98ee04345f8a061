/*
Package handler provides the HTTP handlers and routing setup for the Grunt
server.

This file defines the main Router, applying middleware like logging, CORS,
session resolution, and the moderation gate before delegating requests to
the REST handlers and the websocket upgrade.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/limiter"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

const (
	// Signup and signin share one limiter; bcrypt makes both expensive.
	AuthRate  = 0.2
	AuthBurst = 5

	WsRate  = 0.5
	WsBurst = 10
)

// Router sets up the HTTP routing table for the application. Middleware
// order matters: the session is resolved before the moderation gate runs,
// and the gate covers every route, the websocket upgrade included.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsRate), WsBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(session.Middleware(deps.Config.SessionSecret, deps.Store))
	r.Use(ModerationGate(deps.Store))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Grunt Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Post("/signup", authLimiter.Middleware(HandleSignup(deps)).ServeHTTP)
	r.Post("/signin", authLimiter.Middleware(HandleSignin(deps)).ServeHTTP)
	r.Get("/logout", HandleLogout())
	r.Post("/change-password", HandleChangePassword(deps))

	r.Get("/userdata", HandleUserData(deps))
	r.Post("/save-profile", HandleSaveProfile(deps))
	r.Post("/upload-post", HandleUploadPost(deps))
	r.Post("/follow/{username}", HandleFollow(deps))
	r.Post("/unfollow/{username}", HandleUnfollow(deps))

	r.Route("/api", func(api chi.Router) {
		api.Get("/post/{id}", HandleGetPost(deps))
		api.Get("/thread/{id}", HandleGetThread(deps))
		api.Post("/thread/{id}/reply", HandleThreadReply(deps))

		api.Get("/user/{username}", HandleGetUserProfile(deps))
		api.Get("/dm/{target}", HandleDMHistory(deps))
		api.Get("/dm-recent", HandleRecentDMs(deps))

		api.Route("/group-chats", func(gc chi.Router) {
			gc.Get("/messages", HandleGroupChatMessages(deps))
			gc.Post("/messages", HandlePostGroupChatMessage(deps))
		})

		api.Route("/private-groups", func(pg chi.Router) {
			pg.Post("/", HandleCreatePrivateGroup(deps))
			pg.Get("/", HandleListPrivateGroups(deps))
			pg.Get("/{id}", HandleGetPrivateGroup(deps))
			pg.Post("/{id}/invite", HandleInviteToGroup(deps))
			pg.Post("/{id}/kick", HandleKickFromGroup(deps))
			pg.Get("/{id}/messages", HandlePrivateGroupMessages(deps))
			pg.Post("/{id}/messages", HandlePostPrivateGroupMessage(deps))
		})
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(RequireAdmin)

		admin.Get("/data", HandleAdminData(deps))
		admin.Get("/dm/{file}", HandleAdminDMFile(deps))
		admin.Post("/clear-chat", HandleClearChat(deps))
		admin.Post("/ban/{target}", HandleBan(deps))
		admin.Post("/unban/{target}", HandleUnban(deps))
		admin.Post("/delete-user/{target}", HandleDeleteUser(deps))
		admin.Post("/ipban/{ip}", HandleIPBan(deps))
		admin.Post("/unipban/{ip}", HandleUnIPBan(deps))
	})

	r.Get("/ws", wsLimiter.Middleware(HandleWebSocket(deps, &wsUpgrader)).ServeHTTP)

	return r
}
