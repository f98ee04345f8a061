package handler

import (
	"net"
	"net/http"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/app/storage"
	"github.com/ProJug/Grunt/internal/app/store"
	"github.com/ProJug/Grunt/internal/configs"
)

// AppDeps bundles the services every handler closure needs.
type AppDeps struct {
	Config   *configs.AppConfig
	Store    *store.Store
	Registry *chat.Registry
	Hub      *chat.Hub
	Images   storage.Service
}

// clientIP extracts the originating address of a request. The RealIP
// middleware has already rewritten RemoteAddr where forwarding headers
// apply.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}
