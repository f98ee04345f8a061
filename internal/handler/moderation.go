package handler

import (
	"net/http"
	"strings"

	"github.com/ProJug/Grunt/internal/app/store"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// BannedNoticePath is the notice page a banned account is redirected to.
const BannedNoticePath = "/banned.html"

// ModerationGate intercepts every request before route dispatch, REST and
// websocket upgrade alike. Banned addresses are rejected outright; banned
// accounts are redirected to the notice page. The IP check runs first, and
// the account check exempts the admin surface and the notice page itself:
// without those exemptions a banned user could never see the notice, and a
// ban could never be reversed from the admin panel.
func ModerationGate(st *store.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if st.IsIPBanned(ip) {
				logx.Warn("Request rejected: banned IP", "ip", ip, "path", r.URL.Path)
				resp.RespondError(w, r, errs.NewError(errs.ErrIPBanned))
				return
			}

			principal := session.GetPrincipal(r)
			if principal != nil && principal.User.Banned &&
				!strings.HasPrefix(r.URL.Path, "/admin") &&
				r.URL.Path != BannedNoticePath {
				http.Redirect(w, r, BannedNoticePath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
