package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// RequireAdmin guards the admin surface. It runs after the session
// middleware, so an admin principal is all it checks for.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		if !principal.User.IsAdmin {
			resp.RespondError(w, r, errs.NewError(errs.ErrAdminRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminUserRow is one account as listed on the admin panel.
type adminUserRow struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Banned   bool   `json:"banned"`
	IP       string `json:"ip"`
}

// HandleAdminData returns the moderation snapshot: every account with its
// ban state and last signin address, the banned-IP list, and the DM files
// available for inspection.
func HandleAdminData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := deps.Store.Users()
		rows := make([]adminUserRow, 0, len(users))
		for name, u := range users {
			rows = append(rows, adminUserRow{
				Username: name,
				IsAdmin:  u.IsAdmin,
				Banned:   u.Banned,
				IP:       u.IP,
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Username < rows[j].Username })

		resp.RespondSuccess(w, r, map[string]any{
			"users":     rows,
			"bannedIps": deps.Store.BannedIPs(),
			"dms":       deps.Store.DMFiles(),
		})
	}
}

// HandleAdminDMFile returns the contents of one DM history file by its
// sanitized file name.
func HandleAdminDMFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := deps.Store.ReadDMFile(chi.URLParam(r, "file"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrDMFileNotFound))
			return
		}
		resp.RespondSuccess(w, r, history)
	}
}

// HandleClearChat wipes the public feed and tells every open connection to
// reset its view.
func HandleClearChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.ClearPosts(); err != nil {
			logx.Error(err, "Failed to clear public feed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.Broadcast(chat.NewClearChatEvent())
		logx.Info("Public feed cleared")
		http.Redirect(w, r, "/admin", http.StatusFound)
	}
}

// moderationTarget validates the target of a ban/unban/delete: it must
// exist and must not be the acting admin.
func moderationTarget(deps *AppDeps, r *http.Request) (string, *errs.CustomError) {
	principal := session.GetPrincipal(r)
	target := chi.URLParam(r, "target")

	if target == principal.Username || !deps.Store.UserExists(target) {
		return "", errs.NewError(errs.ErrInvalidModerationTarget)
	}
	return target, nil
}

// HandleBan marks an account banned and drops its open connections. The
// account keeps its data and can be unbanned later.
func HandleBan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, custom := moderationTarget(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		if err := deps.Store.SetBanned(target, true); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.CloseAllFor(target, "You have been banned.")
		logx.Info("User banned", "target", target)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleUnban lifts an account ban.
func HandleUnban(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, custom := moderationTarget(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		if err := deps.Store.SetBanned(target, false); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("User unbanned", "target", target)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleDeleteUser erases an account: its record, its posts, its DM files,
// and its entry in every follower list. Open connections are dropped.
func HandleDeleteUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, custom := moderationTarget(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		if err := deps.Store.DeleteUser(target); err != nil {
			logx.Error(err, "Failed to delete user", "target", target)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.CloseAllFor(target, "Your account has been deleted.")
		logx.Info("User deleted", "target", target)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleIPBan adds an address to the banned-IP list and drops every open
// connection from it, whoever is signed in on them.
func HandleIPBan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := chi.URLParam(r, "ip")
		if ip == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Store.BanIP(ip); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.CloseAllFromIP(ip, "Your address has been banned.")
		logx.Info("Address banned", "ip", ip)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleUnIPBan removes an address from the banned-IP list.
func HandleUnIPBan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := chi.URLParam(r, "ip")
		if ip == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Store.UnbanIP(ip); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Address unbanned", "ip", ip)
		resp.RespondSuccess(w, r, nil)
	}
}
