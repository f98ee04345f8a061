package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// HandleGetUserProfile returns another account's public profile, including
// whether the caller already follows it.
func HandleGetUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		target := chi.URLParam(r, "username")
		u, ok := deps.Store.GetUser(target)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, u.PublicProfile(target, &principal.User))
	}
}

// HandleFollow adds the caller to target's followers and notifies the
// target over any open connections. Following is idempotent.
func HandleFollow(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		target := chi.URLParam(r, "username")
		if target == principal.Username || !deps.Store.UserExists(target) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidFollowTarget))
			return
		}

		if err := deps.Store.Follow(principal.Username, target); err != nil {
			logx.Error(err, "Failed to persist follow", "username", principal.Username, "target", target)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.SendTo(target, chat.NewNotification(chat.SubTypeFollow, principal.Username))
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleUnfollow removes the caller from target's followers.
func HandleUnfollow(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		target := chi.URLParam(r, "username")
		if target == principal.Username || !deps.Store.UserExists(target) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidFollowTarget))
			return
		}

		if err := deps.Store.Unfollow(principal.Username, target); err != nil {
			logx.Error(err, "Failed to persist unfollow", "username", principal.Username, "target", target)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleDMHistory returns the full conversation between the caller and
// target, oldest first. A pair that has never talked gets an empty list.
func HandleDMHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		target := chi.URLParam(r, "target")
		if !deps.Store.UserExists(target) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, deps.Store.DMHistory(principal.Username, target))
	}
}

// HandleRecentDMs returns the caller's conversation list, most recent
// first, with a preview of the last message in each.
func HandleRecentDMs(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		resp.RespondSuccess(w, r, deps.Store.RecentDMs(principal.Username))
	}
}
