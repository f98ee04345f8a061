package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/app/store"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/req"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// groupStoreError translates store sentinel errors into API errors.
func groupStoreError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errs.NewError(errs.ErrGroupNotFound)
	case errors.Is(err, store.ErrNoAccess):
		return errs.NewError(errs.ErrGroupAccessDenied)
	case errors.Is(err, store.ErrRoleInsufficient):
		return errs.NewError(errs.ErrGroupRoleInsufficient)
	case errors.Is(err, store.ErrAlreadyMember):
		return errs.NewError(errs.ErrAlreadyMember)
	case errors.Is(err, store.ErrNotMember):
		return errs.NewError(errs.ErrNotMember)
	case errors.Is(err, store.ErrOwnerImmune):
		return errs.NewError(errs.ErrOwnerImmune)
	default:
		return errs.NewError(errs.ErrUnknown)
	}
}

// HandleGroupChatMessages returns the global group chat history.
func HandleGroupChatMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Store.GroupChatMessages())
	}
}

// HandlePostGroupChatMessage appends a message to the global group chat and
// fans it out to every open connection on the group channel.
func HandlePostGroupChatMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var body struct {
			Message string `json:"message"`
		}
		if custom := req.BindJSON(r, &body); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		text := strings.TrimSpace(body.Message)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			return
		}

		msg := store.GroupMessage{
			Username:  principal.Username,
			Message:   text,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := deps.Store.AppendGroupChatMessage(msg); err != nil {
			logx.Error(err, "Failed to persist group chat message", "username", principal.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.Broadcast(chat.NewGroupEvent(msg))
		resp.RespondSuccess(w, r, msg)
	}
}

// HandleCreatePrivateGroup creates a private group owned by the caller.
func HandleCreatePrivateGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if custom := req.BindJSON(r, &body); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidGroupName))
			return
		}

		group, err := deps.Store.CreatePrivateGroup(name, principal.Username)
		if err != nil {
			logx.Error(err, "Failed to create private group", "username", principal.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Private group created", "group", group.ID, "owner", principal.Username)
		resp.RespondSuccess(w, r, group)
	}
}

// HandleListPrivateGroups returns the private groups the caller belongs to.
func HandleListPrivateGroups(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		resp.RespondSuccess(w, r, deps.Store.PrivateGroupsFor(principal.Username))
	}
}

// memberGroup loads a group and enforces membership for the caller.
func memberGroup(deps *AppDeps, r *http.Request) (store.PrivateGroup, *session.Principal, *errs.CustomError) {
	principal := session.GetPrincipal(r)
	if principal == nil {
		return store.PrivateGroup{}, nil, errs.NewError(errs.ErrUnauthorized)
	}

	group, ok := deps.Store.GetPrivateGroup(chi.URLParam(r, "id"))
	if !ok {
		return store.PrivateGroup{}, nil, errs.NewError(errs.ErrGroupNotFound)
	}
	if !group.IsMember(principal.Username) {
		return store.PrivateGroup{}, nil, errs.NewError(errs.ErrGroupAccessDenied)
	}
	return group, principal, nil
}

// HandleGetPrivateGroup returns one group's details to a member.
func HandleGetPrivateGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, _, custom := memberGroup(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}
		resp.RespondSuccess(w, r, group)
	}
}

// HandleInviteToGroup adds a user to a group. Only the owner and admins may
// invite; the invitee must be a real account.
func HandleInviteToGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var body struct {
			Username string `json:"username"`
		}
		if custom := req.BindJSON(r, &body); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		invitee := strings.TrimSpace(body.Username)
		if !deps.Store.UserExists(invitee) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		group, err := deps.Store.InviteToGroup(chi.URLParam(r, "id"), principal.Username, invitee)
		if err != nil {
			resp.RespondError(w, r, groupStoreError(err))
			return
		}

		logx.Info("User invited to private group", "group", group.ID, "invitee", invitee)
		resp.RespondSuccess(w, r, group)
	}
}

// HandleKickFromGroup removes a member from a group. The owner cannot be
// kicked, not even by an admin.
func HandleKickFromGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var body struct {
			Username string `json:"username"`
		}
		if custom := req.BindJSON(r, &body); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		group, err := deps.Store.KickFromGroup(chi.URLParam(r, "id"), principal.Username, strings.TrimSpace(body.Username))
		if err != nil {
			resp.RespondError(w, r, groupStoreError(err))
			return
		}

		resp.RespondSuccess(w, r, group)
	}
}

// HandlePrivateGroupMessages returns a group's message history to a member.
func HandlePrivateGroupMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, _, custom := memberGroup(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}
		resp.RespondSuccess(w, r, deps.Store.PrivateGroupMessages(group.ID))
	}
}

// HandlePostPrivateGroupMessage appends a message to a group and delivers
// it to the members' open connections only.
func HandlePostPrivateGroupMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, principal, custom := memberGroup(deps, r)
		if custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		var body struct {
			Message string `json:"message"`
		}
		if custom := req.BindJSON(r, &body); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		text := strings.TrimSpace(body.Message)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			return
		}

		msg := store.GroupMessage{
			Username:  principal.Username,
			Message:   text,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := deps.Store.AppendPrivateGroupMessage(group.ID, msg); err != nil {
			logx.Error(err, "Failed to persist private group message", "group", group.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		event := chat.NewPrivateGroupEvent(group.ID, msg)
		for _, member := range group.Members {
			deps.Registry.SendTo(member, event)
		}

		resp.RespondSuccess(w, r, msg)
	}
}
