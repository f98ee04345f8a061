package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ProJug/Grunt/internal/app/chat"
	"github.com/ProJug/Grunt/internal/app/storage"
	"github.com/ProJug/Grunt/internal/app/store"
	"github.com/ProJug/Grunt/internal/app/user"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/randx"
	"github.com/ProJug/Grunt/internal/pkg/req"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

// HandleUserData returns the session owner's profile summary.
func HandleUserData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		resp.RespondSuccess(w, r, principal.User.Profile(principal.Username))
	}
}

// HandleSaveProfile updates the caller's display name, handle, and bio.
func HandleSaveProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		displayName := req.FormValue(r, "displayName")
		handle := req.FormValue(r, "handle")
		bio := req.FormValue(r, "bio")

		err := deps.Store.UpdateUser(principal.Username, func(rec *user.User) {
			rec.DisplayName = displayName
			rec.Handle = handle
			rec.Bio = bio
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		http.Redirect(w, r, "/profile.html?saved=1", http.StatusFound)
	}
}

// HandleUploadPost creates a public post from a multipart form, with an
// optional image attachment. The stored post is fanned out to every open
// connection exactly as a websocket-originated post would be.
func HandleUploadPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if custom := req.SetupMultipart(w, r); custom != nil {
			resp.RespondError(w, r, custom)
			return
		}

		message := req.FormValue(r, "message")
		imageURL := ""

		file, header, err := r.FormFile("image")
		switch {
		case err == http.ErrMissingFile:
			// text-only post
		case err != nil:
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		default:
			defer file.Close()

			if custom := storage.ValidateImageSize(header.Size); custom != nil {
				resp.RespondError(w, r, custom)
				return
			}
			contentType := header.Header.Get("Content-Type")
			if custom := storage.ValidateImageType(header.Filename, contentType); custom != nil {
				resp.RespondError(w, r, custom)
				return
			}

			key := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
			imageURL, err = deps.Images.Save(r.Context(), key, contentType, file)
			if err != nil {
				logx.Error(err, "Failed to store post image", "username", principal.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
				return
			}
		}

		if message == "" && imageURL == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			return
		}

		id, err := randx.PostID()
		if err != nil {
			logx.Error(err, "Failed to generate post id")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		post := store.Post{
			ID:        id,
			Username:  principal.Username,
			Message:   message,
			Image:     imageURL,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := deps.Store.AppendPost(post); err != nil {
			logx.Error(err, "Failed to persist post", "username", principal.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdateUser(principal.Username, func(rec *user.User) { rec.Posts++ }); err != nil {
			logx.Warn("Failed to bump post count", "username", principal.Username)
		}

		deps.Registry.Broadcast(chat.NewMessageEvent(post))
		deps.Hub.NotifyMentions(principal.Username, post.Message)

		resp.RespondSuccess(w, r, post)
	}
}

// HandleGetPost returns one public post by id.
func HandleGetPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := deps.Store.GetPost(chi.URLParam(r, "id"))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
			return
		}
		resp.RespondSuccess(w, r, post)
	}
}

// HandleGetThread returns the reply list of a thread. A thread with no
// replies yet answers with an empty list, not an error.
func HandleGetThread(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Store.ThreadReplies(chi.URLParam(r, "id")))
	}
}

// HandleThreadReply appends a reply to a thread and fans it out.
func HandleThreadReply(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		message := req.FormValue(r, "message")
		if message == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			return
		}

		threadID := chi.URLParam(r, "id")
		reply := store.Reply{
			From:      principal.Username,
			Message:   message,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := deps.Store.AppendReply(threadID, reply); err != nil {
			logx.Error(err, "Failed to persist thread reply", "thread", threadID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Registry.Broadcast(chat.NewThreadReplyEvent(threadID, reply))
		resp.RespondSuccess(w, r, reply)
	}
}
