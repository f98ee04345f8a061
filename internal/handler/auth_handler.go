package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/ProJug/Grunt/internal/app/user"
	"github.com/ProJug/Grunt/internal/pkg/auth/session"
	"github.com/ProJug/Grunt/internal/pkg/errs"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/req"
	"github.com/ProJug/Grunt/internal/pkg/resp"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= 6 && n <= 50
}

// HandleSignup registers a new account and signs it in. The form posts from
// a plain HTML page, so success answers with a redirect; validation
// failures use the JSON error envelope.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := req.FormValue(r, "username")
		password := r.FormValue("password")

		if !usernamePattern.MatchString(username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}
		if !validPassword(password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logx.Error(err, "Failed to hash password")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.CreateUser(username, string(hash), deps.Config.AdminUsername); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
			return
		}

		token, err := session.GenerateToken(username, deps.Config.SessionSecret)
		if err != nil {
			logx.Error(err, "Failed to generate session token", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		session.SetCookie(w, token)
		logx.Info("User signed up", "username", username)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// HandleSignin verifies credentials, records the caller's address on the
// account, and issues a fresh session cookie. Failures redirect back to the
// signin page with an error hint the page renders.
func HandleSignin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := req.FormValue(r, "username")
		password := r.FormValue("password")

		u, ok := deps.Store.GetUser(username)
		if !ok {
			http.Redirect(w, r, "/signin.html?error=notfound", http.StatusFound)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			http.Redirect(w, r, "/signin.html?error=wrongpass", http.StatusFound)
			return
		}

		ip := clientIP(r)
		if err := deps.Store.UpdateUser(username, func(rec *user.User) { rec.IP = ip }); err != nil {
			logx.Warn("Failed to record signin address", "username", username)
		}

		token, err := session.GenerateToken(username, deps.Config.SessionSecret)
		if err != nil {
			logx.Error(err, "Failed to generate session token", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		session.SetCookie(w, token)
		logx.Info("User signed in", "username", username)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// HandleLogout clears the session cookie. The token itself stays valid until
// expiry; the cookie is the only place it lives.
func HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.ClearCookie(w)
		http.Redirect(w, r, "/signin.html", http.StatusFound)
	}
}

// HandleChangePassword swaps the caller's password after verifying the old
// one. Existing sessions stay live.
func HandleChangePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := session.GetPrincipal(r)
		if principal == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		oldPassword := r.FormValue("oldPassword")
		newPassword := r.FormValue("newPassword")

		if bcrypt.CompareHashAndPassword([]byte(principal.User.Password), []byte(oldPassword)) != nil {
			http.Redirect(w, r, "/settings.html?error=wrongpass", http.StatusFound)
			return
		}
		if !validPassword(newPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			logx.Error(err, "Failed to hash password")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdateUser(principal.Username, func(rec *user.User) { rec.Password = string(hash) }); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		logx.Info("User changed password", "username", principal.Username)
		http.Redirect(w, r, "/settings.html?saved=1", http.StatusFound)
	}
}
