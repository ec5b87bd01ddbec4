package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/immpres/immpres-server/pkg/identity"
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/server/middleware"
	"github.com/immpres/immpres-server/pkg/server/store"
)

// ProfileResponse is the account view handed to its owner.
type ProfileResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Photo       string     `json:"photo,omitempty"`
	Newsletter  bool       `json:"newsletter"`
	CreatedAt   time.Time  `json:"createdAt"`
	VisitedAt   *time.Time `json:"visitedAt,omitempty"`
}

// ProfileRequest carries the mutable profile fields.
type ProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DisplayName *string `json:"displayName"`
	Photo       *string `json:"photo"`
	Newsletter  *bool   `json:"newsletter"`
}

// PasswordRequest carries a password change.
type PasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// RegisterUsersEndpoints registers the account profile endpoints
func RegisterUsersEndpoints(s *server.Server) {
	auth := middleware.NewTokenAuthenticator(s.Tokens, s.UsersStore, s.Config)

	usersRouter := s.Router.PathPrefix("/api/users").Subrouter()
	usersRouter.Use(auth.Middleware)

	usersRouter.HandleFunc("/profile", handleGetProfile(s.UsersStore)).Methods("GET")
	usersRouter.HandleFunc("/profile", handleUpdateProfile(s.UsersStore)).Methods("PUT")
	usersRouter.HandleFunc("/password", handleUpdatePassword(s.UsersStore, s.Config.BcryptCost)).Methods("PUT")
}

func profileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName,
		Photo:       user.Photo,
		Newsletter:  user.Newsletter,
		CreatedAt:   user.CreatedAt,
		VisitedAt:   user.VisitedAt,
	}
}

func handleGetProfile(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		user, err := users.FindByID(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		respondWithJSON(w, http.StatusOK, profileResponse(user))
	}
}

func handleUpdateProfile(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		var req ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.FindByID(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.DisplayName != nil {
			user.DisplayName = *req.DisplayName
		}
		if req.Photo != nil {
			user.Photo = *req.Photo
		}
		if req.Newsletter != nil {
			user.Newsletter = *req.Newsletter
		}

		if err := users.Save(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		respondWithJSON(w, http.StatusOK, profileResponse(user))
	}
}

func handleUpdatePassword(users store.UsersStore, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		var req PasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.FindByID(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		if !user.ComparePassword(req.OldPassword) {
			respondWithError(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}

		if err := user.SetPassword(req.NewPassword, bcryptCost); err != nil {
			respondWithError(w, http.StatusForbidden, err.Error())
			return
		}

		if err := users.Save(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Password Updated"})
	}
}
