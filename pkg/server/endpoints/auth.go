package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/immpres/immpres-server/pkg/audit"
	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/server/store"
	"github.com/immpres/immpres-server/pkg/token"
)

// SignupRequest is the account creation body.
type SignupRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Newsletter *bool  `json:"newsletter"`
}

// SignupResponse surfaces the activation token directly; email delivery is
// handled outside this service.
type SignupResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	ActivationToken string `json:"activationToken"`
}

// LoginRequest carries username-or-email plus password.
type LoginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the session handed back on a successful login. Key and
// token together form the credential pair for the x-key/x-access-token
// headers.
type LoginResponse struct {
	Key       string    `json:"key"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// RegisterAuthEndpoints registers the account lifecycle endpoints. These sit
// outside the protected API prefix: signup and login have no credentials yet,
// and logout/authenticated carry their own header handling.
func RegisterAuthEndpoints(s *server.Server) {
	users := s.UsersStore
	tokens := s.Tokens
	cfg := s.Config

	authRouter := s.Router.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", handleSignup(users, cfg)).Methods("POST")
	authRouter.HandleFunc("/signup_verify/{token}", handleSignupVerify(users)).Methods("GET")
	authRouter.HandleFunc("/login", handleLogin(users, tokens)).Methods("POST")
	authRouter.HandleFunc("/logout", handleLogout(users, tokens, cfg)).Methods("GET")
	authRouter.HandleFunc("/authenticated", handleAuthenticated(users, tokens, cfg)).Methods("GET")
}

func handleSignup(users store.UsersStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := model.NewUser(req.Username, req.Email, req.Password, cfg.BcryptCost)
		if err != nil {
			respondWithError(w, http.StatusForbidden, err.Error())
			return
		}
		if req.Newsletter != nil {
			user.Newsletter = *req.Newsletter
		}
		user.ActivationToken = uuid.NewString()

		if err := users.Create(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		audit.Log(audit.SignupEvent{
			UserID:   user.ID,
			Username: user.Username,
			ClientIP: clientIP(r),
		})

		respondWithJSON(w, http.StatusOK, SignupResponse{
			ID:              user.ID,
			Username:        user.Username,
			Email:           user.Email,
			ActivationToken: user.ActivationToken,
		})
	}
}

func handleSignupVerify(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activationToken := mux.Vars(r)["token"]

		user, err := users.FindByActivationToken(activationToken)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		// The token is single-use: activation clears it, so a second visit
		// with the same token lands in the not-found branch above.
		user.Activated = true
		user.ActivationToken = ""

		if err := users.Save(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		audit.Log(audit.SignupEvent{
			UserID:    user.ID,
			Username:  user.Username,
			ClientIP:  clientIP(r),
			Activated: true,
		})

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"activated": true})
	}
}

func handleLogin(users store.UsersStore, tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		login := req.Login
		if login == "" {
			login = req.Username
		}

		user, err := users.FindByLogin(login)
		if err != nil {
			audit.Log(audit.AuthenticateEvent{
				Login:        login,
				ClientIP:     clientIP(r),
				ErrorMessage: "unknown login",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}

		if !user.Activated {
			audit.Log(audit.AuthenticateEvent{
				UserID:       user.ID,
				Login:        login,
				ClientIP:     clientIP(r),
				ErrorMessage: "account not activated",
			})
			respondWithError(w, http.StatusUnauthorized, "Account Not Activated")
			return
		}

		if !user.ComparePassword(req.Password) {
			audit.Log(audit.AuthenticateEvent{
				UserID:       user.ID,
				Login:        login,
				ClientIP:     clientIP(r),
				ErrorMessage: "incorrect password",
			})
			respondWithError(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}

		signed, expiresAt, err := tokens.Issue(user.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		// One live session per account: a new login overwrites the old token.
		user.AccessToken = signed
		user.AccessTokenExpires = &expiresAt

		if err := users.Save(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		audit.Log(audit.AuthenticateEvent{
			UserID:   user.ID,
			Login:    login,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, LoginResponse{
			Key:       user.ID,
			Token:     signed,
			ExpiresAt: expiresAt,
			Username:  user.Username,
			Role:      user.Role,
		})
	}
}

// lookupByHeaders resolves the (x-key, x-access-token) pair against the
// store. Signature re-verification before the lookup is opt-in via config;
// the stored pair is otherwise trusted.
func lookupByHeaders(r *http.Request, users store.UsersStore, tokens *token.Service, cfg *config.Config) (*model.User, error) {
	key := r.Header.Get("x-key")
	accessToken := r.Header.Get("x-access-token")
	if key == "" || accessToken == "" {
		return nil, store.ErrNotFound
	}

	if cfg.VerifySignatureOnLookup {
		if _, err := tokens.Verify(accessToken); err != nil {
			return nil, err
		}
	}

	return users.FindByIDAndToken(key, accessToken)
}

func handleLogout(users store.UsersStore, tokens *token.Service, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := lookupByHeaders(r, users, tokens, cfg)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		now := time.Now().UTC()
		user.AccessToken = ""
		user.AccessTokenExpires = nil
		user.VisitedAt = &now

		if err := users.Save(user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Logged Out"})
	}
}

func handleAuthenticated(users store.UsersStore, tokens *token.Service, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := lookupByHeaders(r, users, tokens, cfg)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, token.ErrInvalidToken) {
				respondWithJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		authenticated := user.AccessTokenExpires == nil || user.AccessTokenExpires.After(time.Now())
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"authenticated": authenticated})
	}
}
