package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/immpres/immpres-server/pkg/acl"
	"github.com/immpres/immpres-server/pkg/audit"
	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/identity"
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/query"
	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/server/middleware"
	"github.com/immpres/immpres-server/pkg/server/store"
)

// ResourceMeta is the mutable metadata subset of a write body. Pointer
// fields distinguish "not sent" from "set to zero". Originator is absent on
// purpose: it is immutable after creation.
type ResourceMeta struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Template    *string   `json:"template"`
	Thumbnail   *string   `json:"thumbnail"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Owner       *string   `json:"owner"`
	Editors     *[]string `json:"editors"`
	Viewers     *[]string `json:"viewers"`
	Browsers    *[]string `json:"browsers"`
	NbLikes     *int      `json:"nbLikes"`
	NbViews     *int      `json:"nbViews"`
}

// ResourceRequest is the write body: metadata nested under meta, opaque
// payloads at the top level. Payloads replace wholesale when present.
type ResourceRequest struct {
	Meta   *ResourceMeta  `json:"meta"`
	Scene  model.Document `json:"scene,omitempty"`
	Path   model.Document `json:"path,omitempty"`
	States model.Document `json:"states,omitempty"`
	Data   model.Document `json:"data,omitempty"`
}

// ResourceResponse represents a resource in the API response. List endpoints
// leave the payload fields empty; single fetches carry them.
type ResourceResponse struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"shortId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Template    string    `json:"template,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	Owner       string    `json:"owner"`
	Originator  string    `json:"originator"`
	Editors     []string  `json:"editors"`
	Viewers     []string  `json:"viewers"`
	Browsers    []string  `json:"browsers"`
	NbLikes     int       `json:"nbLikes"`
	NbViews     int       `json:"nbViews"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`

	Scene  model.Document `json:"scene,omitempty"`
	Path   model.Document `json:"path,omitempty"`
	States model.Document `json:"states,omitempty"`
	Data   model.Document `json:"data,omitempty"`
}

func summaryResponse(r *model.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		ShortID:     r.ShortID,
		Name:        r.Name,
		Description: r.Description,
		Template:    r.Template,
		Thumbnail:   r.Thumbnail,
		Category:    r.Category,
		Tags:        r.Tags,
		Owner:       r.OwnerID,
		Originator:  r.OriginatorID,
		Editors:     r.Editors,
		Viewers:     r.Viewers,
		Browsers:    r.Browsers,
		NbLikes:     r.NbLikes,
		NbViews:     r.NbViews,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		ModifiedAt:  r.ModifiedAt,
	}
}

func fullResponse(r *model.Resource) ResourceResponse {
	response := summaryResponse(r)
	response.Scene = r.Scene
	response.Path = r.Path
	response.States = r.States
	response.Data = r.Data
	return response
}

// registerResourceEndpoints mounts the shared CRUD handlers for one kind
// behind the token gate.
func registerResourceEndpoints(s *server.Server, kind model.Kind, prefix string) {
	auth := middleware.NewTokenAuthenticator(s.Tokens, s.UsersStore, s.Config)

	router := s.Router.PathPrefix(prefix).Subrouter()
	router.Use(auth.Middleware)

	router.HandleFunc("", handleListResources(s.ResourcesStore, s.Config, kind)).Methods("GET")
	router.HandleFunc("/", handleListResources(s.ResourcesStore, s.Config, kind)).Methods("GET")
	router.HandleFunc("", handleCreateResource(s.ResourcesStore, kind)).Methods("POST")
	router.HandleFunc("/{id}", handleGetResource(s.ResourcesStore, kind)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateResource(s.ResourcesStore, kind)).Methods("PUT")
	router.HandleFunc("/{id}", handleDeleteResource(s.ResourcesStore, kind)).Methods("DELETE")
}

func handleListResources(resources store.ResourcesStore, cfg *config.Config, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		criteria, err := query.ParseCriteria(r.URL.Query(), cfg.APIResourceListLimitMax)
		if err != nil {
			respondWithError(w, http.StatusForbidden, "Unknown role")
			return
		}

		rows, err := resources.List(kind, criteria, id.UserID)
		if err != nil {
			if errors.Is(err, query.ErrConflictingFilters) {
				respondWithError(w, http.StatusForbidden, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		out := make([]ResourceResponse, 0, len(rows))
		for i := range rows {
			out = append(out, summaryResponse(&rows[i]))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleGetResource(resources store.ResourcesStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		resource, err := resources.Find(kind, mux.Vars(r)["id"])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Not Found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		// Invisible and absent answer identically so existence never leaks.
		if !acl.CanRead(id.UserID, resource) {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		respondWithJSON(w, http.StatusOK, fullResponse(resource))
	}
}

func handleCreateResource(resources store.ResourcesStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		var req ResourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Meta == nil || req.Meta.Name == nil || *req.Meta.Name == "" {
			respondWithError(w, http.StatusForbidden, "Name is required")
			return
		}

		resource, err := model.NewResource(kind, *req.Meta.Name, id.UserID)
		if err != nil {
			respondWithError(w, http.StatusForbidden, err.Error())
			return
		}

		// Owner and originator are pinned to the creator; a meta.owner in the
		// creation body is ignored.
		applyMeta(resource, req.Meta, kind)
		resource.OwnerID = id.UserID
		resource.OriginatorID = id.UserID
		applyPayloads(resource, &req, kind)

		if err := resources.Create(resource); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		respondWithJSON(w, http.StatusOK, fullResponse(resource))
	}
}

func handleUpdateResource(resources store.ResourcesStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		var req ResourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		resource, err := resources.Find(kind, mux.Vars(r)["id"])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Not Found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		if !acl.CanWrite(id.UserID, resource) {
			audit.Log(audit.CheckEvent{
				UserID:     id.UserID,
				ClientIP:   id.RemoteIP.String(),
				ResourceID: resource.ID,
				Capability: "update",
			})
			respondWithError(w, http.StatusForbidden, "Not Authorized")
			return
		}

		if req.Meta != nil && req.Meta.Name != nil && *req.Meta.Name == "" {
			respondWithError(w, http.StatusForbidden, "Name is required")
			return
		}

		// Validate-then-commit: every change lands on a draft, every
		// authorization predicate runs against the pre-image, and the live
		// record only changes if all of them pass.
		draft := *resource
		applyMeta(&draft, req.Meta, kind)
		applyPayloads(&draft, &req, kind)

		if req.Meta != nil && req.Meta.Owner != nil && *req.Meta.Owner != resource.OwnerID {
			if !acl.CanReassignOwner(id.UserID, resource) {
				audit.Log(audit.CheckEvent{
					UserID:     id.UserID,
					ClientIP:   id.RemoteIP.String(),
					ResourceID: resource.ID,
					Capability: "reassign-owner",
				})
				respondWithError(w, http.StatusUnauthorized, "Not Authorized")
				return
			}
			draft.OwnerID = *req.Meta.Owner
		}

		if err := resources.Save(&draft); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		audit.Log(audit.UpdateEvent{
			UserID:     id.UserID,
			ClientIP:   id.RemoteIP.String(),
			ResourceID: draft.ID,
			Version:    draft.Version,
		})

		respondWithJSON(w, http.StatusOK, fullResponse(&draft))
	}
}

func handleDeleteResource(resources store.ResourcesStore, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		resource, err := resources.Find(kind, mux.Vars(r)["id"])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "Not Found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		// Delete is strictly owner-only; a wildcard editor grant never
		// confers it.
		if !acl.CanDelete(id.UserID, resource) {
			audit.Log(audit.CheckEvent{
				UserID:     id.UserID,
				ClientIP:   id.RemoteIP.String(),
				ResourceID: resource.ID,
				Capability: "delete",
			})
			respondWithError(w, http.StatusUnauthorized, "Not Authorized")
			return
		}

		if err := resources.Delete(resource); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Store failure")
			return
		}

		audit.Log(audit.DeleteEvent{
			UserID:     id.UserID,
			ClientIP:   id.RemoteIP.String(),
			ResourceID: resource.ID,
		})

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Deleted"})
	}
}

// applyMeta copies the sent metadata fields onto the resource. Template only
// applies to impressions; owner and originator are handled by the callers.
func applyMeta(resource *model.Resource, meta *ResourceMeta, kind model.Kind) {
	if meta == nil {
		return
	}
	if meta.Name != nil && *meta.Name != "" {
		resource.Name = *meta.Name
	}
	if meta.Description != nil {
		resource.Description = *meta.Description
	}
	if meta.Template != nil && kind == model.KindImpression {
		resource.Template = *meta.Template
	}
	if meta.Thumbnail != nil {
		resource.Thumbnail = *meta.Thumbnail
	}
	if meta.Category != nil {
		resource.Category = *meta.Category
	}
	if meta.Tags != nil {
		resource.Tags = *meta.Tags
	}
	if meta.Editors != nil {
		resource.Editors = *meta.Editors
	}
	if meta.Viewers != nil {
		resource.Viewers = *meta.Viewers
	}
	if meta.Browsers != nil {
		resource.Browsers = *meta.Browsers
	}
	if meta.NbLikes != nil {
		resource.NbLikes = *meta.NbLikes
	}
	if meta.NbViews != nil {
		resource.NbViews = *meta.NbViews
	}
}

// applyPayloads replaces the opaque payloads wholesale when present. Scene,
// path and states belong to impressions; data belongs to objects.
func applyPayloads(resource *model.Resource, req *ResourceRequest, kind model.Kind) {
	if kind == model.KindImpression {
		if len(req.Scene) > 0 {
			resource.Scene = req.Scene
		}
		if len(req.Path) > 0 {
			resource.Path = req.Path
		}
		if len(req.States) > 0 {
			resource.States = req.States
		}
		return
	}
	if len(req.Data) > 0 {
		resource.Data = req.Data
	}
}
