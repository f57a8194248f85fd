package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hongminglow/km-agri-be/internal/http/respond"
	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/storage"
	"github.com/hongminglow/km-agri-be/internal/validation"
)

var validate = validation.New()

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// userIDParam reads the {id} path segment, writing a 400 when it is not
// an ObjectID.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !primitive.IsValidObjectID(id) {
		respond.Error(w, http.StatusBadRequest, "Invalid user ID")
		return "", false
	}
	return id, true
}

// loadUser fetches the user named by the path, writing the error response
// itself when it cannot.
func loadUser(w http.ResponseWriter, r *http.Request, store storage.UserStore, failure string) (models.User, bool) {
	id, ok := userIDParam(w, r)
	if !ok {
		return models.User{}, false
	}
	user, err := store.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
		} else {
			respond.Internal(w, failure, err)
		}
		return models.User{}, false
	}
	return user, true
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return n
}

// publish sends event and only logs failures.
func publish(ctx context.Context, events notify.Publisher, event notify.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		log.Printf("publish %s for user %s: %v", event.Type, event.UserID, err)
	}
}
