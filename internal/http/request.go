package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
)

// pathObjectID parses a path parameter as a Mongo object id. A malformed id
// is always an invalid-input error, never a not-found.
func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidIdentifierErr.WrapParent(
			fmt.Errorf("parse %s %q: %w", name, raw, err))
	}

	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
