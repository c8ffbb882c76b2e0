package middleware

import (
	"errors"
	"log"
	"net/http"

	"pumpkin-store/store"
	"pumpkin-store/utils"
)

// HandlerFunc is a request handler that reports failure through its return
// value instead of writing the error response itself.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Handle adapts a HandlerFunc to http.HandlerFunc, translating every failure
// into the JSON error envelope. This is the single place errors are shaped
// for clients.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var appErr *utils.AppError
		switch {
		case store.IsDuplicateKey(err):
			appErr = utils.NewConflict("This email is already registered. Please login to continue.")
		case errors.As(err, &appErr):
		default:
			log.Printf("unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
			appErr = utils.NewInternal("Internal Server Error")
		}
		WriteError(w, appErr)
	}
}

// WriteError writes the JSON error envelope for err.
func WriteError(w http.ResponseWriter, err *utils.AppError) {
	utils.JSON(w, err.StatusCode, map[string]interface{}{
		"success": false,
		"message": err.Message,
	})
}
