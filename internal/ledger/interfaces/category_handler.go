package interfaces

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
)

type CategoryServiceInterface interface {
	CreateCategory(category *domain.Category) error
	GetUserCategories(userID string) ([]domain.Category, error)
	UpdateCategory(category *domain.Category) error
	DeleteCategory(categoryID, userID string) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewCategoryHandler(service CategoryServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &CategoryHandler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	category.UserID = userID
	if err := h.service.CreateCategory(&category); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully created.",
		"data":    category,
	})
}

func (h *CategoryHandler) GetUserCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	categories, err := h.service.GetUserCategories(userID)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   categories,
	})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	category.ID = r.PathValue("categoryID")
	category.UserID = userID
	if err := h.service.UpdateCategory(&category); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully updated.",
		"data":    category,
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.service.DeleteCategory(r.PathValue("categoryID"), userID); err != nil {
		status, message := serviceErrorStatus(err)
		h.respondError(w, status, message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully deleted.",
	})
}
