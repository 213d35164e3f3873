package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/smartcafe/database/dbhelper"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func validateCategoryFields(name, description string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > models.MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", models.MaxNameLength)
	}
	if len(description) > models.MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", models.MaxDescriptionLength)
	}
	return nil
}

func ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := dbhelper.ListCategories()
	if err != nil {
		logrus.Printf("failed to list categories, error: %v", err)
		http.Error(w, "failed to query categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	category, err := dbhelper.GetCategoryByID(id)
	if err == sql.ErrNoRows {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch category", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(category)
}

type categoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := validateCategoryFields(req.Name, req.Description); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category := &models.Category{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	if err := dbhelper.CreateCategory(category); err != nil {
		logrus.Printf("failed to create category, error: %v", err)
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := validateCategoryFields(req.Name, req.Description); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category := &models.Category{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	err = dbhelper.UpdateCategory(category)
	if err == sql.ErrNoRows {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	} else if err != nil {
		logrus.Printf("failed to update category %s, error: %v", id, err)
		http.Error(w, "failed to update category", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	count, err := dbhelper.CountItemsInCategory(id)
	if err != nil {
		http.Error(w, "failed to check category items", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "category still has menu items", http.StatusConflict)
		return
	}

	err = dbhelper.DeleteCategory(id)
	if err == sql.ErrNoRows {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	} else if errors.Is(err, dbhelper.ErrRestricted) {
		http.Error(w, "category still has menu items", http.StatusConflict)
		return
	} else if err != nil {
		logrus.Printf("failed to delete category %s, error: %v", id, err)
		http.Error(w, "failed to delete category", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type menuItemRequest struct {
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
}

func (req *menuItemRequest) validate() error {
	if err := validateCategoryFields(req.Name, req.Description); err != nil {
		return err
	}
	if req.CategoryID == uuid.Nil {
		return fmt.Errorf("category id is required")
	}
	if !req.Price.IsPositive() {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

func ListMenuItems(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}
	availableOnly := r.URL.Query().Get("available") == "true"

	items, err := dbhelper.ListMenuItems(categoryID, availableOnly)
	if err != nil {
		logrus.Printf("failed to list menu items, error: %v", err)
		http.Error(w, "failed to query menu items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu item id", http.StatusBadRequest)
		return
	}

	item, err := dbhelper.GetMenuItemByID(id)
	if err == sql.ErrNoRows {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch menu item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := &models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if err := dbhelper.CreateMenuItem(item); err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			http.Error(w, "unknown category id", http.StatusBadRequest)
			return
		}
		logrus.Printf("failed to create menu item, error: %v", err)
		http.Error(w, "failed to create menu item", http.StatusInternalServerError)
		return
	}
	AnalyticsCache.Invalidate(r.Context(), popularItemsCacheKey)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu item id", http.StatusBadRequest)
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := &models.MenuItem{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	err = dbhelper.UpdateMenuItem(item)
	if err == sql.ErrNoRows {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	} else if err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			http.Error(w, "unknown category id", http.StatusBadRequest)
			return
		}
		logrus.Printf("failed to update menu item %s, error: %v", id, err)
		http.Error(w, "failed to update menu item", http.StatusInternalServerError)
		return
	}
	AnalyticsCache.Invalidate(r.Context(), popularItemsCacheKey)

	w.WriteHeader(http.StatusNoContent)
}

func DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu item id", http.StatusBadRequest)
		return
	}

	err = dbhelper.DeleteMenuItem(id)
	if err == sql.ErrNoRows {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	} else if errors.Is(err, dbhelper.ErrRestricted) {
		http.Error(w, "menu item is referenced by existing orders", http.StatusConflict)
		return
	} else if err != nil {
		logrus.Printf("failed to delete menu item %s, error: %v", id, err)
		http.Error(w, "failed to delete menu item", http.StatusInternalServerError)
		return
	}
	AnalyticsCache.Invalidate(r.Context(), popularItemsCacheKey)

	w.WriteHeader(http.StatusNoContent)
}
