package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/smartcafe/database/dbhelper"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := dbhelper.ListUsers()
	if err != nil {
		logrus.Printf("failed to list users, error: %v", err)
		http.Error(w, "failed to query users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := dbhelper.GetUserByID(id)
	if err == sql.ErrNoRows {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	type request struct {
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		Phone     string      `json:"phone"`
		Role      models.Role `json:"role"`
		StudentID *string     `json:"student_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if !req.Role.IsValid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	err = dbhelper.UpdateUser(id, req.FirstName, req.LastName, req.Phone, req.Role, req.StudentID)
	if err == sql.ErrNoRows {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	} else if err != nil {
		if dbhelper.IsUniqueViolation(err) {
			http.Error(w, "student id already in use", http.StatusConflict)
			return
		}
		logrus.Printf("failed to update user %s, error: %v", id, err)
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	err = dbhelper.ArchiveUser(id)
	if err == sql.ErrNoRows {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	} else if err != nil {
		logrus.Printf("failed to archive user %s, error: %v", id, err)
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func TopUpBalance(w http.ResponseWriter, r *http.Request) {
	type request struct {
		StudentID string          `json:"student_id"`
		Amount    decimal.Decimal `json:"amount"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.StudentID == "" {
		http.Error(w, "student id is required", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	balance, err := dbhelper.TopUpBalance(req.StudentID, req.Amount)
	if err == sql.ErrNoRows {
		http.Error(w, "student not found", http.StatusNotFound)
		return
	} else if err != nil {
		logrus.Printf("failed to top up balance for student %s, error: %v", req.StudentID, err)
		http.Error(w, "failed to top up balance", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"balance": balance,
	})
}
