// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orthopress/internal/models"
	"orthopress/internal/store"
)

// ExamPreps groups the exam preparation resource handlers.
type ExamPreps struct {
	preps *store.ExamPrepStore
}

// NewExamPreps creates a new ExamPreps handler group.
func NewExamPreps(preps *store.ExamPrepStore) *ExamPreps {
	return &ExamPreps{preps: preps}
}

type examPrepRequest struct {
	Name        string `json:"name" validate:"required,max=300"`
	Description string `json:"description" validate:"max=2000"`
	DownloadURL string `json:"downloadUrl" validate:"required,max=500"`
	AnswersNote string `json:"answersNote" validate:"max=2000"`
}

// List serves all exam prep resources.
func (h *ExamPreps) List(w http.ResponseWriter, r *http.Request) {
	preps, err := h.preps.List()
	if err != nil {
		slog.Error("exam prep list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"examPreps": preps})
}

// Create inserts a new exam prep resource.
func (h *ExamPreps) Create(w http.ResponseWriter, r *http.Request) {
	var req examPrepRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	created, err := h.preps.Create(&models.ExamPrep{
		Name:        req.Name,
		Description: req.Description,
		DownloadURL: req.DownloadURL,
		AnswersNote: req.AnswersNote,
	})
	if err != nil {
		slog.Error("exam prep create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update rewrites an exam prep resource by id.
func (h *ExamPreps) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req examPrepRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	updated, err := h.preps.Update(&models.ExamPrep{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		DownloadURL: req.DownloadURL,
		AnswersNote: req.AnswersNote,
	})
	if err != nil {
		slog.Error("exam prep update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes an exam prep resource.
func (h *ExamPreps) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.preps.Delete(id)
	if err != nil {
		slog.Error("exam prep delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
}
