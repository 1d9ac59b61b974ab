// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/models"
)

// multipartOverhead is the body allowance for boundaries and part headers on
// top of the image itself.
const multipartOverhead = 64 << 10

// AnalyzeFood handles image uploads.
//
// @Summary Analyze a food image
// @Description Recognizes the food in an uploaded image, looks up nutrients for every confidently recognized item and stores the scan. Images that are not food return isFood=false and are not stored.
// @Tags Scans
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image to analyze"
// @Success 200 {object} models.AnalyzeResponse
// @Failure 400 {object} models.ErrorResponse "No image uploaded"
// @Failure 413 {object} models.ErrorResponse "Image too large"
// @Failure 415 {object} models.ErrorResponse "Upload is not an image"
// @Failure 500 {object} models.ErrorResponse "Failed to analyze image"
// @Failure 503 {object} models.ErrorResponse "Recognition or nutrition service unavailable"
// @Router /analyze-food [post]
func (h *Handler) AnalyzeFood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	image, err := h.readImage(w, r)
	if err != nil {
		h.respondAnalyzeError(w, r, err)
		return
	}

	res, err := h.scans.Analyze(ctx, image)
	if err != nil {
		h.respondAnalyzeError(w, r, err)
		return
	}

	if !res.IsFood {
		respondJSON(w, http.StatusOK, &models.AnalyzeResponse{IsFood: false})
		return
	}
	respondJSON(w, http.StatusOK, &models.AnalyzeResponse{
		IsFood:    true,
		ScanID:    res.Scan.ID,
		FoodItems: res.Scan.FoodItems,
	})
}

// readImage returns the bytes of the "image" part, bounded by maxUpload.
func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errImageRequired, err)
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errImageRequired, err)
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		return nil, &http.MaxBytesError{Limit: h.maxUpload}
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return nil, &http.MaxBytesError{Limit: h.maxUpload}
	}
	return data, nil
}

func (h *Handler) respondAnalyzeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := analyzeError(err)

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = logging.CtxErr(r.Context(), err)
	} else {
		event = logging.CtxWarn(r.Context()).Err(err)
	}
	event.Int("status", status).Str("code", code).Msg("Image analysis failed")

	respondError(w, status, code, message, nil)
}
