// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"mime/multipart"
	"net/http"
)

// uploadField is the multipart field carrying an uploaded image.
const uploadField = "file"

// formFile opens the uploaded image from a multipart request, capping the
// body at the configured upload size. On failure it writes the response and
// returns false.
func (h *Handler) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Upload exceeds the size limit", nil)
			return nil, false
		}
		WriteBadRequest(w, "Invalid multipart form", map[string]string{uploadField: err.Error()})
		return nil, false
	}

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		WriteValidationError(w, map[string]string{uploadField: "is required"})
		return nil, false
	}
	return file, true
}
