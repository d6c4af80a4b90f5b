package services

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "ageheap/internal/errors"
	"ageheap/internal/spreadsheet"
	"ageheap/internal/validation"
)

// User-facing messages of analysis failures.
const (
	MsgMissingColumns     = "Le fichier doit contenir les colonnes: Age, Homme, Femme"
	MsgUnreadableWorkbook = "Impossible de lire le classeur Excel"
	msgProcessingFailed   = "Erreur lors du traitement: %s"
)

// ErrUploadDirUnavailable is returned when an upload cannot be stored.
var ErrUploadDirUnavailable = errors.New("upload directory unavailable")

// toAPIError classifies an analysis failure into the error shown to clients.
func toAPIError(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, validation.ErrFileTooLarge):
		return apierrors.Wrap(err, http.StatusRequestEntityTooLarge, apierrors.CodePayloadTooLarge, err.Error())

	case errors.Is(err, validation.ErrNoFile),
		errors.Is(err, validation.ErrEmptyFilename),
		errors.Is(err, validation.ErrExtensionNotAllowed):
		return apierrors.Wrap(err, http.StatusBadRequest, apierrors.CodeInvalidUpload, err.Error())

	case errors.Is(err, spreadsheet.ErrMissingColumns):
		apiErr = apierrors.Wrap(err, http.StatusBadRequest, apierrors.CodeMissingColumns, MsgMissingColumns)
		var mce *spreadsheet.MissingColumnsError
		if errors.As(err, &mce) {
			apiErr.Details = map[string]any{"missing": mce.Missing}
		}
		return apiErr

	case errors.Is(err, spreadsheet.ErrUnreadableWorkbook),
		errors.Is(err, spreadsheet.ErrSheetNotFound):
		apiErr = apierrors.Wrap(err, http.StatusUnprocessableEntity, apierrors.CodeUnreadableWorkbook, MsgUnreadableWorkbook)
		apiErr.Details = err.Error()
		return apiErr

	default:
		return apierrors.Wrap(err, http.StatusInternalServerError, apierrors.CodeProcessingFailed,
			fmt.Sprintf(msgProcessingFailed, err.Error()))
	}
}
