// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/middleware"
	"github.com/danielhkuo/mentoria/models"
)

// FrontendContext prefixes the context of every client-reported record.
const FrontendContext = "Frontend Error"

const logErrorContext = "Log de error del cliente"

type LogHandler struct {
	logger *applog.Logger
}

func NewLogHandler(logger *applog.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// LogError handles POST /api/log-error
func (h *LogHandler) LogError(w http.ResponseWriter, r *http.Request) error {
	var body map[string]any
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		return middleware.ValidationError(logErrorContext, "Invalid JSON",
			map[string]string{"body": err.Error()}, nil)
	}

	// message must be a string; other types are rejected, not coerced
	msg, ok := body["message"].(string)
	if !ok || msg == "" {
		return middleware.ValidationError(logErrorContext, "message is required and must be a string",
			map[string]string{"message": "required string"}, body)
	}

	req := models.ClientErrorRequest{Message: msg}
	req.Context, _ = body["context"].(string)
	req.Stack, _ = body["stack"].(string)
	req.AdditionalInfo, _ = body["additionalInfo"].(map[string]any)

	errContext := FrontendContext
	if req.Context != "" {
		errContext += " - " + req.Context
	}

	details := make(map[string]any, len(body))
	for k, v := range body {
		switch k {
		case "message", "context", "stack":
			continue
		}
		details[k] = v
	}
	// a value of any other shape is logged as sent
	if v, ok := body["additionalInfo"]; !ok || v == nil {
		details["additionalInfo"] = map[string]any{}
	}
	details["clientIp"] = middleware.GetClientIP(r)

	var clientErr error = errors.New(req.Message)
	if req.Stack != "" {
		clientErr = applog.WithStack(clientErr, req.Stack)
	}

	rec := h.logger.LogError(errContext, clientErr, details, applog.CategoryGeneral)

	middleware.SetAccessNote(r, "client error "+rec.ID)
	middleware.JSONResponse(w, http.StatusOK, models.LogErrorResponse{
		Success: true,
		ErrorID: rec.ID,
	})
	return nil
}
