package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"scenforge/adapters/validate"
	"scenforge/app"
	"scenforge/domain/core"
	"scenforge/domain/scenario"
	"scenforge/internal/apperr"
	"scenforge/models"
	"scenforge/ports"
)

// generateResponse frames one single-run result.
type generateResponse struct {
	RunID     core.RunID      `json:"run_id"`
	Seed      core.Seed       `json:"seed"`
	Record    scenario.Record `json:"record"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

// batchRequest is the /api/batch body.
type batchRequest struct {
	Plan          models.GenerationPlan `json:"plan"`
	Runs          int                   `json:"runs"`
	Parallelism   int                   `json:"parallelism"`
	SummariesOnly bool                  `json:"summaries_only"`
}

func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var plan models.GenerationPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		a.writeError(w, apperr.InvalidInput("request body is not a generation plan: "+err.Error()))
		return
	}

	validator, err := a.resolveValidator(plan)
	if err != nil {
		a.writeError(w, err)
		return
	}

	engine, err := app.CompileEngine(plan, app.CompileOptions{
		Bridge:    a.registry,
		Validator: validator,
		Logger:    a.logger,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	started := time.Now()
	record, err := engine.Run(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, generateResponse{
		RunID:     engine.ID(),
		Seed:      engine.Seed(),
		Record:    record,
		ElapsedMs: time.Since(started).Milliseconds(),
	})
}

func (a *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperr.InvalidInput("request body is not a batch request: "+err.Error()))
		return
	}

	validator, err := a.resolveValidator(req.Plan)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := a.batch.Run(r.Context(), app.BatchRequest{
		Plan:        req.Plan,
		Runs:        req.Runs,
		Parallelism: req.Parallelism,
		Validator:   validator,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	if req.SummariesOnly {
		result.Records = nil
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleProviders(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"providers": a.registry.Names(),
		"usage":     a.registry.Usage(),
	})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveValidator builds the schema validator a plan asks for, if any.
func (a *App) resolveValidator(plan models.GenerationPlan) (ports.RecordValidator, error) {
	if plan.Schema == nil {
		return nil, nil
	}
	validator, err := validate.NewSchemaValidatorFromFile(plan.Schema.Document, plan.Schema.Name)
	if err != nil {
		return nil, apperr.WithCode(apperr.CodeInvalidInput, err)
	}
	return validator, nil
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("encode response: %v", err)
	}
}

// writeError maps the error taxonomy to an HTTP status and renders the
// AppError envelope.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperr.CodeInternalError

	switch {
	case core.IsInputError(err) || core.IsLifecycleError(err):
		status, code = http.StatusBadRequest, apperr.CodeInvalidInput
	case errors.Is(err, core.ErrProviderNotRegistered):
		status, code = http.StatusUnprocessableEntity, apperr.CodeProviderMissing
	case errors.Is(err, core.ErrProviderTimeout):
		status, code = http.StatusGatewayTimeout, apperr.CodeTimeout
	case core.IsValidationError(err):
		status, code = http.StatusUnprocessableEntity, apperr.CodeValidationError
	case apperr.IsAppError(err):
		code = apperr.GetCode(err)
		if code == apperr.CodeInvalidInput || code == apperr.CodeConfigInvalid {
			status = http.StatusBadRequest
		}
	}

	a.logger.Warn("request failed: %v", err)
	a.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": err.Error(),
		},
	})
}
