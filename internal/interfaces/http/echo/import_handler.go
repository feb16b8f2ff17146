package echo

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/member-import/internal/application/importing"
	domain "github.com/danisworo/member-import/internal/domain/member"
)

type ImportHandler struct {
	start importing.StartImport
	get   importing.GetImport
}

type importSettingsRequest struct {
	Mode                  string `json:"mode"`
	CreateBranchIfMissing bool   `json:"create_branch_if_missing"`
	ForceAdminBranch      bool   `json:"force_admin_branch"`
	AdminBranchID         string `json:"admin_branch_id"`
}

type startImportRequest struct {
	SourcePath string                `json:"source_path"`
	Mapping    map[string]string     `json:"mapping"`
	Settings   importSettingsRequest `json:"settings"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(start importing.StartImport, get importing.GetImport) *ImportHandler {
	return &ImportHandler{start: start, get: get}
}

func (h *ImportHandler) StartImport(c echo.Context) error {
	var req startImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	mapping := make(importing.ColumnMapping, len(req.Mapping))
	for header, key := range req.Mapping {
		mapping[header] = domain.FieldKey(key)
	}

	out, err := h.start.Execute(c.Request().Context(), importing.StartImportInput{
		SourcePath: req.SourcePath,
		Mapping:    mapping,
		Settings: domain.ImportSettings{
			Mode:                  domain.ImportMode(req.Settings.Mode),
			CreateBranchIfMissing: req.Settings.CreateBranchIfMissing,
			ForceAdminBranch:      req.Settings.ForceAdminBranch,
			AdminBranchID:         req.Settings.AdminBranchID,
		},
	})
	if err != nil {
		if errors.Is(err, importing.ErrInvalidImportSource) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_source",
				Message: "source_path must be a .xlsx or .csv file",
			}})
		}
		if errors.Is(err, importing.ErrInvalidImportSettings) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_settings",
				Message: "settings must carry a valid mode, and force_admin_branch requires admin_branch_id",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to enqueue import job",
		}})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) GetImport(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), importing.GetImportInput{
		JobID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, importing.ErrImportJobNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "import job not found",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get import job",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) DownloadErrors(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), importing.GetImportInput{
		JobID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, importing.ErrImportJobNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "import job not found",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get import job",
		}})
	}
	if !out.HasReport {
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "no_report",
			Message: "import job has no error report",
		}})
	}

	return c.Attachment(out.ReportPath, filepath.Base(out.ReportPath))
}
