package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/piwi3910/FurniCut/internal/export"
	"github.com/piwi3910/FurniCut/internal/logging"
	"github.com/piwi3910/FurniCut/internal/mapper"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/project"
	"github.com/piwi3910/FurniCut/internal/service"
	"github.com/piwi3910/FurniCut/internal/validate"
)

// maxBodyBytes bounds a cut request body.
const maxBodyBytes = 4 << 20

func makeCutHandler(svc *service.CutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req model.CutRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			logging.FromContext(r.Context()).Warn("malformed cut request", "error", err)
			writeError(w, http.StatusBadRequest, "Malformed JSON request")
			return
		}

		sheet, err := svc.Cut(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mapper.ToCutResponse(sheet))
	}
}

func makeListHandler(svc *service.CutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sheets, err := svc.Sheets(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if sheets == nil {
			sheets = []model.CuttingSheet{}
		}
		writeJSON(w, http.StatusOK, sheets)
	}
}

func makeGetHandler(svc *service.CutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sheetID(w, r)
		if !ok {
			return
		}
		sheet, err := svc.Sheet(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sheet)
	}
}

func makeDeleteHandler(svc *service.CutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sheetID(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteSheet(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// exportFormat describes one downloadable rendering of a sheet.
type exportFormat struct {
	contentType string
	suffix      string
	write       func(w io.Writer, sheet model.CuttingSheet, settings export.Settings) error
}

var exportFormats = map[string]exportFormat{
	"pdf": {
		contentType: "application/pdf",
		suffix:      ".pdf",
		write: func(w io.Writer, sheet model.CuttingSheet, settings export.Settings) error {
			return export.WritePDF(w, []model.CuttingSheet{sheet}, settings)
		},
	},
	"labels": {
		contentType: "application/pdf",
		suffix:      "-labels.pdf",
		write: func(w io.Writer, sheet model.CuttingSheet, _ export.Settings) error {
			return export.WriteLabels(w, []model.CuttingSheet{sheet})
		},
	},
	"xlsx": {
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		suffix:      ".xlsx",
		write: func(w io.Writer, sheet model.CuttingSheet, _ export.Settings) error {
			return export.WriteXLSX(w, []model.CuttingSheet{sheet})
		},
	},
	"dxf": {
		contentType: "application/dxf",
		suffix:      ".dxf",
		write:       writeDXF,
	},
	"png": {
		contentType: "image/png",
		suffix:      ".png",
		write: func(w io.Writer, sheet model.CuttingSheet, _ export.Settings) error {
			return export.WritePNG(w, sheet, export.DefaultPreviewSize)
		},
	},
}

// writeDXF goes through a temporary file; the DXF writer only saves to paths.
func writeDXF(w io.Writer, sheet model.CuttingSheet, _ export.Settings) error {
	dir, err := os.MkdirTemp("", "furnicut-dxf-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sheet.dxf")
	if err := export.ExportDXF(path, sheet); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open DXF: %w", err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func makeExportHandler(svc *service.CutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sheetID(w, r)
		if !ok {
			return
		}
		name := mux.Vars(r)["format"]
		format, known := exportFormats[name]
		if !known {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown export format: %s", name))
			return
		}

		sheet, err := svc.Sheet(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		opts := svc.Options()
		var buf bytes.Buffer
		if err := format.write(&buf, sheet, export.Settings{Kerf: opts.Kerf, EdgeTrim: opts.EdgeTrim}); err != nil {
			logging.FromContext(r.Context()).Error("export failed", "format", name, "sheet_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Export failed")
			return
		}

		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sheet-%d%s"`, id, format.suffix))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func makeHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// sheetID parses the {id} route variable, answering 400 itself on failure.
func sheetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid sheet id: %s", raw))
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors onto status codes and payloads.
func writeServiceError(w http.ResponseWriter, err error) {
	var unplaced *mapper.UnplacedError
	switch {
	case errors.Is(err, validate.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unplaced):
		resp := mapper.ToFailureResponse(unplaced)
		writeJSON(w, resp.Status, resp)
	case errors.Is(err, service.ErrPackTimeout):
		writeError(w, http.StatusGatewayTimeout, "Packing did not finish in time")
	case errors.Is(err, project.ErrSheetNotFound):
		writeError(w, http.StatusNotFound, "Cutting sheet not found")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
