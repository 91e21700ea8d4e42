package web

// handlers_templates.go serves the downloadable spreadsheet template with
// the canonical headers, so exports can start from a sheet the importer is
// guaranteed to recognize.

import (
	"fmt"
	"net/http"

	"github.com/LeoAbril98/localizar/internal/core"
)

// handleDownloadTemplate returns the template sheet. The format query
// parameter selects csv (the default) or xlsx.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="modelo_estoque.csv"`)
		w.Write(core.TemplateCSV())

	case "xlsx":
		data, err := core.TemplateXLSX()
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="modelo_estoque.xlsx"`)
		w.Write(data)

	default:
		s.respondErrorMsg(w, r, fmt.Sprintf("unknown template format %q", format), http.StatusBadRequest)
	}
}
