package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/handicap/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport handles GET /export.xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var buf bytes.Buffer
	err := report.Write(&buf, report.Data{
		Roster:  s.deps.RosterSummary(ctx),
		Table:   s.deps.LeagueTable(ctx),
		Weeks:   s.deps.Fixtures(ctx),
		Results: s.deps.SeasonResults(ctx),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="league.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
