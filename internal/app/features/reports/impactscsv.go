// internal/app/features/reports/impactscsv.go
package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
)

// ServeImpactsCSV streams impact records as CSV. Staff only: the export
// includes unverified rows.
//
// GET /reports/impacts.csv?project=...&type=...&verified=true
func (h *Handler) ServeImpactsCSV(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}

	f := impactstore.ListFilter{
		ImpactType:   r.URL.Query().Get("type"),
		VerifiedOnly: r.URL.Query().Get("verified") == "true",
	}
	if v := r.URL.Query().Get("project"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			httpjson.BadRequest(w, "invalid project id")
			return
		}
		f.ProjectID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.Impacts.List(ctx, f)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	filename := fmt.Sprintf("impacts-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"impact_id", "project_id", "school_id", "impact_type",
		"value", "unit", "measurement_date", "verified", "notes",
	})
	for _, im := range rows {
		_ = cw.Write([]string{
			im.ID.Hex(),
			im.ProjectID.Hex(),
			im.SchoolID.Hex(),
			im.ImpactType,
			strconv.FormatFloat(im.Value, 'f', -1, 64),
			im.Unit,
			im.MeasurementDate.UTC().Format(time.RFC3339),
			strconv.FormatBool(im.Verified),
			im.Notes,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("impacts csv write", zap.Error(err))
	}
}
