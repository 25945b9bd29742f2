package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/offline-learning-api/internal/middleware"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
	"github.com/noah-isme/offline-learning-api/pkg/response"
)

// studentIDsQuery parses the comma separated student_ids filter. Blank
// entries and duplicates are dropped. A parameter that is present but names
// no student is rejected so it cannot widen into an unfiltered cohort.
func studentIDsQuery(c *gin.Context) ([]string, error) {
	raw, present := c.GetQuery("student_ids")
	if !present {
		return nil, nil
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_ids must name at least one student")
	}
	return ids, nil
}

func gradeQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("grade"))
}

// respondOK writes a 200 envelope carrying the request metadata.
func respondOK(c *gin.Context, start time.Time, data interface{}) {
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}
