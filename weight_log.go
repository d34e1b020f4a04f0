package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxWeightLBS bounds logged weights; anything above is a typo, not a body.
const maxWeightLBS = 9999.9

// parseDateParam validates a YYYY-MM-DD value, writing a 400 naming param
// when it is missing or malformed. Returns ok=false after responding.
func parseDateParam(c *gin.Context, param, value string) (time.Time, bool) {
	if value == "" {
		apiError(c, http.StatusBadRequest, param+" is required")
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+param+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	start, ok := parseDateParam(c, "start", c.Query("start"))
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end", c.Query("end"))
	if !ok {
		return
	}
	if start.After(end) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{
			"userID": c.GetInt("user_id"),
			"start":  start.Format(time.DateOnly),
			"end":    end.Format(time.DateOnly),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_lbs": 185.5 }.
// The UNIQUE(user_id, date) constraint means posting the same date updates in place.
// The next GET /api/goal-plan picks the entry up as the current weight.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	var body struct {
		Date      string  `json:"date"`
		WeightLBS float64 `json:"weight_lbs"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := parseDateParam(c, "date", body.Date)
	if !ok {
		return
	}
	if body.WeightLBS <= 0 || body.WeightLBS > maxWeightLBS {
		apiError(c, http.StatusBadRequest, "weight_lbs must be between 0 and 9999.9")
		return
	}

	entry, err := queryOne[weightEntry](h.db, c,
		`INSERT INTO weight_log (user_id, date, weight_lbs)
		 VALUES (@userID, @date, @weightLBS)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_lbs = EXCLUDED.weight_lbs
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":    c.GetInt("user_id"),
			"date":      date.Format(time.DateOnly),
			"weightLBS": body.WeightLBS,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 400 for a non-numeric id,
// 404 if not found.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": c.GetInt("user_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
