package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lg/goal-engine-api/goalcalc"
)

// previewGoalPlan computes a plan from the posted profile without touching
// the database. POST /api/goal-plan/preview (public; the goal wizard calls it
// on every edit before the user has an account).
func (h *Handler) previewGoalPlan(c *gin.Context) {
	var body goalProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	_, results, err := h.compute(body)
	if err != nil {
		computeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// getGoalProfile returns the authenticated user's stored goal profile.
// GET /api/goal-profile. 404 until the user has saved one.
func (h *Handler) getGoalProfile(c *gin.Context) {
	g, err := h.loadGoalProfile(c, c.GetInt("user_id"))
	if err != nil {
		goalProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// putGoalProfile validates and stores the user's goal profile, replacing any
// previous one. PUT /api/goal-profile. The profile is run through the engine
// first so a profile that cannot produce a plan is never saved.
func (h *Handler) putGoalProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body goalProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, _, err := h.compute(body)
	if err != nil {
		computeError(c, err)
		return
	}

	// Store the normalized enum values, not whatever casing the client sent.
	g, err := queryOne[goalProfile](h.db, c,
		`INSERT INTO goal_profiles (user_id, age, sex, height_ft, height_in, weight_lbs,
			target_weight_lbs, activity_level, goal_type, start_date, end_date)
		 VALUES (@userID, @age, @sex, @heightFt, @heightIn, @weightLBS,
			@targetWeightLBS, @activityLevel, @goalType, @startDate, @endDate)
		 ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age, sex = EXCLUDED.sex,
			height_ft = EXCLUDED.height_ft, height_in = EXCLUDED.height_in,
			weight_lbs = EXCLUDED.weight_lbs, target_weight_lbs = EXCLUDED.target_weight_lbs,
			activity_level = EXCLUDED.activity_level, goal_type = EXCLUDED.goal_type,
			start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":          userID,
			"age":             p.Age,
			"sex":             string(p.Sex),
			"heightFt":        p.HeightFt,
			"heightIn":        p.HeightIn,
			"weightLBS":       p.Weight,
			"targetWeightLBS": p.TargetWeight,
			"activityLevel":   string(p.Activity),
			"goalType":        string(p.GoalType),
			"startDate":       body.StartDate.Format("2006-01-02"),
			"endDate":         body.EndDate.Format("2006-01-02"),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save goal profile")
		return
	}

	c.JSON(http.StatusOK, g)
}

// getGoalPlan computes the plan for the stored profile. GET /api/goal-plan.
// When the weight log has an entry newer than the profile, that weight is
// used as the current weight so the plan tracks the latest weigh-in.
func (h *Handler) getGoalPlan(c *gin.Context) {
	g, err := h.currentGoalProfile(c, c.GetInt("user_id"))
	if err != nil {
		goalProfileError(c, err)
		return
	}

	_, results, err := h.compute(g)
	if err != nil {
		computeError(c, err)
		return
	}

	c.JSON(http.StatusOK, goalPlanResponse{Profile: g, Results: results})
}

// getGoalProgress returns the week-by-week projection for the stored profile
// and the weights logged over the same range. GET /api/goal-plan/progress.
// The projection always starts from the profile's own weight, not the latest
// weigh-in, so logged weights can be compared against the original plan.
func (h *Handler) getGoalProgress(c *gin.Context) {
	userID := c.GetInt("user_id")

	g, err := h.loadGoalProfile(c, userID)
	if err != nil {
		goalProfileError(c, err)
		return
	}
	p, results, err := h.compute(g)
	if err != nil {
		computeError(c, err)
		return
	}

	weights, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{
			"userID": userID,
			"start":  g.StartDate.Format("2006-01-02"),
			"end":    g.EndDate.Format("2006-01-02"),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, progressResponse{
		Projection: goalcalc.Projection(p, results),
		Weights:    weights,
		Results:    results,
	})
}

// createGoalPlan computes the plan for the current profile and stores it as an
// immutable snapshot. POST /api/goal-plans. Later profile edits never change a
// saved snapshot; they produce a new one.
func (h *Handler) createGoalPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	g, err := h.currentGoalProfile(c, userID)
	if err != nil {
		goalProfileError(c, err)
		return
	}
	_, results, err := h.compute(g)
	if err != nil {
		computeError(c, err)
		return
	}

	profileJSON, err := json.Marshal(g)
	if err != nil {
		log.Printf("[createGoalPlan] marshal profile: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to save goal plan")
		return
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		log.Printf("[createGoalPlan] marshal results: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to save goal plan")
		return
	}

	plan, err := queryOne[goalPlan](h.db, c,
		`INSERT INTO goal_plans (id, user_id, profile, results)
		 VALUES (@id, @userID, @profile::jsonb, @results::jsonb)
		 RETURNING *`,
		pgx.NamedArgs{
			"id":      uuid.NewString(),
			"userID":  userID,
			"profile": string(profileJSON),
			"results": string(resultsJSON),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save goal plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// listGoalPlans returns the user's saved snapshots, newest first. GET /api/goal-plans.
func (h *Handler) listGoalPlans(c *gin.Context) {
	plans, err := queryMany[goalPlan](h.db, c,
		"SELECT * FROM goal_plans WHERE user_id = @userID ORDER BY created_at DESC",
		pgx.NamedArgs{"userID": c.GetInt("user_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goal plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// getGoalPlanByID returns one saved snapshot. GET /api/goal-plans/:id.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) getGoalPlanByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id, expected UUID")
		return
	}

	plan, err := queryOne[goalPlan](h.db, c,
		"SELECT * FROM goal_plans WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id.String(), "userID": c.GetInt("user_id")})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "goal plan not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch goal plan")
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

/* ─── Profile loading ────────────────────────────────────────────────── */

func (h *Handler) loadGoalProfile(c *gin.Context, userID int) (goalProfile, error) {
	return queryOne[goalProfile](h.db, c,
		"SELECT * FROM goal_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

// currentGoalProfile loads the stored profile and swaps in the latest weigh-in
// when it was logged on or after the day the profile was last saved.
func (h *Handler) currentGoalProfile(c *gin.Context, userID int) (goalProfile, error) {
	g, err := h.loadGoalProfile(c, userID)
	if err != nil {
		return g, err
	}

	latest, err := queryOne[weightEntry](h.db, c,
		"SELECT * FROM weight_log WHERE user_id = @userID ORDER BY date DESC LIMIT 1",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return g, nil
	}
	if err != nil {
		return g, err
	}
	if g.UpdatedAt == nil || !latest.Date.Before(g.UpdatedAt.Truncate(24*time.Hour)) {
		g.WeightLBS = latest.WeightLBS
	}
	return g, nil
}

// goalProfileError maps a profile lookup failure to 404 or 500.
func goalProfileError(c *gin.Context, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "goal profile not found")
		return
	}
	apiError(c, http.StatusInternalServerError, "failed to fetch goal profile")
}
