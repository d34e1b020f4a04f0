package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/goal-engine-api/goalcalc"
)

// Handler holds shared dependencies (db pool, goal engine) for all route handlers.
type Handler struct {
	db     *pgxpool.Pool
	engine *goalcalc.Engine
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
// Returns an empty (non-nil) slice when nothing matches so JSON renders [].
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

/* ─── Responses ───────────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// computeError responds to a failed profile conversion or engine run.
// Validation failures are the caller's to fix (400, with the offending field);
// anything else is ours (500).
func computeError(c *gin.Context, err error) {
	var ve *goalcalc.ValidationError
	if errors.As(err, &ve) {
		observePlanComputed("invalid")
		observeValidationFailure(ve.Field)
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}
	observePlanComputed("error")
	log.Printf("[compute] unexpected error: %v", err)
	apiError(c, http.StatusInternalServerError, "failed to compute goal plan")
}

// compute converts g and runs the engine, recording the outcome.
func (h *Handler) compute(g goalProfile) (goalcalc.UserProfile, goalcalc.CalculatedResults, error) {
	p, err := g.toUserProfile()
	if err != nil {
		return goalcalc.UserProfile{}, goalcalc.CalculatedResults{}, err
	}
	r, err := h.engine.Compute(p)
	if err != nil {
		return goalcalc.UserProfile{}, goalcalc.CalculatedResults{}, err
	}
	observePlanComputed("ok")
	if r.CalorieFloorApplied {
		observeCalorieFloor(string(p.Sex))
	}
	return p, r, nil
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/goal-plan/preview", h.previewGoalPlan)
	router.GET("/metrics", metricsHandler())

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/goal-profile", h.getGoalProfile)
	api.PUT("/goal-profile", h.putGoalProfile)
	api.GET("/goal-plan", h.getGoalPlan)
	api.GET("/goal-plan/progress", h.getGoalProgress)
	api.POST("/goal-plans", h.createGoalPlan)
	api.GET("/goal-plans", h.listGoalPlans)
	api.GET("/goal-plans/:id", h.getGoalPlanByID)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.upsertWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)
}
