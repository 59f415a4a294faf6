package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// asOfDay parses an optional as_of argument, defaulting to today.
func asOfDay(s string) (models.Day, error) {
	if s == "" {
		return models.DayOf(time.Now()), nil
	}
	return models.ParseDay(s)
}

// defaultTimeRange returns start/end defaulting to the last 28 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -28)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetReadiness = mcp.NewTool("get_readiness",
	mcp.WithDescription("Current per-muscle and systemic readiness (0-1, 1 = fully recovered), with the underlying fatigue state and weekly stimulus counts."),
	mcp.WithString("as_of", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Progression recommendation for one exercise: next weight, set adjustment, or deload protocol, based on performance trend and current readiness."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID (from list_exercises)")),
	mcp.WithString("as_of", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolCheckDeload = mcp.NewTool("check_deload",
	mcp.WithDescription("Deload evaluation: the readiness threshold check plus the multi-condition recommendation (low readiness, persistent soreness, stimulus plateau, RIR error streak)."),
	mcp.WithString("as_of", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetRecoveryPlan = mcp.NewTool("get_recovery_plan",
	mcp.WithDescription("Recovery guidance: rest recommendation for planned target muscles, days-to-recovered estimates per muscle, stimulus efficiency, and program rest-cadence compliance."),
	mcp.WithString("targets", mcp.Description("Comma-separated target muscles for the next session (e.g. 'chest,triceps')")),
	mcp.WithString("as_of", mcp.Description("Evaluation date (YYYY-MM-DD). Defaults to today.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all known exercises with their UUIDs, type classification, axial loading flag, and muscle role assignments."),
)

var toolGetWorkoutSets = mcp.NewTool("get_workout_sets",
	mcp.WithDescription("Strength training history: workout records with full set data (weight, reps, RIR), optionally filtered by exercise name."),
	mcp.WithString("since", mcp.Description("Earliest date (YYYY-MM-DD). Defaults to 28 days ago.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench')")),
)

var toolGetTrainingIntensity = mcp.NewTool("get_training_intensity",
	mcp.WithDescription("RIR distribution, failure rate, per-exercise stats, and optional exercise progression. Returns intensity analysis for strength training."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 28 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match). When set, includes session-by-session progression.")),
)

// --- Tool handlers ---

func (h *handlers) getReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asOf, err := asOfDay(req.GetString("as_of", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid as_of date: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	readiness, state, err := h.tracker.CurrentReadiness(ctx, uid, asOf)
	if err != nil {
		h.log.Error("mcp get_readiness", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"as_of":     asOf,
		"readiness": readiness,
		"state":     state,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	exerciseID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}
	asOf, err := asOfDay(req.GetString("as_of", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid as_of date: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	rec, err := h.tracker.Progression(ctx, uid, exerciseID, asOf)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkDeload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asOf, err := asOfDay(req.GetString("as_of", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid as_of date: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	status, err := h.tracker.CheckDeload(ctx, uid, asOf)
	if err != nil {
		h.log.Error("mcp check_deload", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(status)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asOf, err := asOfDay(req.GetString("as_of", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid as_of date: " + err.Error()), nil
	}

	var targets []models.Muscle
	if raw := req.GetString("targets", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			m := models.Muscle(strings.TrimSpace(part))
			if !models.KnownMuscle(m) {
				return mcp.NewToolResultError("unknown muscle: " + string(m)), nil
			}
			targets = append(targets, m)
		}
	}

	uid := UserIDFromContext(ctx)
	plan, err := h.tracker.PlanRecovery(ctx, uid, targets, asOf)
	if err != nil {
		h.log.Error("mcp get_recovery_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.db.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since := models.DayOf(time.Now()).AddDays(-28)
	if raw := req.GetString("since", ""); raw != "" {
		day, err := models.ParseDay(raw)
		if err != nil {
			return mcp.NewToolResultError("invalid since date: " + err.Error()), nil
		}
		since = day
	}

	uid := UserIDFromContext(ctx)
	records, err := h.db.RecentWorkouts(ctx, uid, since)
	if err != nil {
		h.log.Error("mcp get_workout_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := strings.ToLower(req.GetString("exercise", "")); filter != "" {
		var filtered []models.WorkoutRecord
		for _, r := range records {
			if strings.Contains(strings.ToLower(r.ExerciseName), filter) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingIntensity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	exerciseFilter := req.GetString("exercise", "")

	intensity, err := h.db.GetTrainingIntensity(ctx, start, end, uid, exerciseFilter)
	if err != nil {
		h.log.Error("mcp get_training_intensity", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(intensity)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
