// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/macro-tracker/internal/fdc"
	"github.com/pdiddy/macro-tracker/internal/health"
	"github.com/pdiddy/macro-tracker/internal/macros"
	"github.com/pdiddy/macro-tracker/internal/mealplan"
	"github.com/pdiddy/macro-tracker/internal/search"
	"github.com/pdiddy/macro-tracker/internal/store"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// AliveResponse is the body of the probe endpoints.
type AliveResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Info    *CheckInfo `json:"info,omitempty"`
}

// CheckInfo reports process health details.
type CheckInfo struct {
	Database   string `json:"database"`
	RoutineNum int    `json:"routine_num"`
}

// FoodResponse is a food with its macros per 100 units and for the requested
// amount.
type FoodResponse struct {
	FdcID       int                         `json:"fdcId"`
	Description string                      `json:"description"`
	DataType    string                      `json:"dataType,omitempty"`
	Nutrients   []types.NutrientObservation `json:"nutrients"`
	Amount      float64                     `json:"amount"`
	PerHundred  types.MacroTotals           `json:"per_100"`
	Macros      types.MacroTotals           `json:"macros"`
}

// writeError maps err onto a status code and writes {"error": msg}.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), fdc.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrExists):
		status = http.StatusConflict
	case errors.Is(err, mealplan.ErrInvalidAmount),
		errors.Is(err, mealplan.ErrInvalidMealType),
		errors.Is(err, search.ErrEmptyQuery):
		status = http.StatusBadRequest
	}
	c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+label+" id")
		return 0, false
	}
	return id, true
}

// --- probes ---

func (s *Server) readProbe(c *gin.Context) {
	c.JSON(http.StatusOK, AliveResponse{Success: true, Message: "probe success"})
}

func (s *Server) checkLive(c *gin.Context) {
	info := &CheckInfo{Database: "ok", RoutineNum: runtime.NumGoroutine()}
	resp := AliveResponse{Success: true, Message: "main thread alive", Info: info}
	status := http.StatusOK
	if err := s.store.Ping(c.Request.Context()); err != nil {
		info.Database = err.Error()
		resp.Success = false
		resp.Message = "database unavailable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// --- users ---

type userPatch struct {
	Name         *string             `json:"name"`
	Age          *int                `json:"age"`
	Weight       *float64            `json:"weight"`
	Height       *float64            `json:"height"`
	Gender       *string             `json:"gender"`
	TargetMacros *types.MacroTargets `json:"target_macros"`
}

func (p userPatch) apply(u *types.User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Weight != nil {
		u.Weight = *p.Weight
	}
	if p.Height != nil {
		u.Height = *p.Height
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.TargetMacros != nil {
		u.TargetMacros = *p.TargetMacros
	}
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	u, err := s.store.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) createUser(c *gin.Context) {
	var u types.User
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err.Error())
		return
	}
	if u.ID < 0 {
		badRequest(c, "invalid user id")
		return
	}
	if err := s.store.CreateUser(c.Request.Context(), &u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	var patch userPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	patch.apply(u)
	if err := s.store.UpdateUser(ctx, u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) userHealth(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	u, err := s.store.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, health.For(*u))
}

// --- meal plans ---

func (s *Server) listPlans(c *gin.Context) {
	id, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	plans, err := s.store.ListPlans(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (s *Server) createPlan(c *gin.Context) {
	userID, ok := idParam(c, "id", "user")
	if !ok {
		return
	}
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan := types.MealPlan{UserID: userID, Name: body.Name, Description: body.Description}
	if err := s.store.CreatePlan(c.Request.Context(), &plan); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) getPlan(c *gin.Context) {
	id, ok := idParam(c, "planId", "meal plan")
	if !ok {
		return
	}
	plan, err := s.store.GetPlan(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) planSummary(c *gin.Context) {
	id, ok := idParam(c, "planId", "meal plan")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	var targets types.MacroTargets
	if u, err := s.store.GetUser(ctx, plan.UserID); err == nil {
		targets = u.TargetMacros
	}
	c.JSON(http.StatusOK, mealplan.Summarize(*plan, targets))
}

type itemRequest struct {
	MealType string  `json:"meal_type"`
	FoodID   int     `json:"food_id"`
	FoodName string  `json:"food_name"`
	Amount   float64 `json:"amount"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
	Fiber    float64 `json:"fiber"`
}

func (s *Server) addItem(c *gin.Context) {
	planID, ok := idParam(c, "planId", "meal plan")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	mt, err := mealplan.ParseMealType(req.MealType)
	if err != nil {
		writeError(c, err)
		return
	}

	item := types.MealPlanItem{
		MealType: mt,
		FoodID:   req.FoodID,
		FoodName: req.FoodName,
		Amount:   req.Amount,
		Proteins: req.Proteins,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Calories: req.Calories,
		Fiber:    req.Fiber,
	}
	saved, err := s.plans.AddItem(c.Request.Context(), planID, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) addFood(c *gin.Context) {
	planID, ok := idParam(c, "planId", "meal plan")
	if !ok {
		return
	}
	var body struct {
		FdcID    int     `json:"fdc_id" binding:"required"`
		Amount   float64 `json:"amount"`
		MealType string  `json:"meal_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	mt, err := mealplan.ParseMealType(body.MealType)
	if err != nil {
		writeError(c, err)
		return
	}

	item, err := s.plans.AddFood(c.Request.Context(), planID, body.FdcID, body.Amount, mt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- items ---

func (s *Server) updateItem(c *gin.Context) {
	id, ok := idParam(c, "itemId", "item")
	if !ok {
		return
	}
	var body struct {
		MealType *string  `json:"meal_type"`
		Amount   *float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}

	var u mealplan.ItemUpdate
	if body.MealType != nil {
		mt, err := mealplan.ParseMealType(*body.MealType)
		if err != nil {
			writeError(c, err)
			return
		}
		u.MealType = &mt
	}
	u.Amount = body.Amount
	if u.MealType == nil && u.Amount == nil {
		badRequest(c, "nothing to update: provide meal_type or amount")
		return
	}

	item, err := s.plans.UpdateItem(c.Request.Context(), id, u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) moveItem(c *gin.Context) {
	id, ok := idParam(c, "itemId", "item")
	if !ok {
		return
	}
	var body struct {
		MealType string `json:"meal_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	mt, err := mealplan.ParseMealType(body.MealType)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.plans.MoveItem(c.Request.Context(), id, mt); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal type updated"})
}

func (s *Server) deleteItem(c *gin.Context) {
	id, ok := idParam(c, "itemId", "item")
	if !ok {
		return
	}
	if err := s.store.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

// --- food ---

func (s *Server) searchFood(c *gin.Context) {
	query := search.Query{Text: c.Query("query")}
	if query.IsEmpty() {
		badRequest(c, "missing search query")
		return
	}

	out, err := search.Search(c.Request.Context(), query, search.Backends(s.foods), s.foods, s.cfg.Search)
	if err != nil {
		writeError(c, err)
		return
	}
	results := out.Results
	if results == nil {
		results = []search.Result{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) getFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid food id")
		return
	}

	amount := 100.0
	if a := c.Query("amount"); a != "" {
		amount, err = strconv.ParseFloat(a, 64)
		if err != nil {
			badRequest(c, fmt.Sprintf("invalid amount %q", a))
			return
		}
		if err := mealplan.ValidateAmount(amount); err != nil {
			writeError(c, err)
			return
		}
	}

	food, err := s.foods.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, FoodResponse{
		FdcID:       food.FdcID,
		Description: food.Description,
		DataType:    food.DataType,
		Nutrients:   food.Nutrients,
		Amount:      amount,
		PerHundred:  macros.PerHundred(*food),
		Macros:      macros.Compute(*food, amount),
	})
}
