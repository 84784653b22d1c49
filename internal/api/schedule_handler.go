package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"SeasonSchedule/internal/schedule"
	"SeasonSchedule/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScheduleService handler 依赖的赛程服务
type ScheduleService interface {
	GetEventSchedule(ctx context.Context, year int, opts service.ScheduleOptions) (*schedule.Table, error)
	GetEvent(ctx context.Context, year int, gp service.GP, forceSecondary bool) (schedule.Event, error)
	GetTestingEvent(ctx context.Context, year, testNumber int) (schedule.Event, error)
	GetSession(ctx context.Context, year int, gp service.GP, id schedule.SessionIdentifier, forceSecondary bool) (schedule.SessionHandle, error)
	GetTestingSession(ctx context.Context, year, testNumber, sessionNumber int) (schedule.SessionHandle, error)
}

// ScheduleHandler 赛程查询接口
type ScheduleHandler struct {
	svc    ScheduleService
	logger *logrus.Logger
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(svc ScheduleService, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

// RegisterRoutes 注册赛程相关路由
func (h *ScheduleHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	g := r.Group("/api")
	g.GET("/schedules/:year", h.GetSchedule)
	g.GET("/events/:year", h.GetEvent)
	g.GET("/events/:year/sessions/:identifier", h.GetSession)
	g.GET("/testing/:year/:test_number", h.GetTestingEvent)
	g.GET("/testing/:year/:test_number/sessions/:session_number", h.GetTestingSession)
}

// GetSchedule 整季赛程
// GET /api/schedules/:year?include_testing=true&force_secondary=false
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	year, ok := h.intParam(c, "year")
	if !ok {
		return
	}
	includeTesting, ok := h.boolQuery(c, "include_testing", true)
	if !ok {
		return
	}
	forceSecondary, ok := h.boolQuery(c, "force_secondary", false)
	if !ok {
		return
	}

	tbl, err := h.svc.GetEventSchedule(c.Request.Context(), year, service.ScheduleOptions{
		ExcludeTesting: !includeTesting,
		ForceSecondary: forceSecondary,
	})
	if err != nil {
		h.fail(c, "GetSchedule", err)
		return
	}
	c.JSON(http.StatusOK, tbl)
}

// GetEvent 按轮次或名称获取赛事
// GET /api/events/:year?round=3 或 ?name=monza
func (h *ScheduleHandler) GetEvent(c *gin.Context) {
	year, gp, forceSecondary, ok := h.eventQuery(c)
	if !ok {
		return
	}
	ev, err := h.svc.GetEvent(c.Request.Context(), year, gp, forceSecondary)
	if err != nil {
		h.fail(c, "GetEvent", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// GetSession 获取赛事中的会话，identifier 支持编号、缩写与完整名称
// GET /api/events/:year/sessions/:identifier?round=3 或 ?name=monza
func (h *ScheduleHandler) GetSession(c *gin.Context) {
	year, gp, forceSecondary, ok := h.eventQuery(c)
	if !ok {
		return
	}
	id := schedule.SessionIdentifier(c.Param("identifier"))
	s, err := h.svc.GetSession(c.Request.Context(), year, gp, id, forceSecondary)
	if err != nil {
		h.fail(c, "GetSession", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetTestingEvent 第 N 场测试赛
// GET /api/testing/:year/:test_number
func (h *ScheduleHandler) GetTestingEvent(c *gin.Context) {
	year, ok := h.intParam(c, "year")
	if !ok {
		return
	}
	testNumber, ok := h.intParam(c, "test_number")
	if !ok {
		return
	}
	ev, err := h.svc.GetTestingEvent(c.Request.Context(), year, testNumber)
	if err != nil {
		h.fail(c, "GetTestingEvent", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// GetTestingSession 第 N 场测试赛的第 M 场会话
// GET /api/testing/:year/:test_number/sessions/:session_number
func (h *ScheduleHandler) GetTestingSession(c *gin.Context) {
	year, ok := h.intParam(c, "year")
	if !ok {
		return
	}
	testNumber, ok := h.intParam(c, "test_number")
	if !ok {
		return
	}
	sessionNumber, ok := h.intParam(c, "session_number")
	if !ok {
		return
	}
	s, err := h.svc.GetTestingSession(c.Request.Context(), year, testNumber, sessionNumber)
	if err != nil {
		h.fail(c, "GetTestingSession", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ScheduleHandler) eventQuery(c *gin.Context) (year int, gp service.GP, forceSecondary bool, ok bool) {
	if year, ok = h.intParam(c, "year"); !ok {
		return
	}
	raw, hasRound := c.GetQuery("round")
	name, hasName := c.GetQuery("name")
	// round=0 在服务层视为未指定，这里按参数是否出现判断互斥
	if hasRound && hasName {
		h.fail(c, "eventQuery", fmt.Errorf("round 与 name 不能同时指定: %w", schedule.ErrMutuallyExclusive))
		return year, gp, false, false
	}
	if hasRound {
		round, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("round 必须为整数: %q", raw)})
			return year, gp, false, false
		}
		gp.Round = round
	}
	gp.Name = name
	forceSecondary, ok = h.boolQuery(c, "force_secondary", false)
	return
}

func (h *ScheduleHandler) intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s 必须为整数: %q", name, raw)})
		return 0, false
	}
	return v, true
}

func (h *ScheduleHandler) boolQuery(c *gin.Context, name string, def bool) (bool, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s 必须为布尔值: %q", name, raw)})
		return false, false
	}
	return v, true
}

// fail 错误映射：标识符无效 400，找不到 404，其余（上游失败等）502
func (h *ScheduleHandler) fail(c *gin.Context, op string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, schedule.ErrInvalidIdentifier), errors.Is(err, schedule.ErrMutuallyExclusive):
		status = http.StatusBadRequest
	case errors.Is(err, schedule.ErrNotFound):
		status = http.StatusNotFound
	}
	entry := h.logger.WithError(err).WithFields(logrus.Fields{"op": op, "path": c.Request.URL.Path})
	if status == http.StatusBadGateway {
		entry.Error("赛程查询失败")
	} else {
		entry.Info("赛程查询参数无效或目标不存在")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
