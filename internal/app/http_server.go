package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"actai-dashboard/internal/adapter/actai"
	"actai-dashboard/internal/adapter/notes"
	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/usecase"
)

// Server exposes the dashboard state and its mutations on a local port.
type Server struct {
	app  *App
	echo *echo.Echo
	log  *zap.Logger
	addr string
}

// NewServer builds the local HTTP surface. Call Start in a goroutine and
// Shutdown it on exit.
func (a *App) NewServer(addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			a.log.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{app: a, echo: e, log: a.log, addr: addr}
	s.registerRoutes()
	a.log.Info("http server configured", zap.String("addr", addr))
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.app.Registry(), promhttp.HandlerOpts{})))

	s.echo.GET("/state", s.handleState)
	s.echo.POST("/load", s.handleLoad)
	s.echo.POST("/tasks/:id/advance", s.handleAdvance)
	s.echo.PUT("/tasks/:id/status", s.handleSetStatus)
	s.echo.PUT("/tasks/:id", s.handleUpdateTask)
	s.echo.POST("/tasks/:id/adapt", s.handleAdapt)
	s.echo.POST("/milestones/:id/toggle", s.handleToggleMilestone)
	s.echo.GET("/checkins", s.handleCheckinHistory)
	s.echo.GET("/checkins/:date", s.handleGetCheckin)
	s.echo.POST("/checkins", s.handleSaveCheckin)
	s.echo.GET("/notes/:entity/:id", s.handleGetNote)
	s.echo.PUT("/notes/:entity/:id", s.handleSetNote)
	s.echo.POST("/sync", s.handleSync)
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start() error {
	s.log.Info("starting http server", zap.String("addr", s.addr))
	err := s.echo.Start(s.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.app.Store.Snapshot())
}

func (s *Server) handleLoad(c echo.Context) error {
	if err := s.app.Loader.Load(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s.app.Store.Snapshot())
}

type statusResponse struct {
	TaskID int64             `json:"task_id"`
	Status domain.TaskStatus `json:"status"`
}

func (s *Server) handleAdvance(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	st, err := s.app.Status.AdvanceTask(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, statusResponse{TaskID: id, Status: st})
}

func (s *Server) handleSetStatus(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req struct {
		Status domain.TaskStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	st, err := s.app.Status.SetTaskStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, statusResponse{TaskID: id, Status: st})
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var u domain.TaskUpdate
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	t, err := s.app.Editor.UpdateTask(c.Request().Context(), id, u)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleAdapt(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	t, err := s.app.Editor.AdaptTask(c.Request().Context(), id, req.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleToggleMilestone(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.app.Status.ToggleMilestoneCompletion(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	m, _ := s.app.Store.Milestone(id)
	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleCheckinHistory(c echo.Context) error {
	list, err := s.app.Checkins.History(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetCheckin(c echo.Context) error {
	d, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	form, err := s.app.Checkins.Load(c.Request().Context(), d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, form)
}

func (s *Server) handleSaveCheckin(c echo.Context) error {
	var in domain.Checkin
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	saved, err := s.app.Checkins.Save(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, saved)
}

type noteBody struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

func noteKey(c echo.Context) (string, error) {
	entity := c.Param("entity")
	if !notes.ValidEntity(entity) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "entity must be project, milestone or task")
	}
	id, err := idParam(c)
	if err != nil {
		return "", err
	}
	return notes.Key(entity, id), nil
}

func (s *Server) handleGetNote(c echo.Context) error {
	key, err := noteKey(c)
	if err != nil {
		return err
	}
	text, err := s.app.Notes.Get(c.Request().Context(), key)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, noteBody{Key: key, Text: text})
}

func (s *Server) handleSetNote(c echo.Context) error {
	key, err := noteKey(c)
	if err != nil {
		return err
	}
	var body noteBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.app.Notes.Set(c.Request().Context(), key, body.Text); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, noteBody{Key: key, Text: body.Text})
}

// handleSync runs a MySQL snapshot. ?timeout=5m bounds the run.
func (s *Server) handleSync(c echo.Context) error {
	ctx := c.Request().Context()
	if tStr := c.QueryParam("timeout"); tStr != "" {
		if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
	}
	n, err := s.app.RunSnapshot(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "plans": n})
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// httpError maps use case and API errors onto HTTP statuses.
func httpError(err error) error {
	var apiErr *actai.APIError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrTaskUpdating), errors.Is(err, ErrSyncRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, usecase.ErrEmptyMessage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSnapshotDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusUnprocessableEntity || apiErr.StatusCode == http.StatusBadRequest {
			return echo.NewHTTPError(http.StatusBadRequest, apiErr.Message())
		}
		return echo.NewHTTPError(http.StatusBadGateway, apiErr.Message())
	}
	var te *actai.TransportError
	if errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
