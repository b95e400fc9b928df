// Package httpapi serves the daily checklist over REST.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/sse"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-pkgz/lgr"
)

// apiActor is recorded on audit events raised over HTTP.
const apiActor = "api"

// Config for the HTTP API handler.
type Config struct {
	Checklist *application.ChecklistService
	// Audit, when set, is streamed at GET /events.
	Audit   *application.AuditService
	Version string
	Log     lgr.L
}

type healthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

type dayInput struct {
	Date string `path:"date" example:"2025-03-05" doc:"Date as YYYY-MM-DD"`
}

type dayOutput struct {
	Body application.DayView
}

type addTaskInput struct {
	Date string `path:"date" example:"2025-03-05"`
	Body struct {
		Title       string   `json:"title,omitempty" example:"Visit family"`
		Description string   `json:"description,omitempty"`
		Items       []string `json:"items,omitempty" doc:"Checklist item texts"`
		Recurring   bool     `json:"recurring,omitempty" doc:"Add to this and every later day"`
	}
}

type addTaskOutput struct {
	Body application.AddOutcome
}

type taskInput struct {
	Date string `path:"date" example:"2025-03-05"`
	ID   int64  `path:"id"`
}

type itemInput struct {
	Date string `path:"date" example:"2025-03-05"`
	ID   int64  `path:"id"`
	Item string `path:"item" example:"1741158000000-0"`
}

type taskOutput struct {
	Body checklist.Task
}

type deleteInput struct {
	Date string `path:"date" example:"2025-03-05"`
	ID   int64  `path:"id"`
	Mode string `query:"mode" enum:"current,all" default:"current"`
}

type calendarOutput struct {
	Body []application.CalendarDay
}

// New returns an HTTP handler exposing the checklist API.
func New(cfg Config) http.Handler {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	log := cfg.Log
	if log == nil {
		log = lgr.NoOp
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(application.WithActor(r.Context(), apiActor)))
			log.Logf("[DEBUG] %s %s %s", r.Method, r.URL.Path, time.Since(start))
		})
	})

	if cfg.Audit != nil {
		router.Handle("/events", sse.NewHandler(cfg.Audit))
	}

	api := humachi.New(router, huma.DefaultConfig("Hilal API", cfg.Version))
	svc := cfg.Checklist

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
	}, func(ctx context.Context, _ *struct{}) (*healthOutput, error) {
		out := &healthOutput{}
		out.Body.Status = "ok"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-day",
		Method:      http.MethodGet,
		Path:        "/days/{date}",
		Summary:     "Tasks and completion of a day",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, in *dayInput) (*dayOutput, error) {
		day, err := svc.Day(ctx, in.Date)
		if err != nil {
			return nil, handleError(err)
		}
		return &dayOutput{Body: day}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-task",
		Method:        http.MethodPost,
		Path:          "/days/{date}/tasks",
		Summary:       "Add a task",
		Description:   "A recurring title that already exists is added to the day only; the response then carries a warning.",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, in *addTaskInput) (*addTaskOutput, error) {
		out, err := svc.AddTask(ctx, in.Date, checklist.NewTask{
			Title:        in.Body.Title,
			Description:  in.Body.Description,
			HasChecklist: len(in.Body.Items) > 0,
			Items:        in.Body.Items,
			Recurring:    in.Body.Recurring,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &addTaskOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-task",
		Method:      http.MethodPost,
		Path:        "/days/{date}/tasks/{id}/toggle",
		Summary:     "Flip a task and its checklist items",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, in *taskInput) (*taskOutput, error) {
		t, err := svc.ToggleTask(ctx, in.Date, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-item",
		Method:      http.MethodPost,
		Path:        "/days/{date}/tasks/{id}/items/{item}/toggle",
		Summary:     "Flip one checklist item",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, in *itemInput) (*taskOutput, error) {
		t, err := svc.ToggleChecklistItem(ctx, in.Date, in.ID, in.Item)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/days/{date}/tasks/{id}",
		Summary:       "Delete a task from the day, or from every day with mode=all",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, in *deleteInput) (*struct{}, error) {
		mode, err := checklist.ParseDeleteMode(in.Mode)
		if err != nil {
			return nil, handleError(err)
		}
		if err := svc.DeleteTask(ctx, in.Date, in.ID, mode); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "calendar",
		Method:      http.MethodGet,
		Path:        "/calendar",
		Summary:     "Completion of every campaign day up to today",
	}, func(ctx context.Context, _ *struct{}) (*calendarOutput, error) {
		days, err := svc.Calendar(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &calendarOutput{Body: days}, nil
	})

	return router
}

func handleError(err error) error {
	switch {
	case errors.Is(err, checklist.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, checklist.ErrTaskNotFound), errors.Is(err, checklist.ErrItemNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, checklist.ErrInvalidDate), errors.Is(err, checklist.ErrInvalidDeleteMode):
		return huma.Error400BadRequest(err.Error())
	}
	return huma.Error500InternalServerError("internal error")
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
