package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/go-pkgz/lgr"
)

// mcpActor is recorded on audit events raised through MCP tools.
const mcpActor = "ai-agent"

type Server struct {
	mcpServer *mcp.Server
	services  *wiring.AppServices
	root      string
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are omitted; only the friendly message is returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// userErr passes domain errors through since their text tells the caller
// what to fix. Anything else is replaced by fallback.
func userErr(err error, fallback string) error {
	for _, target := range []error{
		checklist.ErrValidation, checklist.ErrTaskNotFound, checklist.ErrItemNotFound,
		checklist.ErrInvalidDate, checklist.ErrInvalidDeleteMode,
		tasbeeh.ErrTasbeehNotFound, tasbeeh.ErrNoActive,
		quran.ErrSurahNotFound, quran.ErrInvalidPage, quran.ErrEndOfContent, quran.ErrStaleResult,
	} {
		if errors.Is(err, target) {
			return mcpErr(err.Error())
		}
	}
	return mcpErr(fallback)
}

// NewServer builds the services for the workspace at root.
func NewServer(root string, log lgr.L) (*Server, error) {
	services, err := wiring.BuildAppServices(root, log)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	return NewServerWithServices(root, services), nil
}

// NewServerWithServices serves already built services. Close releases them.
func NewServerWithServices(root string, services *wiring.AppServices) *Server {
	info := mcp.ServerInfo{
		Name:    "hilal",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Hilal MCP Server"),
			mcp.WithDescription("Hilal exposes the Ramadan daily checklist, tasbeeh counters and Quran reader to MCP clients."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Read a day with hilal_get_day before changing it. Dates are YYYY-MM-DD; an empty date means the active date."),
		),
		services: services,
		root:     root,
	}

	s.registerTools()
	s.registerResources()
	return s
}

// Close releases the services.
func (s *Server) Close() error {
	return s.services.Close()
}

type DateArgs struct {
	Date string `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD; empty for the active date"`
}

type AddTaskArgs struct {
	Date        string   `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD; empty for the active date"`
	Title       string   `json:"title" jsonschema:"description=Task title"`
	Description string   `json:"description" jsonschema:"description=What the task involves"`
	Items       []string `json:"items,omitempty" jsonschema:"description=Checklist item texts; a task with items completes when all are done"`
	Recurring   bool     `json:"recurring,omitempty" jsonschema:"description=Add the task to this and every later day"`
}

type TaskArgs struct {
	Date   string `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD; empty for the active date"`
	TaskID int64  `json:"task_id" jsonschema:"description=Numeric task id from hilal_get_day"`
}

type ItemArgs struct {
	Date   string `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD; empty for the active date"`
	TaskID int64  `json:"task_id" jsonschema:"description=Numeric task id from hilal_get_day"`
	ItemID string `json:"item_id" jsonschema:"description=Checklist item id such as 1741158000000-0"`
}

type DeleteTaskArgs struct {
	Date   string `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD; empty for the active date"`
	TaskID int64  `json:"task_id" jsonschema:"description=Numeric task id from hilal_get_day"`
	Mode   string `json:"mode,omitempty" jsonschema:"description=current removes the task from this date only; all removes it everywhere"`
}

type ChangeDateArgs struct {
	Date string `json:"date" jsonschema:"description=Date to make active, as YYYY-MM-DD"`
}

type SearchArgs struct {
	Query string `json:"query,omitempty" jsonschema:"description=Part of a surah name, its meaning or its number; empty lists all"`
}

type PageArgs struct {
	Page  int `json:"page,omitempty" jsonschema:"description=Mushaf page 1-604"`
	Surah int `json:"surah,omitempty" jsonschema:"description=Open at this surah when page is not given"`
	Verse int `json:"verse,omitempty" jsonschema:"description=Verse within surah"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("hilal_get_day").
		Description("Get the tasks and completion status of a day, copying recurring tasks onto it on first access").
		Handler(s.handleGetDay)

	s.mcpServer.Tool("hilal_calendar").
		Description("List every campaign day up to today with its completion status").
		Handler(s.handleCalendar)

	s.mcpServer.Tool("hilal_add_task").
		Description("Add a task to a day, or to every day when recurring. A recurring title that already exists is added to the day only, with a warning").
		Handler(s.handleAddTask)

	s.mcpServer.Tool("hilal_toggle_task").
		Description("Flip a task between done and open; its checklist items follow").
		Handler(s.handleToggleTask)

	s.mcpServer.Tool("hilal_toggle_item").
		Description("Flip one checklist item; the task is done when every item is").
		Handler(s.handleToggleItem)

	s.mcpServer.Tool("hilal_delete_task").
		Description("Delete a task from one day (mode current) or from every day and the recurring set (mode all)").
		Handler(s.handleDeleteTask)

	s.mcpServer.Tool("hilal_change_date").
		Description("Make a date the active one and return its day view").
		Handler(s.handleChangeDate)

	s.mcpServer.Tool("hilal_tasbeeh_list").
		Description("List dhikr counters and the active one").
		Handler(s.handleTasbeehList)

	s.mcpServer.Tool("hilal_tasbeeh_increment").
		Description("Count one on the active dhikr counter").
		Handler(s.handleTasbeehIncrement)

	s.mcpServer.Tool("hilal_quran_search").
		Description("Search surahs by name, meaning or number").
		Handler(s.handleQuranSearch)

	s.mcpServer.Tool("hilal_quran_page").
		Description("Read a Quran page, by page number or by surah and verse; with neither, the last read page").
		Handler(s.handleQuranPage)
}

func (s *Server) ctx(ctx context.Context) context.Context {
	return application.WithActor(ctx, mcpActor)
}

func (s *Server) handleGetDay(ctx context.Context, args DateArgs) (any, error) {
	day, err := s.services.Checklist.Day(s.ctx(ctx), args.Date)
	if err != nil {
		return nil, userErr(err, "Failed to load the day. Check that the workspace is readable.")
	}
	return day, nil
}

func (s *Server) handleCalendar(ctx context.Context, args struct{}) (any, error) {
	days, err := s.services.Checklist.Calendar(s.ctx(ctx))
	if err != nil {
		return nil, userErr(err, "Failed to build the calendar.")
	}
	return days, nil
}

func (s *Server) handleAddTask(ctx context.Context, args AddTaskArgs) (any, error) {
	out, err := s.services.Checklist.AddTask(s.ctx(ctx), args.Date, checklist.NewTask{
		Title:        args.Title,
		Description:  args.Description,
		HasChecklist: len(args.Items) > 0,
		Items:        args.Items,
		Recurring:    args.Recurring,
	})
	if err != nil {
		return nil, userErr(err, "Failed to add the task.")
	}
	return out, nil
}

func (s *Server) handleToggleTask(ctx context.Context, args TaskArgs) (any, error) {
	t, err := s.services.Checklist.ToggleTask(s.ctx(ctx), args.Date, args.TaskID)
	if err != nil {
		return nil, userErr(err, fmt.Sprintf("Failed to toggle task %d.", args.TaskID))
	}
	return t, nil
}

func (s *Server) handleToggleItem(ctx context.Context, args ItemArgs) (any, error) {
	t, err := s.services.Checklist.ToggleChecklistItem(s.ctx(ctx), args.Date, args.TaskID, args.ItemID)
	if err != nil {
		return nil, userErr(err, fmt.Sprintf("Failed to toggle item %s.", args.ItemID))
	}
	return t, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, args DeleteTaskArgs) (string, error) {
	mode, err := checklist.ParseDeleteMode(args.Mode)
	if err != nil {
		return "", userErr(err, "Mode must be current or all.")
	}
	if err := s.services.Checklist.DeleteTask(s.ctx(ctx), args.Date, args.TaskID, mode); err != nil {
		return "", userErr(err, fmt.Sprintf("Failed to delete task %d.", args.TaskID))
	}
	if mode == checklist.DeleteAll {
		return fmt.Sprintf("Task %d deleted from every day", args.TaskID), nil
	}
	return fmt.Sprintf("Task %d deleted", args.TaskID), nil
}

func (s *Server) handleChangeDate(ctx context.Context, args ChangeDateArgs) (any, error) {
	day, err := s.services.Checklist.ChangeActiveDate(s.ctx(ctx), args.Date)
	if err != nil {
		return nil, userErr(err, "Failed to change the active date.")
	}
	return day, nil
}

func (s *Server) handleTasbeehList(ctx context.Context, args struct{}) (any, error) {
	return s.services.Tasbeeh.State(s.ctx(ctx)), nil
}

type incrementResult struct {
	Tasbeeh tasbeeh.Tasbeeh `json:"tasbeeh"`
	Reached bool            `json:"reached"`
}

func (s *Server) handleTasbeehIncrement(ctx context.Context, args struct{}) (any, error) {
	t, reached, err := s.services.Tasbeeh.Increment(s.ctx(ctx))
	if err != nil {
		return nil, userErr(err, "Failed to count.")
	}
	return incrementResult{Tasbeeh: t, Reached: reached}, nil
}

func (s *Server) handleQuranSearch(ctx context.Context, args SearchArgs) (any, error) {
	return s.services.Quran.Search(args.Query), nil
}

func (s *Server) handleQuranPage(ctx context.Context, args PageArgs) (any, error) {
	ctx = s.ctx(ctx)
	var (
		r   application.Reading
		err error
	)
	switch {
	case args.Page > 0:
		r, err = s.services.Quran.OpenPage(ctx, args.Page)
	case args.Surah > 0 && args.Verse > 0:
		r, err = s.services.Quran.OpenVerse(ctx, args.Surah, args.Verse)
	case args.Surah > 0:
		r, err = s.services.Quran.OpenSurah(ctx, args.Surah)
	default:
		r, err = s.services.Quran.OpenPage(ctx, s.services.Quran.Position(ctx).Page)
	}
	if err != nil {
		return nil, userErr(err, "Failed to load the page. Try again.")
	}
	return r, nil
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
