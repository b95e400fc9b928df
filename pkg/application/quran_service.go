package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
	"github.com/go-pkgz/lgr"
)

// QuranService tracks the reading position, recent reads and reader
// preferences, and drives the browser view and the paginated reader.
type QuranService struct {
	mu       sync.Mutex
	blobs    *blobs
	src      quran.Source
	log      lgr.L
	view     *quran.ViewMachine
	reader   *quran.ReaderSession
	position quran.Position
	recent   []quran.RecentRead
	settings quran.Settings
	loaded   bool

	Now func() time.Time
}

// Reading is what the reader shows after a navigation.
type Reading struct {
	Page     quran.PageData `json:"page"`
	Position quran.Position `json:"position"`
	Surah    quran.Surah    `json:"surah"`
	Loaded   []int          `json:"loadedPages"`
}

func NewQuranService(store domain.Store, src quran.Source, log lgr.L) (*QuranService, error) {
	log = loggerOrNoOp(log)
	s := &QuranService{
		blobs:    newBlobs(store, log),
		src:      src,
		log:      log,
		reader:   quran.NewReaderSession(src),
		position: quran.StartPosition(),
		settings: quran.DefaultSettings(),
		Now:      time.Now,
	}
	view, err := quran.NewViewMachine(quran.ViewList, func() bool { return s.position.Valid() })
	if err != nil {
		return nil, err
	}
	s.view = view
	return s, nil
}

// Load reads the stored position, history and settings. Missing or invalid
// values fall back to the defaults.
func (s *QuranService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

func (s *QuranService) loadLocked(ctx context.Context) {
	pos := quran.StartPosition()
	if v, ok := load[int](ctx, s.blobs, domain.KeyLastReadSurah); ok {
		pos.Surah = v
	}
	if v, ok := load[int](ctx, s.blobs, domain.KeyLastReadVerse); ok {
		pos.Verse = v
	}
	if v, ok := load[int](ctx, s.blobs, domain.KeyLastReadPage); ok {
		pos.Page = v
	}
	if v, ok := load[int](ctx, s.blobs, domain.KeyLastReadJuz); ok {
		pos.Juz = v
	}
	if !pos.Valid() {
		s.log.Logf("[WARN] stored reading position %+v is invalid, starting over", pos)
		pos = quran.StartPosition()
	}
	s.position = pos

	if recent, ok := load[[]quran.RecentRead](ctx, s.blobs, domain.KeyRecentlyRead); ok {
		s.recent = recent
	}

	settings := quran.DefaultSettings()
	if v, ok := load[int](ctx, s.blobs, domain.KeyQuranFontSize); ok {
		if next, err := settings.WithFontSize(v); err == nil {
			settings = next
		}
	}
	if v, ok := load[bool](ctx, s.blobs, domain.KeyQuranDarkMode); ok {
		settings.DarkMode = v
	}
	if v, ok := load[bool](ctx, s.blobs, domain.KeyQuranShowArabic); ok {
		settings.ShowArabic = v
	}
	s.settings = settings
	s.loaded = true
}

func (s *QuranService) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.loadLocked(ctx)
	}
}

// Position returns the last reading position.
func (s *QuranService) Position(ctx context.Context) quran.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.position
}

// Recent returns the reading history, newest first.
func (s *QuranService) Recent(ctx context.Context) []quran.RecentRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	out := make([]quran.RecentRead, len(s.recent))
	copy(out, s.recent)
	return out
}

func (s *QuranService) Settings(ctx context.Context) quran.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.settings
}

// UpdateSettings validates and stores the reader preferences.
func (s *QuranService) UpdateSettings(ctx context.Context, next quran.Settings) (quran.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	checked, err := next.WithFontSize(next.FontSize)
	if err != nil {
		return s.settings, err
	}
	s.settings = checked
	persist(ctx, s.blobs, domain.KeyQuranFontSize, checked.FontSize)
	persist(ctx, s.blobs, domain.KeyQuranDarkMode, checked.DarkMode)
	persist(ctx, s.blobs, domain.KeyQuranShowArabic, checked.ShowArabic)
	return checked, nil
}

// StepFontSize grows or shrinks the font one step within bounds.
func (s *QuranService) StepFontSize(ctx context.Context, increase bool) quran.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	s.settings = s.settings.StepFontSize(increase)
	persist(ctx, s.blobs, domain.KeyQuranFontSize, s.settings.FontSize)
	return s.settings
}

// View returns the browser screen currently showing.
func (s *QuranService) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Current()
}

func (s *QuranService) Surahs() []quran.Surah {
	return s.src.AllSurahs()
}

// Search filters the surah list and moves the browser into or out of search.
func (s *QuranService) Search(query string) []quran.Surah {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case query != "" && s.view.Current() == quran.ViewList:
		_ = s.view.Send(quran.EventSearch)
	case query == "" && s.view.Current() == quran.ViewSearch:
		_ = s.view.Send(quran.EventClear)
	}
	return s.src.SearchSurahs(query)
}

// Back leaves the reader for the surah list.
func (s *QuranService) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Send(quran.EventBack)
}

// OpenSurah opens the reader at the first page of a surah.
func (s *QuranService) OpenSurah(ctx context.Context, number int) (Reading, error) {
	surah, err := s.src.GetSurah(number)
	if err != nil {
		return Reading{}, err
	}
	return s.OpenPage(ctx, s.src.PageRange(surah.Number).Start)
}

// OpenVerse opens the reader at the page holding a verse.
func (s *QuranService) OpenVerse(ctx context.Context, surah, verse int) (Reading, error) {
	if _, err := s.src.GetSurah(surah); err != nil {
		return Reading{}, err
	}
	return s.OpenPage(ctx, s.src.PageForVerse(surah, verse))
}

// OpenRecent reopens a history entry by id.
func (s *QuranService) OpenRecent(ctx context.Context, id string) (Reading, error) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	page := 0
	for _, r := range s.recent {
		if r.ID == id {
			page = r.Page
			break
		}
	}
	s.mu.Unlock()
	if page == 0 {
		return Reading{}, fmt.Errorf("recent read %q not found", id)
	}
	return s.OpenPage(ctx, page)
}

// OpenPage opens the reader at page, records the position and pushes the
// page onto the history. A newer open supersedes this one; its result is
// then dropped with quran.ErrStaleResult.
func (s *QuranService) OpenPage(ctx context.Context, page int) (Reading, error) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.mu.Unlock()

	// The fetch runs unlocked so a newer open can bump the epoch.
	pos, err := s.reader.Open(ctx, page)
	if err != nil {
		return Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPosition(ctx, pos)
	if s.view.Current() != quran.ViewReader {
		if err := s.view.Send(quran.EventOpen); err != nil {
			return Reading{}, err
		}
	}
	s.pushRecent(ctx, pos)
	return s.reading()
}

// Turn moves one page forward or back, fetching the neighbouring page when
// the cursor sits on the edge of the loaded window.
func (s *QuranService) Turn(ctx context.Context, forward bool) (Reading, error) {
	current, _, err := s.reader.Visible()
	if err != nil {
		return Reading{}, err
	}
	pages := s.reader.Pages()
	atEdge := (forward && current.PageNumber == pages[len(pages)-1]) ||
		(!forward && current.PageNumber == pages[0])
	if atEdge {
		var loadErr error
		if forward {
			_, loadErr = s.reader.LoadNext(ctx)
		} else {
			_, loadErr = s.reader.LoadPrevious(ctx)
		}
		if loadErr != nil {
			return Reading{}, loadErr
		}
	}

	pos, err := s.reader.Step(forward)
	if err != nil {
		return Reading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPosition(ctx, pos)
	return s.reading()
}

// Current returns what the reader shows now.
func (s *QuranService) Current() (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading()
}

func (s *QuranService) reading() (Reading, error) {
	page, pos, err := s.reader.Visible()
	if err != nil {
		return Reading{}, err
	}
	surah, _ := s.src.GetSurah(pos.Surah)
	return Reading{Page: page, Position: pos, Surah: surah, Loaded: s.reader.Pages()}, nil
}

func (s *QuranService) setPosition(ctx context.Context, pos quran.Position) {
	s.position = pos
	persist(ctx, s.blobs, domain.KeyLastReadSurah, pos.Surah)
	persist(ctx, s.blobs, domain.KeyLastReadVerse, pos.Verse)
	persist(ctx, s.blobs, domain.KeyLastReadPage, pos.Page)
	persist(ctx, s.blobs, domain.KeyLastReadJuz, pos.Juz)
}

func (s *QuranService) pushRecent(ctx context.Context, pos quran.Position) {
	surah, err := s.src.GetSurah(pos.Surah)
	if err != nil {
		return
	}
	now := s.Now()
	s.recent = quran.PushRecent(s.recent, quran.RecentRead{
		ID:              strconv.FormatInt(now.UnixMilli(), 10),
		Surah:           pos.Surah,
		Verse:           pos.Verse,
		Page:            pos.Page,
		Juz:             pos.Juz,
		Timestamp:       now,
		SurahName:       surah.Name,
		SurahNameArabic: surah.NameArabic,
	})
	persist(ctx, s.blobs, domain.KeyRecentlyRead, s.recent)
}

// IsStale reports whether err came from a superseded navigation.
func IsStale(err error) bool {
	return errors.Is(err, quran.ErrStaleResult)
}
