package domain

import "context"

// Store is the key-value persistence every service writes through. Values
// are JSON text. A missing key reports found=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Storage keys.
const (
	KeyTasksByDate     = "tasksByDate"
	KeyRecurringTasks  = "recurringTasks"
	KeyActiveDate      = "activeDate"
	KeyTasbeehs        = "tasbeehs"
	KeyTasbeehActive   = "tasbeehActive"
	KeyVibration       = "vibrationEnabled"
	KeySound           = "soundEnabled"
	KeyRecentlyRead    = "quranRecentlyRead"
	KeyQuranFontSize   = "quranFontSize"
	KeyQuranDarkMode   = "quranDarkMode"
	KeyQuranShowArabic = "quranShowArabic"
	KeyLastReadSurah   = "lastReadSurah"
	KeyLastReadVerse   = "lastReadVerse"
	KeyLastReadPage    = "lastReadPage"
	KeyLastReadJuz     = "lastReadJuz"
)

// Keys lists every storage key in a stable order.
var Keys = []string{
	KeyTasksByDate, KeyRecurringTasks, KeyActiveDate,
	KeyTasbeehs, KeyTasbeehActive, KeyVibration, KeySound,
	KeyRecentlyRead, KeyQuranFontSize, KeyQuranDarkMode, KeyQuranShowArabic,
	KeyLastReadSurah, KeyLastReadVerse, KeyLastReadPage, KeyLastReadJuz,
}
