package view

import (
	"errors"
	"fmt"
	"sync"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient, user-visible notification.
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice and whether there was one.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func kindNoun(k domain.Kind) string {
	if k == domain.KindSeries {
		return "Series"
	}
	return "Movie"
}

// AddedNotice tells the user whether the new entry could be enriched.
func AddedNotice(e *domain.Entry, enriched bool) Notice {
	if enriched {
		return Notice{
			Level:   LevelSuccess,
			Title:   "Added",
			Message: fmt.Sprintf("%s added to your list.", kindNoun(e.Kind)),
		}
	}
	return Notice{
		Level:   LevelSuccess,
		Title:   "Added",
		Message: fmt.Sprintf("%s added to your list, but no extra info was found.", kindNoun(e.Kind)),
	}
}

func RemovedNotice(title string) Notice {
	return Notice{
		Level:   LevelSuccess,
		Title:   "Removed",
		Message: fmt.Sprintf("%s was removed from your list.", title),
	}
}

func WatchedNotice(e *domain.Entry) Notice {
	msg := fmt.Sprintf("%s marked as watched.", e.Title)
	if e.Rating != nil {
		msg = fmt.Sprintf("%s marked as watched, rated %d/5.", e.Title, *e.Rating)
	}
	return Notice{Level: LevelSuccess, Title: "Watched", Message: msg}
}

// FailureNotice explains err to the user. Known errors get their own text,
// anything else falls back to fallback.
func FailureNotice(fallback string, err error) Notice {
	msg := fallback
	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		msg = "The title is required!"
	case errors.Is(err, domain.ErrInvalidKind):
		msg = "Choose movie or series."
	case errors.Is(err, domain.ErrInvalidLink):
		msg = "The link must start with http:// or https://."
	case errors.Is(err, domain.ErrInvalidRating):
		msg = "Pick a rating from 1 to 5 stars."
	case errors.Is(err, domain.ErrEntryNotFound):
		msg = "Entry not found."
	case errors.Is(err, domain.ErrAlreadyWatched):
		msg = "This entry was already marked as watched."
	}
	return Notice{Level: LevelError, Title: "Error", Message: msg}
}
