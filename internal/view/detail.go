package view

import (
	"context"
	"sync"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

// DetailView shows one entry and drives the mark-as-watched prompt.
type DetailView struct {
	svc    Watchlist
	notify Notifier
	id     string

	mu        sync.Mutex
	entry     *domain.Entry
	prompting bool
	closed    bool
}

func NewDetailView(svc Watchlist, notify Notifier, id string) *DetailView {
	return &DetailView{svc: svc, notify: notify, id: id}
}

func (v *DetailView) Open(ctx context.Context) error {
	entry, err := v.svc.Get(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrDiscarded
	}
	if err != nil {
		if ctx.Err() == nil {
			v.notify.Notify(FailureNotice("Could not load the details.", err))
		}
		return err
	}
	v.entry = entry
	return nil
}

// Entry returns a copy of the loaded entry, or nil before Open succeeds.
func (v *DetailView) Entry() *domain.Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.entry == nil {
		return nil
	}
	e := *v.entry
	return &e
}

func (v *DetailView) PosterURL() string {
	e := v.Entry()
	if e == nil || e.PosterPath == "" {
		return ""
	}
	return v.svc.ImageURL(e.PosterPath)
}

// RequestWatched opens the rating prompt.
func (v *DetailView) RequestWatched() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.entry == nil {
		return ErrNotLoaded
	}
	if v.entry.Watched {
		return domain.ErrAlreadyWatched
	}
	v.prompting = true
	return nil
}

func (v *DetailView) Prompting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prompting
}

// Rate confirms the prompt with a 1-5 star rating.
func (v *DetailView) Rate(ctx context.Context, stars int) error {
	if stars < 1 || stars > 5 {
		return domain.ErrInvalidRating
	}
	return v.confirm(ctx, &stars)
}

// Skip confirms the prompt without a rating.
func (v *DetailView) Skip(ctx context.Context) error {
	return v.confirm(ctx, nil)
}

func (v *DetailView) confirm(ctx context.Context, rating *int) error {
	v.mu.Lock()
	if !v.prompting {
		v.mu.Unlock()
		return ErrNoPrompt
	}
	v.prompting = false
	id := v.entry.ID
	v.mu.Unlock()

	updated, err := v.svc.MarkWatched(ctx, id, rating)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrDiscarded
	}
	if err != nil {
		if ctx.Err() == nil {
			v.notify.Notify(FailureNotice("Could not mark as watched.", err))
		}
		return err
	}
	v.entry = updated
	v.notify.Notify(WatchedNotice(updated))
	return nil
}

func (v *DetailView) Providers(ctx context.Context) ([]domain.Provider, error) {
	providers, err := v.svc.Providers(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrDiscarded
	}
	return providers, err
}

func (v *DetailView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.prompting = false
}
