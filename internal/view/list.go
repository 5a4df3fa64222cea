package view

import (
	"context"
	"errors"
	"sync"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
	"github.com/actuallystonmai/watchlist-service/internal/service"
)

var (
	// ErrDiscarded is returned when a response arrives for a view that was
	// closed or superseded; its result was not applied.
	ErrDiscarded = errors.New("view: response discarded")
	ErrNotLoaded = errors.New("view: entry not loaded")
	ErrNoPrompt  = errors.New("view: no rating prompt open")
)

// Watchlist is what the views need from service.Service.
type Watchlist interface {
	Add(ctx context.Context, req domain.AddRequest) (*domain.AddResult, error)
	List(ctx context.Context, term string) ([]domain.Entry, error)
	Get(ctx context.Context, id string) (*domain.Entry, error)
	Remove(ctx context.Context, id string) error
	MarkWatched(ctx context.Context, id string, rating *int) (*domain.Entry, error)
	Providers(ctx context.Context, id string) ([]domain.Provider, error)
	ImageURL(path string) string
}

// ListView owns the in-memory list shown to the user. The list only changes
// after the backend confirms an operation.
type ListView struct {
	svc    Watchlist
	notify Notifier

	mu      sync.Mutex
	entries []domain.Entry
	gen     uint64
	closed  bool
}

func NewListView(svc Watchlist, notify Notifier) *ListView {
	return &ListView{svc: svc, notify: notify, entries: []domain.Entry{}}
}

// Load replaces the list with the stored entries. On failure the previous
// list is kept. A Load that overlaps a Close, another Load or a confirmed
// Add or Remove is discarded.
func (v *ListView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	entries, err := v.svc.List(ctx, "")

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.gen != gen {
		return ErrDiscarded
	}
	if err != nil {
		v.fail(ctx, "Could not load your list.", err)
		return err
	}
	v.entries = entries
	return nil
}

// Add runs the add workflow and puts the stored entry at the head of the list.
func (v *ListView) Add(ctx context.Context, form AddForm) (*domain.Entry, error) {
	if err := form.Validate(); err != nil {
		v.notify.Notify(FailureNotice("", err))
		return nil, err
	}

	res, err := v.svc.Add(ctx, form.Request())

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrDiscarded
	}
	if err != nil {
		v.fail(ctx, "Could not add to your list. Please try again.", err)
		return nil, err
	}

	v.entries = append([]domain.Entry{*res.Entry}, v.entries...)
	v.gen++
	v.notify.Notify(AddedNotice(res.Entry, res.Enriched))
	return res.Entry, nil
}

// Remove deletes the entry with id and drops exactly that entry from the list.
func (v *ListView) Remove(ctx context.Context, id string) error {
	err := v.svc.Remove(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrDiscarded
	}
	if err != nil {
		v.fail(ctx, "Could not remove the entry.", err)
		return err
	}

	for i, e := range v.entries {
		if e.ID == id {
			v.entries = append(v.entries[:i:i], v.entries[i+1:]...)
			v.gen++
			v.notify.Notify(RemovedNotice(e.Title))
			break
		}
	}
	return nil
}

// Search filters the loaded list by title without touching the backend.
func (v *ListView) Search(term string) []domain.Entry {
	return service.FilterByTitle(v.Entries(), term)
}

func (v *ListView) Entries() []domain.Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

func (v *ListView) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// Close detaches the view. Responses still in flight are dropped.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.gen++
}

// fail reports err unless the caller gave up on the request.
func (v *ListView) fail(ctx context.Context, fallback string, err error) {
	if ctx.Err() != nil {
		return
	}
	v.notify.Notify(FailureNotice(fallback, err))
}
