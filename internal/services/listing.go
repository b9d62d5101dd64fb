package services

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maxaizer/job-board/internal/clients/jobs"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const DefaultSearchDebounce = 500 * time.Millisecond

type ListingOptions struct {
	Clock          clockwork.Clock
	SearchDebounce time.Duration
	Timeout        time.Duration
	Limit          int
	// OnChange is invoked outside of the listing lock after every applied response.
	OnChange func(state ListingState)
}

type ListingState struct {
	Filters models.Filters
	Page    int
	Limit   int
	Result  models.JobsPage
	Loading bool
	Err     error
}

// Listing keeps the filter and page state of one viewer and runs queries against a JobLister.
// Search edits are debounced, any applied filter change resets the page to 1, and only the
// response of the most recently issued request is applied.
type Listing struct {
	lister   JobLister
	clock    clockwork.Clock
	debounce time.Duration
	timeout  time.Duration
	onChange func(state ListingState)

	mu        sync.Mutex
	filters   models.Filters
	page      int
	limit     int
	result    models.JobsPage
	hasResult bool
	loading   bool
	err       error
	seq       uint64
	timer     clockwork.Timer
	searchGen uint64
	closed    bool

	inFlight sync.WaitGroup
}

func NewListing(lister JobLister, options ListingOptions) *Listing {

	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.SearchDebounce <= 0 {
		options.SearchDebounce = DefaultSearchDebounce
	}
	if options.Timeout <= 0 {
		options.Timeout = jobs.DefaultTimeout
	}
	if options.Limit <= 0 {
		options.Limit = jobs.DefaultLimit
	}

	return &Listing{
		lister:   lister,
		clock:    options.Clock,
		debounce: options.SearchDebounce,
		timeout:  options.Timeout,
		onChange: options.OnChange,
		page:     1,
		limit:    options.Limit,
	}
}

// Restore replaces filters and page without issuing a request.
func (l *Listing) Restore(filters models.Filters, page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filters = filters
	l.page = max(page, 1)
	l.hasResult = false
}

// SetSearch schedules the search text to be applied once no further edit arrives within the debounce interval.
func (l *Listing) SetSearch(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.stopSearchTimer()
	gen := l.searchGen
	l.timer = l.clock.AfterFunc(l.debounce, func() { l.applySearch(gen, text) })
}

func (l *Listing) applySearch(gen uint64, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.searchGen || l.closed {
		return
	}
	l.timer = nil
	l.applyFilters(l.filters.With(models.FilterSearch, text))
}

// SetFilter applies a discrete criterion immediately. Search edits go through SetSearch.
func (l *Listing) SetFilter(key models.FilterKey, value string) {
	if key == models.FilterSearch {
		l.SetSearch(value)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.applyFilters(l.filters.With(key, value))
}

func (l *Listing) ResetFilters() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopSearchTimer()
	l.applyFilters(l.filters.Reset())
}

func (l *Listing) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.page = l.clampPage(page)
	l.fetch()
}

func (l *Listing) NextPage() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.page = l.clampPage(l.page + 1)
	l.fetch()
}

func (l *Listing) PrevPage() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.page = l.clampPage(l.page - 1)
	l.fetch()
}

// Refresh re-issues the current query, used after mutations and scheduled refreshes.
func (l *Listing) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fetch()
}

func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Wait blocks until every issued request has completed. Pending debounced edits are not awaited.
func (l *Listing) Wait() {
	l.inFlight.Wait()
}

// Close cancels a pending search edit and stops further requests. Responses still in flight are dropped.
func (l *Listing) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopSearchTimer()
	l.closed = true
	l.seq++
}

func (l *Listing) applyFilters(filters models.Filters) {
	l.filters = filters
	l.page = 1
	l.fetch()
}

// clampPage bounds page by the last received result. Until one arrives only the lower bound applies.
func (l *Listing) clampPage(page int) int {
	page = max(page, 1)
	if !l.hasResult {
		return page
	}
	return min(page, max(l.result.TotalPages(), 1))
}

func (l *Listing) stopSearchTimer() {
	l.searchGen++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// fetch must be called with l.mu held.
func (l *Listing) fetch() {
	if l.closed {
		return
	}

	l.seq++
	seq := l.seq
	query := JobsQuery{Filters: l.filters, Page: l.page, Limit: l.limit}
	l.loading = true

	l.inFlight.Add(1)
	go func() {
		defer l.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		page, err := l.lister.ListJobs(ctx, query)
		l.apply(seq, page, err)
	}()
}

func (l *Listing) apply(seq uint64, page models.JobsPage, err error) {

	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		metrics.StaleResponsesDiscarded.Inc()
		log.Debugf("discarded stale listing response %d", seq)
		return
	}

	// the result set shrank below the current page, follow it to the new last page
	if err == nil && page.Total > 0 && l.page > page.TotalPages() {
		l.result = page
		l.hasResult = true
		l.page = page.TotalPages()
		l.fetch()
		l.mu.Unlock()
		return
	}

	l.loading = false
	l.err = err
	if err == nil {
		l.result = page
		l.hasResult = true
	}
	state := l.snapshot()
	onChange := l.onChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}

func (l *Listing) snapshot() ListingState {
	return ListingState{
		Filters: l.filters,
		Page:    l.page,
		Limit:   l.limit,
		Result:  l.result,
		Loading: l.loading,
		Err:     l.err,
	}
}
