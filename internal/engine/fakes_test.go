package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

// fakeStore is an in-memory stand-in for the Postgres store. Thin per-repo
// wrappers share it; WithTx serializes transactions with a mutex and
// snapshots the state, so a failed operation rolls back exactly like a real
// transaction would.
type fakeStore struct {
	mu    sync.Mutex
	state storeState
}

type storeState struct {
	users    map[string]domain.User
	movies   map[int]domain.Movie
	shows    map[int]domain.Show
	plays    map[int][]int
	theaters map[int]domain.Theater
	seats    map[int]domain.ShowSeat
	bookings map[int]domain.Booking
	payments map[int]domain.Payment
	counters map[string]int
}

type fakeTxKey struct{}

func newFakeStore() *fakeStore {
	return &fakeStore{
		state: storeState{
			users:    make(map[string]domain.User),
			movies:   make(map[int]domain.Movie),
			shows:    make(map[int]domain.Show),
			plays:    make(map[int][]int),
			theaters: make(map[int]domain.Theater),
			seats:    make(map[int]domain.ShowSeat),
			bookings: make(map[int]domain.Booking),
			payments: make(map[int]domain.Payment),
			counters: map[string]int{"bookings": 0, "shows": 0, "movies": 0, "payments": 0},
		},
	}
}

func newTestEngine(s *fakeStore) *Engine {
	return New(
		s,
		fakeUsers{s},
		fakeMovies{s},
		fakeShows{s},
		fakeTheaters{s},
		fakeSeats{s},
		fakeBookings{s},
		fakePayments{s},
	)
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()

	err := fn(context.WithValue(ctx, fakeTxKey{}, true))
	if err != nil {
		s.state = snapshot
	}

	return err
}

// lock takes the store mutex only for calls made outside a transaction.
func (s *fakeStore) lock(ctx context.Context) func() {
	if ctx.Value(fakeTxKey{}) != nil {
		return func() {}
	}

	s.mu.Lock()
	return s.mu.Unlock
}

func (st storeState) clone() storeState {
	out := storeState{
		users:    make(map[string]domain.User, len(st.users)),
		movies:   make(map[int]domain.Movie, len(st.movies)),
		shows:    make(map[int]domain.Show, len(st.shows)),
		plays:    make(map[int][]int, len(st.plays)),
		theaters: make(map[int]domain.Theater, len(st.theaters)),
		seats:    make(map[int]domain.ShowSeat, len(st.seats)),
		bookings: make(map[int]domain.Booking, len(st.bookings)),
		payments: make(map[int]domain.Payment, len(st.payments)),
		counters: make(map[string]int, len(st.counters)),
	}

	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.movies {
		out.movies[k] = v
	}
	for k, v := range st.shows {
		out.shows[k] = v
	}
	for k, v := range st.plays {
		out.plays[k] = append([]int(nil), v...)
	}
	for k, v := range st.theaters {
		out.theaters[k] = v
	}
	for k, v := range st.seats {
		if v.BookingID != nil {
			id := *v.BookingID
			v.BookingID = &id
		}
		out.seats[k] = v
	}
	for k, v := range st.bookings {
		out.bookings[k] = v
	}
	for k, v := range st.payments {
		out.payments[k] = v
	}
	for k, v := range st.counters {
		out.counters[k] = v
	}

	return out
}

// Fixtures. Callers run these before starting the engine, so no locking.

func (s *fakeStore) addUser(email string) {
	s.state.users[email] = domain.User{Email: email, FirstName: "Test", LastName: "User"}
}

func (s *fakeStore) addShowWithSeats(showID int, seatIDs ...int) {
	s.state.shows[showID] = domain.Show{ID: showID, MovieID: 1}
	for _, seatID := range seatIDs {
		s.state.seats[seatID] = domain.ShowSeat{
			ID:           seatID,
			ShowID:       showID,
			CinemaSeatID: seatID,
			SeatNumber:   seatID,
		}
	}
}

func (s *fakeStore) occupant(seatID int) *int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.seats[seatID].BookingID
}

func (s *fakeStore) booking(id int) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.bookings[id]
}

type fakeUsers struct{ *fakeStore }

func (f fakeUsers) Create(ctx context.Context, user *domain.User) error {
	defer f.lock(ctx)()

	if _, ok := f.state.users[user.Email]; ok {
		return domain.ErrUserAlreadyExists
	}

	user.CreatedAt = time.Now()
	f.state.users[user.Email] = *user

	return nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer f.lock(ctx)()

	user, ok := f.state.users[email]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &user, nil
}

func (f fakeUsers) WithPendingBookings(ctx context.Context) ([]domain.User, error) {
	defer f.lock(ctx)()

	seen := make(map[string]bool)
	users := make([]domain.User, 0)

	for _, b := range f.state.bookings {
		if b.Status != domain.BookingPending || seen[b.Email] {
			continue
		}
		seen[b.Email] = true
		users = append(users, f.state.users[b.Email])
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return users, nil
}

type fakeMovies struct{ *fakeStore }

func (f fakeMovies) Create(ctx context.Context, movie *domain.Movie) error {
	defer f.lock(ctx)()

	f.state.counters["movies"]++
	movie.ID = f.state.counters["movies"]
	f.state.movies[movie.ID] = *movie

	return nil
}

func (f fakeMovies) SearchTitles(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error) {
	defer f.lock(ctx)()

	titles := make([]string, 0)
	for _, m := range f.state.movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(titleContains)) &&
			m.ReleaseDate.After(releasedAfter) {
			titles = append(titles, m.Title)
		}
	}
	sort.Strings(titles)

	return titles, nil
}

type fakeShows struct{ *fakeStore }

func (f fakeShows) Create(ctx context.Context, show *domain.Show) error {
	defer f.lock(ctx)()

	if _, ok := f.state.movies[show.MovieID]; !ok {
		return domain.ErrRecordNotFound
	}

	f.state.counters["shows"]++
	show.ID = f.state.counters["shows"]
	f.state.shows[show.ID] = *show

	return nil
}

func (f fakeShows) AttachTheater(ctx context.Context, showID, theaterID int) error {
	defer f.lock(ctx)()

	if _, ok := f.state.theaters[theaterID]; !ok {
		return domain.ErrRecordNotFound
	}

	f.state.plays[showID] = append(f.state.plays[showID], theaterID)

	return nil
}

func (f fakeShows) DeleteOnDate(ctx context.Context, date time.Time) (int64, error) {
	defer f.lock(ctx)()

	var count int64

	for id, show := range f.state.shows {
		if !show.Date.Equal(date) {
			continue
		}

		for bid, b := range f.state.bookings {
			if b.ShowID == id {
				delete(f.state.payments, bid)
				delete(f.state.bookings, bid)
			}
		}
		for sid, seat := range f.state.seats {
			if seat.ShowID == id {
				delete(f.state.seats, sid)
			}
		}
		delete(f.state.plays, id)
		delete(f.state.shows, id)
		count++
	}

	return count, nil
}

func (f fakeShows) GetStartingAt(ctx context.Context, at time.Time) ([]domain.Show, error) {
	defer f.lock(ctx)()

	shows := make([]domain.Show, 0)
	for _, show := range f.state.shows {
		if show.StartsAt.Equal(at) {
			shows = append(shows, show)
		}
	}
	sort.Slice(shows, func(i, j int) bool { return shows[i].ID < shows[j].ID })

	return shows, nil
}

func (f fakeShows) ScheduleForMovieAtCinema(
	ctx context.Context,
	title string,
	cinemaID int,
	from, to time.Time) ([]domain.ShowSummary, error) {

	defer f.lock(ctx)()

	summaries := make([]domain.ShowSummary, 0)

	for id, show := range f.state.shows {
		movie := f.state.movies[show.MovieID]
		if movie.Title != title || show.Date.Before(from) || show.Date.After(to) {
			continue
		}

		for _, theaterID := range f.state.plays[id] {
			if f.state.theaters[theaterID].CinemaID == cinemaID {
				summaries = append(summaries, domain.ShowSummary{
					ID:              id,
					MovieTitle:      movie.Title,
					DurationSeconds: movie.DurationSeconds,
					Date:            show.Date,
					StartsAt:        show.StartsAt,
				})
				break
			}
		}
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StartsAt.Before(summaries[j].StartsAt) })

	return summaries, nil
}

type fakeTheaters struct{ *fakeStore }

func (f fakeTheaters) TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error) {
	defer f.lock(ctx)()

	names := make([]string, 0)
	for _, theaterID := range f.state.plays[showID] {
		if t := f.state.theaters[theaterID]; t.CinemaID == cinemaID {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)

	return names, nil
}

type fakeSeats struct{ *fakeStore }

func (f fakeSeats) TryOccupy(ctx context.Context, showID int, seatIDs []int, bookingID int) error {
	defer f.lock(ctx)()

	var conflicts []int

	for _, seatID := range seatIDs {
		seat, ok := f.state.seats[seatID]
		if !ok || seat.ShowID != showID {
			return domain.ErrRecordNotFound
		}

		if seat.BookingID == nil || *seat.BookingID == bookingID {
			continue
		}
		if f.state.bookings[*seat.BookingID].Status == domain.BookingCancelled {
			continue
		}

		conflicts = append(conflicts, seatID)
	}

	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		return &domain.SeatConflictError{ShowID: showID, SeatIDs: conflicts}
	}

	for _, seatID := range seatIDs {
		seat := f.state.seats[seatID]
		id := bookingID
		seat.BookingID = &id
		f.state.seats[seatID] = seat
	}

	return nil
}

func (f fakeSeats) Release(ctx context.Context, showID int, seatIDs []int) error {
	defer f.lock(ctx)()

	for _, seatID := range seatIDs {
		seat, ok := f.state.seats[seatID]
		if !ok || seat.ShowID != showID {
			continue
		}
		seat.BookingID = nil
		f.state.seats[seatID] = seat
	}

	return nil
}

func (f fakeSeats) ReleaseBookings(ctx context.Context, bookingIDs []int) error {
	defer f.lock(ctx)()

	ids := make(map[int]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		ids[id] = true
	}

	for seatID, seat := range f.state.seats {
		if seat.BookingID != nil && ids[*seat.BookingID] {
			seat.BookingID = nil
			f.state.seats[seatID] = seat
		}
	}

	return nil
}

func (f fakeSeats) SeatsOf(ctx context.Context, bookingID int) ([]domain.ShowSeat, error) {
	defer f.lock(ctx)()

	seats := make([]domain.ShowSeat, 0)
	for _, seat := range f.state.seats {
		if seat.BookingID != nil && *seat.BookingID == bookingID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })

	return seats, nil
}

type fakeBookings struct{ *fakeStore }

func (f fakeBookings) Create(ctx context.Context, booking *domain.Booking) error {
	defer f.lock(ctx)()

	f.state.counters["bookings"]++
	booking.ID = f.state.counters["bookings"]
	booking.CreatedAt = time.Now()
	f.state.bookings[booking.ID] = *booking

	return nil
}

func (f fakeBookings) GetByID(ctx context.Context, id int) (*domain.Booking, error) {
	defer f.lock(ctx)()

	booking, ok := f.state.bookings[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &booking, nil
}

func (f fakeBookings) GetByIDForUpdate(ctx context.Context, id int) (*domain.Booking, error) {
	// The store's transaction mutex already serializes whole transactions,
	// so the lock the real repository takes here has nothing extra to do.
	return f.GetByID(ctx, id)
}

func (f fakeBookings) UpdateStatus(ctx context.Context, id int, status domain.BookingStatus) error {
	defer f.lock(ctx)()

	booking, ok := f.state.bookings[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	booking.Status = status
	f.state.bookings[id] = booking

	return nil
}

func (f fakeBookings) CancelAllPending(ctx context.Context) ([]int, error) {
	defer f.lock(ctx)()

	ids := make([]int, 0)

	for id, booking := range f.state.bookings {
		if booking.Status == domain.BookingPending {
			booking.Status = domain.BookingCancelled
			f.state.bookings[id] = booking
			ids = append(ids, id)
		}
	}

	sort.Ints(ids)

	return ids, nil
}

func (f fakeBookings) DeleteCancelled(ctx context.Context) (int64, error) {
	defer f.lock(ctx)()

	var count int64

	for id, booking := range f.state.bookings {
		if booking.Status == domain.BookingCancelled {
			delete(f.state.payments, id)
			delete(f.state.bookings, id)
			count++
		}
	}

	return count, nil
}

func (f fakeBookings) BookingsOfUser(ctx context.Context, email string) ([]domain.BookingInfo, error) {
	defer f.lock(ctx)()

	infos := make([]domain.BookingInfo, 0)

	for id, booking := range f.state.bookings {
		if booking.Email != email {
			continue
		}

		movie := f.state.movies[f.state.shows[booking.ShowID].MovieID]

		for _, seat := range f.state.seats {
			if seat.BookingID != nil && *seat.BookingID == id {
				infos = append(infos, domain.BookingInfo{
					MovieTitle: movie.Title,
					SeatNumber: seat.SeatNumber,
				})
			}
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].SeatNumber < infos[j].SeatNumber })

	return infos, nil
}

type fakePayments struct{ *fakeStore }

func (f fakePayments) Create(ctx context.Context, payment *domain.Payment) error {
	defer f.lock(ctx)()

	if _, ok := f.state.payments[payment.BookingID]; ok {
		return domain.ErrEditConflict
	}

	f.state.counters["payments"]++
	payment.ID = f.state.counters["payments"]
	payment.PaidAt = time.Now()
	f.state.payments[payment.BookingID] = *payment

	return nil
}

func (f fakePayments) GetByBookingID(ctx context.Context, bookingID int) (*domain.Payment, error) {
	defer f.lock(ctx)()

	payment, ok := f.state.payments[bookingID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &payment, nil
}

func (f fakePayments) DeleteByBookingID(ctx context.Context, bookingID int) (int64, error) {
	defer f.lock(ctx)()

	if _, ok := f.state.payments[bookingID]; !ok {
		return 0, nil
	}

	delete(f.state.payments, bookingID)

	return 1, nil
}
