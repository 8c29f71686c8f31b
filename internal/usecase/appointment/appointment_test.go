package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
)

// ======================================================
// FAKES
// ======================================================

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyReceived(ctx context.Context, ap *models.Appointment, b *models.Barber) notification.Result {
	return m.Called(ctx, ap, b).Get(0).(notification.Result)
}

func (m *mockNotifier) NotifyConfirmed(ctx context.Context, ap *models.Appointment, b *models.Barber) notification.Result {
	return m.Called(ctx, ap, b).Get(0).(notification.Result)
}

func (m *mockNotifier) NotifyCancelled(ctx context.Context, ap *models.Appointment, b *models.Barber) notification.Result {
	return m.Called(ctx, ap, b).Get(0).(notification.Result)
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]string
	gens        map[string]int64
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]string{}, gens: map[string]int64{}}
}

func memoryKey(slot string, gen int64) string {
	return fmt.Sprintf("%s|%d", slot, gen)
}

func (c *memoryCache) Get(_ context.Context, barberID, date string) ([]string, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := barberID + "|" + date
	gen := c.gens[slot]
	v, ok := c.entries[memoryKey(slot, gen)]
	return v, gen, ok
}

func (c *memoryCache) Set(_ context.Context, barberID, date string, gen int64, times []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memoryKey(barberID+"|"+date, gen)] = times
}

func (c *memoryCache) Invalidate(_ context.Context, barberID, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := barberID + "|" + date
	c.gens[slot]++
	c.invalidated = append(c.invalidated, slot)
}

// ======================================================
// FIXTURE
// ======================================================

var t0 = time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	repo     *repository.AppointmentGormRepository
	barbers  *repository.BarberGormRepository
	notifier *mockNotifier
	cache    *memoryCache

	submit   *SubmitBooking
	confirm  *ConfirmAppointment
	cancel   *CancelAppointment
	complete *CompleteAppointment
	remove   *DeleteAppointment
	edit     *EditAppointment
	booked   *ListBookedTimes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)

	f := &fixture{
		db:       db,
		repo:     repository.NewAppointmentGormRepository(db, time.Second),
		barbers:  repository.NewBarberGormRepository(db, time.Second),
		notifier: new(mockNotifier),
		cache:    newMemoryCache(),
	}

	f.submit = NewSubmitBooking(f.repo, f.barbers, f.notifier, nil)
	f.confirm = NewConfirmAppointment(f.repo, f.barbers, f.notifier, f.cache, nil, "UTC")
	f.cancel = NewCancelAppointment(f.repo, f.barbers, f.notifier, f.cache, nil, "UTC", 5*time.Second)
	f.complete = NewCompleteAppointment(f.repo, f.cache, nil, "UTC")
	f.remove = NewDeleteAppointment(f.repo, f.cache, nil)
	f.edit = NewEditAppointment(f.repo, f.barbers, f.cache, nil)
	f.booked = NewListBookedTimes(f.repo, f.cache)

	clock := func() time.Time { return t0 }
	f.confirm.now = clock
	f.cancel.now = clock
	f.complete.now = clock

	f.addBarber(t, "B1", true)
	return f
}

func (f *fixture) addBarber(t *testing.T, id string, available bool) {
	t.Helper()
	b := &models.Barber{ID: id, Name: "Barber " + id, Specialty: "Fades"}
	require.NoError(t, f.barbers.Create(context.Background(), b))
	if !available {
		b.Available = false
		require.NoError(t, f.barbers.Update(context.Background(), b))
	}
}

func (f *fixture) expectOK(method string) {
	f.notifier.On(method, mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Result{}).Maybe()
}

func booking(barber, date, tm string) domain.BookingInput {
	return domain.BookingInput{
		CustomerName:  "Ann Smith",
		CustomerEmail: " Ann@Example.COM ",
		CustomerPhone: "555-0100",
		Date:          date,
		Time:          tm,
		Service:       "haircut",
		Barber:        barber,
	}
}

func (f *fixture) book(t *testing.T, barber, date, tm string) *models.Appointment {
	t.Helper()
	out, err := f.submit.Execute(context.Background(), booking(barber, date, tm))
	require.NoError(t, err)
	return out.Appointment
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var verrs *domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.Messages
}

// ======================================================
// SUBMIT
// ======================================================

func TestSubmitReportsEveryMissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.submit.Execute(context.Background(), domain.BookingInput{CustomerName: "  "})

	assert.Equal(t, []string{
		domain.MsgNameRequired,
		domain.MsgEmailRequired,
		domain.MsgPhoneRequired,
		domain.MsgDateRequired,
		domain.MsgTimeRequired,
		domain.MsgServiceRequired,
		domain.MsgBarberRequired,
	}, validationMessages(t, err))
	f.notifier.AssertNotCalled(t, "NotifyReceived", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRejectsOffGridTime(t *testing.T) {
	f := newFixture(t)

	for _, tm := range []string{"14:15", "9:00", "24:00", "14:00:00"} {
		_, err := f.submit.Execute(context.Background(), booking("B1", "2025-06-01", tm))
		assert.Equal(t, []string{domain.MsgInvalidTime}, validationMessages(t, err), tm)
	}

	var n int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitResolvesBarber(t *testing.T) {
	f := newFixture(t)
	f.addBarber(t, "B2", false)

	_, err := f.submit.Execute(context.Background(), booking("nobody", "2025-06-01", "14:00"))
	assert.Equal(t, []string{domain.MsgBarberNotFound}, validationMessages(t, err))

	_, err = f.submit.Execute(context.Background(), booking("B2", "2025-06-01", "14:00"))
	assert.Equal(t, []string{domain.MsgBarberUnavailable}, validationMessages(t, err))
}

func TestSubmitCreatesPendingAndKeepsInput(t *testing.T) {
	f := newFixture(t)
	f.notifier.On("NotifyReceived", mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Result{Kind: notification.KindReceived, Recipient: "ann@example.com"}).Once()

	out, err := f.submit.Execute(context.Background(), booking("B1", "2025-06-01", "14:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", out.Appointment.Status)
	assert.Equal(t, "ann@example.com", out.Appointment.CustomerEmail)
	assert.Equal(t, "Barber B1", out.Barber.Name)
	assert.True(t, out.Notification.OK())
	f.notifier.AssertExpectations(t)
}

func TestSubmitSurvivesEmailFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.On("NotifyReceived", mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Result{Kind: notification.KindReceived, Err: errors.New("smtp down")})

	out, err := f.submit.Execute(context.Background(), booking("B1", "2025-06-01", "14:00"))
	require.NoError(t, err)
	assert.False(t, out.Notification.OK())

	_, err = f.repo.Get(context.Background(), out.Appointment.ID)
	assert.NoError(t, err)
}

func TestOnlyConfirmedAppointmentsBlockSlot(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	first := f.book(t, "B1", "2025-06-01", "14:00")
	f.book(t, "B1", "2025-06-01", "14:00")

	_, err := f.confirm.Execute(context.Background(), "admin", first.ID)
	require.NoError(t, err)

	raw := booking("B1", "2025-06-01", "14:00")
	_, err = f.submit.Execute(context.Background(), raw)
	assert.Equal(t, []string{domain.MsgSlotAlreadyBooked}, validationMessages(t, err))

	var verrs *domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, raw, verrs.Input)
}

// ======================================================
// TRANSITIONS
// ======================================================

func TestConfirmUnknownSendsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.confirm.Execute(context.Background(), "admin", "missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
	f.notifier.AssertNotCalled(t, "NotifyConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmWithDeletedBarberSkipsEmail(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	ap := f.book(t, "B1", "2025-06-01", "14:00")
	require.NoError(t, f.barbers.Delete(context.Background(), "B1"))

	out, err := f.confirm.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", out.Appointment.Status)
	assert.ErrorIs(t, out.Notification.Err, notification.ErrBarberMissing)
	f.notifier.AssertNotCalled(t, "NotifyConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSecondConfirmationOfSlotFails(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	a := f.book(t, "B1", "2025-06-01", "14:00")
	b := f.book(t, "B1", "2025-06-01", "14:00")

	_, err := f.confirm.Execute(context.Background(), "admin", a.ID)
	require.NoError(t, err)

	_, err = f.confirm.Execute(context.Background(), "admin", b.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotAlreadyBooked))
}

func TestCompleteOnlyFromConfirmed(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	ap := f.book(t, "B1", "2025-06-01", "14:00")

	_, err := f.complete.Execute(context.Background(), "admin", ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))

	_, err = f.confirm.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)

	done, err := f.complete.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.CompletedAt)

	_, err = f.confirm.Execute(context.Background(), "admin", ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
	_, err = f.cancel.Execute(context.Background(), "admin", ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}

func TestCancelTwiceKeepsOneJob(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.notifier.On("NotifyCancelled", mock.Anything, mock.Anything, mock.Anything).
		Return(notification.Result{Kind: notification.KindCancelled}).Twice()

	ap := f.book(t, "B1", "2025-06-01", "14:00")

	_, err := f.cancel.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)
	_, err = f.cancel.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)

	var jobs []models.DeletionJob
	require.NoError(t, f.db.Where("appointment_id = ?", ap.ID).Find(&jobs).Error)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].RunAt.Equal(t0.Add(5*time.Second)))
	f.notifier.AssertExpectations(t)
}

func TestDeleteIsImmediateAndUnconditional(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	ap := f.book(t, "B1", "2025-06-01", "14:00")
	_, err := f.confirm.Execute(context.Background(), "admin", ap.ID)
	require.NoError(t, err)

	require.NoError(t, f.remove.Execute(context.Background(), "admin", ap.ID))
	_, err = f.repo.Get(context.Background(), ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	err = f.remove.Execute(context.Background(), "admin", ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
}

// ======================================================
// EDIT
// ======================================================

func TestEditChecksConflictsExceptItself(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	a := f.book(t, "B1", "2025-06-01", "14:00")
	b := f.book(t, "B1", "2025-06-01", "15:00")
	_, err := f.confirm.Execute(context.Background(), "admin", a.ID)
	require.NoError(t, err)
	_, err = f.confirm.Execute(context.Background(), "admin", b.ID)
	require.NoError(t, err)

	// Saving a without moving it is fine.
	in := booking("B1", "2025-06-01", "14:00")
	in.Notes = "window seat"
	got, err := f.edit.Execute(context.Background(), "admin", a.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "window seat", got.Notes)
	assert.Equal(t, "confirmed", got.Status)

	// Moving b onto a's slot is not.
	_, err = f.edit.Execute(context.Background(), "admin", b.ID, booking("B1", "2025-06-01", "14:00"))
	assert.Equal(t, []string{domain.MsgSlotAlreadyBooked}, validationMessages(t, err))

	_, err = f.edit.Execute(context.Background(), "admin", b.ID, booking("B1", "2025-06-01", "14:10"))
	assert.Equal(t, []string{domain.MsgInvalidTime}, validationMessages(t, err))

	_, err = f.edit.Execute(context.Background(), "admin", "missing", in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	assert.Contains(t, f.cache.invalidated, "B1|2025-06-01")
}

// ======================================================
// BOOKED TIMES
// ======================================================

func TestBookedTimesFilterAndCache(t *testing.T) {
	f := newFixture(t)
	f.addBarber(t, "B2", true)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")
	f.expectOK("NotifyCancelled")

	confirm := func(barber, date, tm string) *models.Appointment {
		ap := f.book(t, barber, date, tm)
		_, err := f.confirm.Execute(context.Background(), "admin", ap.ID)
		require.NoError(t, err)
		return ap
	}

	confirm("B1", "2025-06-01", "16:00")
	later := confirm("B1", "2025-06-01", "10:30")
	confirm("B1", "2025-06-02", "10:00")
	confirm("B2", "2025-06-01", "11:00")
	f.book(t, "B1", "2025-06-01", "12:00")

	times, err := f.booked.Execute(context.Background(), "B1", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "16:00"}, times)

	cached, _, ok := f.cache.Get(context.Background(), "B1", "2025-06-01")
	require.True(t, ok)
	assert.Equal(t, times, cached)

	_, err = f.cancel.Execute(context.Background(), "admin", later.ID)
	require.NoError(t, err)

	times, err = f.booked.Execute(context.Background(), "B1", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00"}, times)
}

// slowRepo lets a test run code between the database read and the cache
// write of ListBookedTimes.
type slowRepo struct {
	domain.Repository
	afterRead func()
}

func (r *slowRepo) ListConfirmedTimes(ctx context.Context, barberID, date string) ([]string, error) {
	times, err := r.Repository.ListConfirmedTimes(ctx, barberID, date)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return times, err
}

func TestBookedTimesReadRacingConfirmIsNotCached(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	ap := f.book(t, "B1", "2025-06-01", "14:00")

	repo := &slowRepo{Repository: f.repo}
	repo.afterRead = func() {
		_, err := f.confirm.Execute(context.Background(), "admin", ap.ID)
		require.NoError(t, err)
	}
	booked := NewListBookedTimes(repo, f.cache)

	// The first read saw the slot before the confirmation committed.
	times, err := booked.Execute(context.Background(), "B1", "2025-06-01")
	require.NoError(t, err)
	assert.Empty(t, times)

	times, err = booked.Execute(context.Background(), "B1", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, times)
}

// ======================================================
// LISTING
// ======================================================

func TestListAppointmentsAndStats(t *testing.T) {
	f := newFixture(t)
	f.expectOK("NotifyReceived")
	f.expectOK("NotifyConfirmed")

	a := f.book(t, "B1", "2025-06-01", "14:00")
	f.book(t, "B1", "2025-06-01", "15:00")
	_, err := f.confirm.Execute(context.Background(), "admin", a.ID)
	require.NoError(t, err)
	require.NoError(t, f.barbers.Delete(context.Background(), "B1"))

	list, err := NewListAppointments(f.repo, f.barbers).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, UnknownBarber, list[0].BarberName)
	assert.Equal(t, "Sunday, 1 June 2025", list[0].DateDisplay)

	reviews := repository.NewReviewGormRepository(f.db, time.Second)
	require.NoError(t, reviews.Create(context.Background(), &models.Review{CustomerName: "Ann", Rating: 4, Comment: "ok"}))

	stats, err := NewGetDashboardStats(f.repo, reviews).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.PendingReviews)
}
