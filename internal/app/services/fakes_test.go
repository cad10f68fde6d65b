package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/cache"
	"github.com/yigit/coursestore/internal/pkg/email"
)

var errInjected = errors.New("injected failure")

// fakeState is the whole in-memory database. It is copied wholesale to
// emulate transaction rollback.
type fakeState struct {
	users    map[uuid.UUID]models.User
	profiles map[uuid.UUID]models.Profile
	tokens   map[string]models.RefreshToken
	courses  map[uuid.UUID]models.Course
	cart     []models.CartItem
	orders   []models.Order
	attempts []models.CheckoutAttempt
	outbox   []models.OutboxEvent
}

func (s fakeState) clone() fakeState {
	c := fakeState{
		users:    make(map[uuid.UUID]models.User, len(s.users)),
		profiles: make(map[uuid.UUID]models.Profile, len(s.profiles)),
		tokens:   make(map[string]models.RefreshToken, len(s.tokens)),
		courses:  make(map[uuid.UUID]models.Course, len(s.courses)),
		cart:     append([]models.CartItem(nil), s.cart...),
		orders:   append([]models.Order(nil), s.orders...),
		attempts: append([]models.CheckoutAttempt(nil), s.attempts...),
		outbox:   append([]models.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.tokens {
		c.tokens[k] = v
	}
	for k, v := range s.courses {
		c.courses[k] = v
	}
	return c
}

type fakeDB struct {
	fakeState
	clock time.Time
	// failures maps "store.Method" to the error that call returns
	failures map[string]error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		fakeState: fakeState{}.clone(),
		clock:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		failures:  map[string]error{},
	}
}

func (d *fakeDB) tick() time.Time {
	d.clock = d.clock.Add(time.Second)
	return d.clock
}

func (d *fakeDB) fail(op string) error {
	return d.failures[op]
}

func (d *fakeDB) addCourse(title string, price int64) models.Course {
	c := models.Course{
		ID:              uuid.New(),
		Title:           title,
		Mode:            "Online",
		OriginalPrice:   decimal.NewFromInt(price * 2),
		DiscountedPrice: decimal.NewFromInt(price),
		CreatedAt:       d.tick(),
	}
	d.courses[c.ID] = c
	return c
}

func (d *fakeDB) addProfile(name string) models.Profile {
	p := models.Profile{ID: uuid.New(), Email: fmt.Sprintf("%s@example.com", name), FullName: name, CreatedAt: d.tick()}
	p.UpdatedAt = p.CreatedAt
	d.profiles[p.ID] = p
	return p
}

func (d *fakeDB) course(id uuid.UUID) *models.Course {
	c, ok := d.courses[id]
	if !ok {
		return nil
	}
	return &c
}

type fakeTx struct {
	db    *fakeDB
	calls int
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	snapshot := t.db.fakeState.clone()
	if err := fn(ctx); err != nil {
		t.db.fakeState = snapshot
		return err
	}
	return nil
}

type fakeUsers struct{ db *fakeDB }

func (f fakeUsers) Create(_ context.Context, u *models.User) error {
	if err := f.db.fail("users.Create"); err != nil {
		return err
	}
	for _, existing := range f.db.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = f.db.tick()
	u.UpdatedAt = u.CreatedAt
	f.db.users[u.ID] = *u
	return nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

type fakeProfiles struct{ db *fakeDB }

func (f fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	if err := f.db.fail("profiles.Create"); err != nil {
		return err
	}
	p.CreatedAt = f.db.tick()
	p.UpdatedAt = p.CreatedAt
	f.db.profiles[p.ID] = *p
	return nil
}

func (f fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return &p, nil
}

func (f fakeProfiles) Update(_ context.Context, p *models.Profile) error {
	existing, ok := f.db.profiles[p.ID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Email = existing.Email
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = f.db.tick()
	f.db.profiles[p.ID] = *p
	return nil
}

func (f fakeProfiles) List(context.Context) ([]models.Profile, error) {
	if err := f.db.fail("profiles.List"); err != nil {
		return nil, err
	}
	out := make([]models.Profile, 0, len(f.db.profiles))
	for _, p := range f.db.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeProfiles) Count(context.Context) (int64, error) {
	return int64(len(f.db.profiles)), nil
}

type fakeTokens struct{ db *fakeDB }

func (f fakeTokens) Create(_ context.Context, t *models.RefreshToken) error {
	t.ID = uuid.New()
	t.CreatedAt = f.db.tick()
	f.db.tokens[t.Token] = *t
	return nil
}

func (f fakeTokens) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.db.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return &t, nil
}

func (f fakeTokens) Revoke(_ context.Context, token string) error {
	t, ok := f.db.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	f.db.tokens[token] = t
	return nil
}

func (f fakeTokens) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for k, t := range f.db.tokens {
		if t.Revoked || t.ExpiresAt.Before(cutoff) {
			delete(f.db.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeCourses struct {
	db    *fakeDB
	lists int
}

func (f *fakeCourses) List(context.Context) ([]models.Course, error) {
	f.lists++
	if err := f.db.fail("courses.List"); err != nil {
		return nil, err
	}
	out := make([]models.Course, 0, len(f.db.courses))
	for _, c := range f.db.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCourses) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c := f.db.course(id)
	if c == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

type fakeCarts struct{ db *fakeDB }

func (f fakeCarts) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if err := f.db.fail("carts.ListByUser"); err != nil {
		return nil, err
	}
	items := []models.CartItem{}
	for _, item := range f.db.cart {
		if item.UserID == userID {
			item.Course = f.db.course(item.CourseID)
			items = append(items, item)
		}
	}
	return items, nil
}

func (f fakeCarts) LockByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if err := f.db.fail("carts.LockByUser"); err != nil {
		return nil, err
	}
	return f.ListByUser(ctx, userID)
}

func (f fakeCarts) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, item := range f.db.cart {
		if item.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f fakeCarts) Add(_ context.Context, item *models.CartItem) error {
	if _, ok := f.db.courses[item.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, existing := range f.db.cart {
		if existing.UserID == item.UserID && existing.CourseID == item.CourseID {
			return apperrors.ErrAlreadyInCart
		}
	}
	item.ID = uuid.New()
	item.CreatedAt = f.db.tick()
	stored := *item
	stored.Course = nil
	f.db.cart = append(f.db.cart, stored)
	return nil
}

func (f fakeCarts) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	for i, item := range f.db.cart {
		if item.ID == itemID && item.UserID == userID {
			f.db.cart = append(f.db.cart[:i:i], f.db.cart[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrCartItemNotFound
}

func (f fakeCarts) DeleteByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if err := f.db.fail("carts.DeleteByIDs"); err != nil {
		return 0, err
	}
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.db.cart[:0:0]
	var n int64
	for _, item := range f.db.cart {
		if item.UserID == userID && drop[item.ID] {
			n++
			continue
		}
		kept = append(kept, item)
	}
	f.db.cart = kept
	return n, nil
}

type fakeOrders struct{ db *fakeDB }

func (f fakeOrders) Create(_ context.Context, o *models.Order) error {
	if err := f.db.fail("orders.Create"); err != nil {
		return err
	}
	o.ID = uuid.New()
	o.PurchasedAt = f.db.tick()
	stored := *o
	stored.Course = nil
	f.db.orders = append(f.db.orders, stored)
	return nil
}

func (f fakeOrders) filter(keep func(models.Order) bool, newestFirst bool) []models.Order {
	out := []models.Order{}
	for _, o := range f.db.orders {
		if keep(o) {
			o.Course = f.db.course(o.CourseID)
			if p, ok := f.db.profiles[o.UserID]; ok {
				o.Profile = &p
			}
			out = append(out, o)
		}
	}
	if newestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	}
	return out
}

func (f fakeOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := f.filter(func(o models.Order) bool { return o.UserID == userID }, true)
	for i := range orders {
		orders[i].Profile = nil
	}
	return orders, nil
}

func (f fakeOrders) ListByCheckoutAttempt(_ context.Context, attemptID uuid.UUID) ([]models.Order, error) {
	return f.filter(func(o models.Order) bool {
		return o.CheckoutAttemptID != nil && *o.CheckoutAttemptID == attemptID
	}, false), nil
}

func (f fakeOrders) ListAll(context.Context) ([]models.Order, error) {
	if err := f.db.fail("orders.ListAll"); err != nil {
		return nil, err
	}
	return f.filter(func(models.Order) bool { return true }, true), nil
}

func (f fakeOrders) MarkRefunded(_ context.Context, id uuid.UUID) (*models.Order, error) {
	for i, o := range f.db.orders {
		if o.ID != id {
			continue
		}
		if !o.PaymentStatus.Refundable() {
			return nil, apperrors.ErrOrderNotRefundable
		}
		f.db.orders[i].PaymentStatus = models.PaymentStatusRefunded
		updated := f.db.orders[i]
		return &updated, nil
	}
	return nil, apperrors.ErrOrderNotFound
}

func (f fakeOrders) Stats(context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{TotalRevenue: decimal.Zero, NetRevenue: decimal.Zero}
	for _, o := range f.db.orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.AmountPaid)
		if o.PaymentStatus != models.PaymentStatusRefunded {
			stats.NetRevenue = stats.NetRevenue.Add(o.AmountPaid)
		}
		stats.TotalSales++
	}
	return stats, nil
}

type fakeAttempts struct{ db *fakeDB }

func (f fakeAttempts) Create(_ context.Context, a *models.CheckoutAttempt) error {
	for _, existing := range f.db.attempts {
		if existing.UserID == a.UserID && existing.IdempotencyKey == a.IdempotencyKey {
			return apperrors.ErrCheckoutInProgress
		}
	}
	a.ID = uuid.New()
	a.Status = models.CheckoutStatusPending
	a.CreatedAt = f.db.tick()
	a.UpdatedAt = a.CreatedAt
	f.db.attempts = append(f.db.attempts, *a)
	return nil
}

func (f fakeAttempts) GetByKey(_ context.Context, userID uuid.UUID, key string) (*models.CheckoutAttempt, error) {
	for _, a := range f.db.attempts {
		if a.UserID == userID && a.IdempotencyKey == key {
			return &a, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeAttempts) update(id uuid.UUID, from models.CheckoutStatus, apply func(*models.CheckoutAttempt)) error {
	for i := range f.db.attempts {
		a := &f.db.attempts[i]
		if a.ID == id && a.Status == from {
			apply(a)
			a.UpdatedAt = f.db.tick()
			return nil
		}
	}
	return apperrors.ErrCheckoutInProgress
}

func (f fakeAttempts) Complete(_ context.Context, id uuid.UUID, paymentID string, total decimal.Decimal) error {
	if err := f.db.fail("attempts.Complete"); err != nil {
		return err
	}
	return f.update(id, models.CheckoutStatusPending, func(a *models.CheckoutAttempt) {
		a.Status = models.CheckoutStatusCompleted
		a.PaymentID = &paymentID
		a.TotalAmount = decimal.NewNullDecimal(total)
	})
}

func (f fakeAttempts) Restart(_ context.Context, id uuid.UUID) error {
	return f.update(id, models.CheckoutStatusAbandoned, func(a *models.CheckoutAttempt) {
		a.Status = models.CheckoutStatusPending
		a.PaymentID = nil
		a.TotalAmount = decimal.NullDecimal{}
	})
}

func (f fakeAttempts) AbandonStale(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for i := range f.db.attempts {
		a := &f.db.attempts[i]
		if a.Status == models.CheckoutStatusPending && a.CreatedAt.Before(cutoff) {
			a.Status = models.CheckoutStatusAbandoned
			n++
		}
	}
	return n, nil
}

type fakeOutbox struct{ db *fakeDB }

func (f fakeOutbox) Insert(_ context.Context, e *models.OutboxEvent) error {
	if err := f.db.fail("outbox.Insert"); err != nil {
		return err
	}
	if len(e.AggregateID) > models.MaxAggregateIDLength {
		return fmt.Errorf("aggregate_id %q: value too long", e.AggregateID)
	}
	e.CreatedAt = f.db.tick()
	f.db.outbox = append(f.db.outbox, *e)
	return nil
}

type fakeRoles struct {
	admins map[uuid.UUID]bool
	err    error
}

func (f *fakeRoles) HasRole(_ context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return role == models.RoleAdmin && f.admins[userID], nil
}

func (f *fakeRoles) Assign(_ context.Context, userID uuid.UUID, role models.Role) error {
	if role == models.RoleAdmin {
		f.admins[userID] = true
	}
	return nil
}

type fakeGateway struct {
	charges   []decimal.Decimal
	voided    []string
	chargeErr error
	voidErr   error
}

func (g *fakeGateway) Charge(_ context.Context, amount decimal.Decimal, _ string) (string, error) {
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charges = append(g.charges, amount)
	return fmt.Sprintf("PAY_test_%d", len(g.charges)), nil
}

func (g *fakeGateway) Void(_ context.Context, paymentID string) error {
	if g.voidErr != nil {
		return g.voidErr
	}
	g.voided = append(g.voided, paymentID)
	return nil
}

type sentReceipt struct {
	to, name string
	receipt  email.Receipt
}

type fakeMailer struct {
	welcomed []string
	receipts []sentReceipt
}

func (m *fakeMailer) SendWelcomeEmail(toEmail, _ string) error {
	m.welcomed = append(m.welcomed, toEmail)
	return nil
}

func (m *fakeMailer) SendEnrollmentConfirmation(toEmail, toName string, receipt email.Receipt) error {
	m.receipts = append(m.receipts, sentReceipt{toEmail, toName, receipt})
	return nil
}

type fakeCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}
