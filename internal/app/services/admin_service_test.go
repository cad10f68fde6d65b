package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/csvexport"
	"github.com/yigit/coursestore/internal/pkg/payment"
)

type adminFixture struct {
	db      *fakeDB
	gateway *fakeGateway
	svc     *AdminService
	orders  []models.Order
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := newFakeDB()
	f := &adminFixture{db: db, gateway: &fakeGateway{}}
	f.svc = NewAdminService(&fakeTx{db: db}, fakeOrders{db}, fakeProfiles{db}, fakeOutbox{db}, f.gateway, zerolog.Nop())

	asha := db.addProfile("asha")
	ravi := db.addProfile("ravi")
	java := db.addCourse("Java Full Stack", 2999)
	ds := db.addCourse("Data Science", 1999)

	for _, o := range []models.Order{
		{UserID: asha.ID, CourseID: java.ID, AmountPaid: decimal.NewFromInt(2999), PaymentID: "PAY_1"},
		{UserID: asha.ID, CourseID: ds.ID, AmountPaid: decimal.NewFromInt(1999), PaymentID: "PAY_1"},
		{UserID: ravi.ID, CourseID: java.ID, AmountPaid: decimal.NewFromInt(2999), PaymentID: "PAY_2"},
	} {
		o.PaymentStatus = models.PaymentStatusCompleted
		require.NoError(t, fakeOrders{db}.Create(context.Background(), &o))
		f.orders = append(f.orders, o)
	}
	return f
}

func TestAdminStats_RefundedStillCountsInTotal(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.Refund(context.Background(), f.orders[2].ID)
	require.NoError(t, err)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7997", stats.TotalRevenue.String())
	assert.Equal(t, "4998", stats.NetRevenue.String())
	assert.Equal(t, int64(3), stats.TotalSales)
	assert.Equal(t, int64(2), stats.TotalStudents)
}

func TestRefund(t *testing.T) {
	f := newAdminFixture(t)

	order, err := f.svc.Refund(context.Background(), f.orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, order.PaymentStatus)
	assert.Equal(t, []string{"PAY_1"}, f.gateway.voided)

	require.Len(t, f.db.outbox, 1)
	assert.Equal(t, models.EventOrderRefunded, f.db.outbox[0].EventType)
	assert.Equal(t, order.ID.String(), f.db.outbox[0].AggregateID)

	_, err = f.svc.Refund(context.Background(), f.orders[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotRefundable)

	_, err = f.svc.Refund(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	assert.Len(t, f.db.outbox, 1)
}

func TestRefund_VoidFailureIsNotFatal(t *testing.T) {
	f := newAdminFixture(t)
	f.gateway.voidErr = payment.ErrUnknownPayment

	order, err := f.svc.Refund(context.Background(), f.orders[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, order.PaymentStatus)
}

func TestRefund_OutboxFailureKeepsOrderCompleted(t *testing.T) {
	f := newAdminFixture(t)
	f.db.failures["outbox.Insert"] = errInjected

	_, err := f.svc.Refund(context.Background(), f.orders[1].ID)
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, models.PaymentStatusCompleted, f.db.orders[1].PaymentStatus)
	assert.Empty(t, f.gateway.voided)
}

func TestAdminListings_NewestFirst(t *testing.T) {
	f := newAdminFixture(t)

	orders, err := f.svc.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, f.orders[2].ID, orders[0].ID)
	require.NotNil(t, orders[0].Profile)
	assert.Equal(t, "ravi", orders[0].Profile.FullName)

	students, err := f.svc.Students(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "ravi", students[0].FullName)
}

func TestExportOrders(t *testing.T) {
	f := newAdminFixture(t)
	f.db.courses[f.orders[0].CourseID] = func() models.Course {
		c := f.db.courses[f.orders[0].CourseID]
		c.Title = `Java, "Full" Stack`
		return c
	}()

	naive, err := f.svc.ExportOrders(context.Background(), csvexport.QuotingNaive)
	require.NoError(t, err)
	lines := strings.Split(string(naive), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(orderExportHeader, ","), lines[0])
	assert.Contains(t, lines[1], `"Java, "Full" Stack"`)

	strict, err := f.svc.ExportOrders(context.Background(), csvexport.QuotingRFC4180)
	require.NoError(t, err)
	assert.Contains(t, string(strict), `"Java, ""Full"" Stack"`)
}

func TestExportStudents_EmptyIsEmpty(t *testing.T) {
	db := newFakeDB()
	svc := NewAdminService(&fakeTx{db: db}, fakeOrders{db}, fakeProfiles{db}, fakeOutbox{db}, &fakeGateway{}, zerolog.Nop())

	out, err := svc.ExportStudents(context.Background(), csvexport.QuotingNaive)
	require.NoError(t, err)
	assert.Empty(t, out)

	db.addProfile("asha")
	out, err = svc.ExportStudents(context.Background(), csvexport.QuotingNaive)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "id,email,full_name,mobile,college_name,year,created_at,updated_at\n"))
	assert.Contains(t, string(out), `"asha@example.com","asha"`)
}
