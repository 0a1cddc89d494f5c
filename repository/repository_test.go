package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestProductRepository_FindByIDs(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "available"}).
		AddRow(1, "Notebook", "12.50", true).
		AddRow(2, "Card", "3.00", false)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id IN`)).
		WillReturnRows(rows)

	products, err := repo.FindByIDs(context.Background(), []uint{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Notebook", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.False(t, products[1].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByIDs_Empty(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	products, err := repo.FindByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	p, err := repo.FindByID(context.Background(), 42)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Nil(t, p)
}

func TestProductRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	p := &models.Product{SKU: "pp-001", Name: "Pressed petals", Price: decimal.RequireFromString("8.00"), Available: true}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint(7), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithLineItems(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_line_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item := models.OrderLineItem{ProductID: 3, Quantity: 2}
	item.Price(decimal.RequireFromString("10.00"))

	order := &models.Order{FullName: "Ann Reader", Email: "ann@example.com", StripePID: "pi_1", OriginalCart: `{"3":2}`}
	policy := cart.DeliveryPolicy{FreeThreshold: decimal.NewFromInt(50), Percentage: decimal.NewFromInt(10)}

	err := repo.CreateWithLineItems(context.Background(), order, []models.OrderLineItem{item}, policy)
	require.NoError(t, err)

	assert.Len(t, order.OrderNumber, 32)
	assert.Equal(t, "20.00", order.OrderTotal.StringFixed(2))
	assert.Equal(t, "2.00", order.DeliveryCost.StringFixed(2))
	assert.Equal(t, "22.00", order.GrandTotal.StringFixed(2))
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, order.ID, order.LineItems[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithLineItems_RollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_line_items"`)).
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.CreateWithLineItems(context.Background(), &models.Order{}, []models.OrderLineItem{{ProductID: 9, Quantity: 1}}, cart.DeliveryPolicy{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithLineItems_Duplicate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.CreateWithLineItems(context.Background(), &models.Order{StripePID: "pi_1"}, nil, cart.DeliveryPolicy{})
	assert.ErrorIs(t, err, repository.ErrDuplicateOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByStripePID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "order_number", "stripe_pid", "grand_total", "date"}).
		AddRow(id.String(), "ABC", "pi_9", "22.00", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE stripe_pid = $1`)).
		WillReturnRows(rows)

	order, err := repo.FindByStripePID(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, "ABC", order.OrderNumber)
}

func TestProfileRepository_GetOrCreate_Existing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProfileRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user_profiles" WHERE "user_profiles"."user_id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "default_country"}).AddRow(id.String(), "u-1", "IE"))

	profile, err := repo.GetOrCreate(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, "IE", profile.DefaultCountry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_IsWishlisted(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProfileRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "wishlist_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsWishlisted(context.Background(), uuid.New(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlogRepository_CountPendingComments_Anonymous(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBlogRepository(gormDB)

	n, err := repo.CountPendingComments(context.Background(), 1, "")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepository_ListPublished(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBlogRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE status = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE status = $1 ORDER BY created_on DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "status"}).AddRow(1, "Marbling", "marbling", "published"))

	posts, total, err := repo.ListPublished(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, models.PostPublished, posts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHomeRepository_ListActiveFAQs(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormHomeRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "faqs" WHERE active = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "active"}).AddRow(1, "Do you ship abroad?", "Yes.", true))

	faqs, err := repo.ListActiveFAQs(context.Background())
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Do you ship abroad?", faqs[0].Question)
}
