package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

const uniqueViolation = "23505"

// dbPool is the subset of pgxpool.Pool the storage uses. Tests substitute a
// pgxmock pool.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type saleInfoRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) SaleInfos() repository.SaleInfoRepository {
	return &saleInfoRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            phone_number TEXT NOT NULL DEFAULT '',
            device_id TEXT NOT NULL DEFAULT '',
            accept_push BOOLEAN NOT NULL DEFAULT FALSE,
            push_accepted_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            id UUID PRIMARY KEY,
            name TEXT UNIQUE NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC NOT NULL,
            category_id UUID REFERENCES categories(id),
            ingredients TEXT[] NOT NULL DEFAULT '{}',
            image TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS bucket_items (
            user_id UUID NOT NULL REFERENCES users(id),
            product_id UUID NOT NULL REFERENCES products(id),
            quantity INT NOT NULL,
            position SERIAL,
            PRIMARY KEY (user_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            orderer UUID NOT NULL REFERENCES users(id),
            date_ordered TIMESTAMPTZ NOT NULL,
            date_to_receive TIMESTAMPTZ NOT NULL,
            date_received TIMESTAMPTZ,
            phone_number TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL,
            additional TEXT NOT NULL DEFAULT '',
            price_total NUMERIC NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id UUID NOT NULL,
            name TEXT NOT NULL,
            unit_price NUMERIC NOT NULL,
            quantity INT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS sale_infos (
            id UUID PRIMARY KEY,
            date_sale TIMESTAMPTZ NOT NULL,
            day_key DATE UNIQUE NOT NULL,
            prods_today UUID[] NOT NULL DEFAULT '{}',
            ts_started BOOLEAN NOT NULL DEFAULT FALSE,
            ts_ratio NUMERIC NOT NULL DEFAULT 0,
            ts_date_started TIMESTAMPTZ,
            ts_expires_at TIMESTAMPTZ,
            ts_prods UUID[] NOT NULL DEFAULT '{}'
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_orderer ON orders(orderer, date_ordered DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_infos_expiry ON sale_infos(ts_expires_at) WHERE ts_started`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (id, email, password_hash, phone_number, device_id, accept_push, push_accepted_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.PhoneNumber,
		user.DeviceID, user.AcceptPush, user.PushAccepted,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `SELECT id, email, password_hash, phone_number, device_id, accept_push, push_accepted_at, created_at
                   FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&u.DeviceID, &u.AcceptPush, &u.PushAccepted, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Bucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error) {
	const query = `SELECT b.product_id, b.quantity, p.name, p.price, p.category_id, p.ingredients, p.image, p.created_at
                   FROM bucket_items b
                   JOIN products p ON p.id = b.product_id
                   WHERE b.user_id=$1
                   ORDER BY b.position`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.BucketItem
	for rows.Next() {
		var (
			item model.BucketItem
			p    model.Product
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &p.Name, &p.Price, &p.CategoryID, &p.Ingredients, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = item.ProductID
		item.Product = &p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *userRepository) AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	const query = `INSERT INTO bucket_items (user_id, product_id, quantity)
                   VALUES ($1, $2, $3)
                   ON CONFLICT (user_id, product_id)
                   DO UPDATE SET quantity = bucket_items.quantity + EXCLUDED.quantity`
	_, err := r.storage.pool.Exec(ctx, query, userID, productID, quantity)
	return err
}

func (r *userRepository) RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error {
	const query = `DELETE FROM bucket_items WHERE user_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) ClearBucket(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM bucket_items WHERE user_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, userID)
	return err
}

func (r *userRepository) ListPushTokens(ctx context.Context) ([]string, error) {
	const query = `SELECT device_id FROM users WHERE accept_push AND device_id <> ''`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	const query = `INSERT INTO categories (id, name) VALUES ($1, $2)`
	if _, err := r.storage.pool.Exec(ctx, query, category.ID, category.Name); err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (id, name, price, category_id, ingredients, image)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Price, product.CategoryID,
		product.Ingredients, product.Image,
	).Scan(&product.CreatedAt)
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	const query = `SELECT id, name, price, category_id, ingredients, image, created_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.Ingredients, &p.Image, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, price, category_id, ingredients, image, created_at
                   FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.Ingredients, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, orderer, date_ordered, date_to_receive, phone_number, state, additional, price_total)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.Exec(ctx, insertOrder,
			order.ID, order.OrdererID, order.DateOrdered, order.DateToReceive,
			order.PhoneNumber, order.State, order.Additional, order.PriceTotal,
		); err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
                            VALUES ($1, $2, $3, $4, $5)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem,
				order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const query = `SELECT id, orderer, date_ordered, date_to_receive, date_received, phone_number, state, additional, price_total
                   FROM orders WHERE id=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrdererID, &o.DateOrdered, &o.DateToReceive, &o.DateReceived,
		&o.PhoneNumber, &o.State, &o.Additional, &o.PriceTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	const query = `SELECT id, orderer, date_ordered, date_to_receive, date_received, phone_number, state, additional, price_total
                   FROM orders WHERE orderer=$1 ORDER BY date_ordered DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []model.Order
		ids    []uuid.UUID
	)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.OrdererID, &o.DateOrdered, &o.DateToReceive, &o.DateReceived, &o.PhoneNumber, &o.State, &o.Additional, &o.PriceTotal); err != nil {
			return nil, err
		}
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return result, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	const query = `SELECT order_id, product_id, name, unit_price, quantity
                   FROM order_items WHERE order_id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem)
	for rows.Next() {
		var (
			orderID uuid.UUID
			item    model.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) UpdateState(ctx context.Context, id uuid.UUID, state model.OrderState, dateReceived *time.Time) error {
	const query = `UPDATE orders SET state=$1, date_received=COALESCE($2, date_received) WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, state, dateReceived, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM orders WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- SaleInfoRepository implementation ---

func (r *saleInfoRepository) Create(ctx context.Context, si *model.SaleInfo) error {
	const query = `INSERT INTO sale_infos (id, date_sale, day_key, prods_today, ts_started, ts_ratio, ts_date_started, ts_expires_at, ts_prods)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.storage.pool.Exec(ctx, query,
		si.ID, si.DateSale, model.DayKey(si.DateSale), si.ProdsToday,
		si.TimeSale.Started, si.TimeSale.Ratio, si.TimeSale.DateStarted,
		si.TimeSale.ExpiresAt, si.TimeSale.Prods,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrConflict
		}
		return err
	}
	return nil
}

const saleInfoColumns = `id, date_sale, prods_today, ts_started, ts_ratio, ts_date_started, ts_expires_at, ts_prods`

func scanSaleInfo(row pgx.Row) (*model.SaleInfo, error) {
	var si model.SaleInfo
	err := row.Scan(
		&si.ID, &si.DateSale, &si.ProdsToday,
		&si.TimeSale.Started, &si.TimeSale.Ratio, &si.TimeSale.DateStarted,
		&si.TimeSale.ExpiresAt, &si.TimeSale.Prods,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &si, nil
}

func (r *saleInfoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SaleInfo, error) {
	query := `SELECT ` + saleInfoColumns + ` FROM sale_infos WHERE id=$1`
	return scanSaleInfo(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *saleInfoRepository) FindInRange(ctx context.Context, from, to time.Time) (*model.SaleInfo, error) {
	query := `SELECT ` + saleInfoColumns + ` FROM sale_infos WHERE date_sale >= $1 AND date_sale < $2`
	return scanSaleInfo(r.storage.pool.QueryRow(ctx, query, from, to))
}

func (r *saleInfoRepository) UpdateProds(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error {
	const query = `UPDATE sale_infos SET prods_today=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, prods, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *saleInfoRepository) SetTimeSale(ctx context.Context, id uuid.UUID, ts model.TimeSale) error {
	const query = `UPDATE sale_infos
                   SET ts_started=$1, ts_ratio=$2, ts_date_started=$3, ts_expires_at=$4, ts_prods=$5
                   WHERE id=$6`
	tag, err := r.storage.pool.Exec(ctx, query,
		ts.Started, ts.Ratio, ts.DateStarted, ts.ExpiresAt, ts.Prods, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *saleInfoRepository) CloseExpired(ctx context.Context, asOf time.Time) (int64, error) {
	const query = `UPDATE sale_infos SET ts_started=FALSE WHERE ts_started AND ts_expires_at <= $1`
	tag, err := r.storage.pool.Exec(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *saleInfoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM sale_infos WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
