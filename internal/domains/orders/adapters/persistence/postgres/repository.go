package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders through GORM. The queries stay portable so the
// same adapter runs against SQLite in tests.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and
// must open the DB with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderRecord maps the order aggregate to the orders table.
type OrderRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:36"`
	OrderID         string    `gorm:"column:order_id;size:64;not null;uniqueIndex:ux_orders_order_id"`
	TransactionID   string    `gorm:"column:transaction_id;size:64;not null"`
	Name            string    `gorm:"column:name;not null"`
	Address         string    `gorm:"column:address;not null"`
	MobileNumber    string    `gorm:"column:mobile_number;size:10;not null"`
	AlternateNumber string    `gorm:"column:alternate_number;size:10"`
	Coupon          string    `gorm:"column:coupon;size:32"`
	Price           int       `gorm:"column:price;not null"`
	PaymentMethod   string    `gorm:"column:payment_method;size:16;not null"`
	Status          string    `gorm:"column:status;size:16;not null;index:idx_orders_status_created,priority:1"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;index:idx_orders_status_created,priority:2"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (OrderRecord) TableName() string { return "orders" }

// Create inserts a new order and relies on the unique index for orderId.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateOrder
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by record identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	return r.first(ctx, "id = ?", id)
}

// GetByOrderID fetches an order by gateway or cash order reference.
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *Repository) first(ctx context.Context, cond string, arg any) (*domain.Order, error) {
	var record OrderRecord
	if err := r.db.WithContext(ctx).First(&record, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateStatus performs a compare-and-set on the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	result := r.db.WithContext(ctx).
		Model(&OrderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.first(ctx, "id = ?", id); err != nil {
			return nil, err
		}
		return nil, ports.ErrStatusConflict
	}
	return r.first(ctx, "id = ?", id)
}

// Delete removes an order and returns the row as it was before deletion.
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrInvalidID
	}
	var deleted OrderRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			First(&deleted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		result := tx.Delete(&OrderRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted.toDomain(), nil
}

// DeleteByStatus removes every order in status and reports how many went.
func (r *Repository) DeleteByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("status = ?", string(status)).Delete(&OrderRecord{})
	return result.RowsAffected, result.Error
}

// Find filters by status, search term and creation window, newest first.
func (r *Repository) Find(ctx context.Context, query ports.Query) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&OrderRecord{})
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}
	if query.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", query.CreatedFrom.UTC())
	}
	if query.CreatedTo != nil {
		tx = tx.Where("created_at < ?", query.CreatedTo.UTC())
	}
	if term := strings.TrimSpace(query.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		tx = tx.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(mobile_number) LIKE ? ESCAPE '\' OR LOWER(order_id) LIKE ? ESCAPE '\' OR LOWER(transaction_id) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}
	tx = tx.Order("created_at DESC").Order("order_id DESC")
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	var records []OrderRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) OrderRecord {
	return OrderRecord{
		ID:              order.ID,
		OrderID:         order.OrderID,
		TransactionID:   order.TransactionID,
		Name:            order.Customer.Name,
		Address:         order.Customer.Address,
		MobileNumber:    order.Customer.Mobile,
		AlternateNumber: order.Customer.AlternateMobile,
		Coupon:          order.Coupon,
		Price:           order.Price,
		PaymentMethod:   string(order.PaymentMethod),
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt.UTC(),
	}
}

func (r OrderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:            r.ID,
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		Customer: domain.Customer{
			Name:            r.Name,
			Address:         r.Address,
			Mobile:          r.MobileNumber,
			AlternateMobile: r.AlternateNumber,
		},
		Coupon:        r.Coupon,
		Price:         r.Price,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Status:        domain.Status(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
	}
}
