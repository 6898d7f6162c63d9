package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"pharmacy_delivery_service/internal/directory/domain"
)

// ErrVendorNotFound no vendor matched the query
var ErrVendorNotFound = errors.New("no vendor found with given criteria")

// VendorRepository definition vendor directory lookups
type VendorRepository interface {
	FindVendor(ctx context.Context, query *domain.VendorQuery) (*domain.Vendor, error)
	UpsertVendor(ctx context.Context, vendor *domain.Vendor) error
	// LinkOperator stores the auth uid operating the vendor dashboard
	LinkOperator(ctx context.Context, vendorID, operatorUID string) error
}

type vendorRepository struct {
	db *pgxpool.Pool
}

// NewVendorRepository create a VendorRepository
func NewVendorRepository(db *pgxpool.Pool) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) FindVendor(ctx context.Context, query *domain.VendorQuery) (*domain.Vendor, error) {
	queryStr := `SELECT id, name, phone, address, lat, lng, COALESCE(operator_uid, '')
		FROM vendor WHERE 1=1`
	params := []interface{}{}
	paramCount := 1

	if query.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *query.ID)
		paramCount++
	}
	if query.Name != nil {
		queryStr += fmt.Sprintf(" AND name = $%d", paramCount)
		params = append(params, *query.Name)
		paramCount++
	}
	if query.OperatorUID != nil {
		queryStr += fmt.Sprintf(" AND operator_uid = $%d", paramCount)
		params = append(params, *query.OperatorUID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var vendor domain.Vendor
	err := row.Scan(&vendor.ID, &vendor.Name, &vendor.Phone, &vendor.Address,
		&vendor.Lat, &vendor.Lng, &vendor.OperatorUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	return &vendor, nil
}

func (r *vendorRepository) UpsertVendor(ctx context.Context, vendor *domain.Vendor) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO vendor(id, name, phone, address, lat, lng)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, phone = EXCLUDED.phone, address = EXCLUDED.address,
		     lat = EXCLUDED.lat, lng = EXCLUDED.lng`,
		vendor.ID, vendor.Name, vendor.Phone, vendor.Address, vendor.Lat, vendor.Lng)
	return err
}

func (r *vendorRepository) LinkOperator(ctx context.Context, vendorID, operatorUID string) error {
	_, err := r.db.Exec(ctx, "UPDATE vendor SET operator_uid = $1 WHERE id = $2", operatorUID, vendorID)
	return err
}
