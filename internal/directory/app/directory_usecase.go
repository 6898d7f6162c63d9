package app

import (
	"context"
	"errors"

	"pharmacy_delivery_service/internal/directory/domain"
	"pharmacy_delivery_service/internal/directory/repository"
)

// DirectoryUseCase vendor directory lookups for the messaging surface
type DirectoryUseCase interface {
	// GetVendorByID returns nil, nil on a directory miss. Callers degrade to
	// an unnamed counterpart, never an error.
	GetVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)
	FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error)
	FindVendorByOperator(ctx context.Context, operatorUID string) (*domain.Vendor, error)
	// LinkOperator binds the operator's auth uid to the vendor record so
	// later resolves skip the legacy name match
	LinkOperator(ctx context.Context, vendorID, operatorUID string) error
	SeedVendors(ctx context.Context, vendors []domain.Vendor) error
}

type directoryUseCase struct {
	vendorRepo repository.VendorRepository
}

// NewDirectoryUseCase create a DirectoryUseCase
func NewDirectoryUseCase(vendorRepo repository.VendorRepository) DirectoryUseCase {
	return &directoryUseCase{vendorRepo: vendorRepo}
}

func (d *directoryUseCase) GetVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	vendor, err := d.vendorRepo.FindVendor(ctx, &domain.VendorQuery{ID: &vendorID})
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vendor, nil
}

func (d *directoryUseCase) FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error) {
	vendor, err := d.vendorRepo.FindVendor(ctx, &domain.VendorQuery{Name: &name})
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vendor, nil
}

func (d *directoryUseCase) FindVendorByOperator(ctx context.Context, operatorUID string) (*domain.Vendor, error) {
	vendor, err := d.vendorRepo.FindVendor(ctx, &domain.VendorQuery{OperatorUID: &operatorUID})
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vendor, nil
}

func (d *directoryUseCase) LinkOperator(ctx context.Context, vendorID, operatorUID string) error {
	vendor, err := d.GetVendorByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return repository.ErrVendorNotFound
	}
	return d.vendorRepo.LinkOperator(ctx, vendorID, operatorUID)
}

// SeedVendors load the bundled pharmacy records at service start
func (d *directoryUseCase) SeedVendors(ctx context.Context, vendors []domain.Vendor) error {
	for i := range vendors {
		if err := d.vendorRepo.UpsertVendor(ctx, &vendors[i]); err != nil {
			return err
		}
	}
	return nil
}
