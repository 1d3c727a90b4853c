package service

import (
	"context"
	"fmt"

	"medtracker/internal/model"
	"medtracker/internal/repository"
	"medtracker/internal/validation"
)

// MedicineInput is the client-editable part of a medicine.
type MedicineInput struct {
	Name      string
	Dosage    string
	Frequency string
}

// MedicineService handles medicine operations on behalf of an owner. A
// medicine that exists but belongs to another user is reported exactly like a
// missing one.
type MedicineService interface {
	List(ctx context.Context, ownerID uint) ([]model.Medicine, error)
	Create(ctx context.Context, ownerID uint, in MedicineInput) (*model.Medicine, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Medicine, error)
	Update(ctx context.Context, ownerID, id uint, in MedicineInput) (*model.Medicine, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type medicineService struct {
	repo repository.MedicineRepository
}

// NewMedicineService creates a new medicine service.
func NewMedicineService(repo repository.MedicineRepository) MedicineService {
	return &medicineService{repo: repo}
}

func (s *medicineService) List(ctx context.Context, ownerID uint) ([]model.Medicine, error) {
	medicines, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

// Create validates every field before inserting; nothing is written when any
// field fails.
func (s *medicineService) Create(ctx context.Context, ownerID uint, in MedicineInput) (*model.Medicine, error) {
	fields, err := validation.Medicine(in.Name, in.Dosage, in.Frequency)
	if err != nil {
		return nil, err
	}

	medicine := &model.Medicine{
		Name:      fields.Name,
		Dosage:    fields.Dosage,
		Frequency: fields.Frequency,
		UserID:    ownerID,
	}
	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}
	return medicine, nil
}

func (s *medicineService) Get(ctx context.Context, ownerID, id uint) (*model.Medicine, error) {
	return s.repo.FindByIDForOwner(ctx, ownerID, id)
}

// Update looks the medicine up first so a foreign id yields not-found before
// any validation message.
func (s *medicineService) Update(ctx context.Context, ownerID, id uint, in MedicineInput) (*model.Medicine, error) {
	medicine, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields, err := validation.Medicine(in.Name, in.Dosage, in.Frequency)
	if err != nil {
		return nil, err
	}

	medicine.Name = fields.Name
	medicine.Dosage = fields.Dosage
	medicine.Frequency = fields.Frequency
	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, fmt.Errorf("update medicine: %w", err)
	}
	return medicine, nil
}

func (s *medicineService) Delete(ctx context.Context, ownerID, id uint) error {
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}
