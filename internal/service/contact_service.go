package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"contactdesk/internal/domain"
	"contactdesk/internal/repository"
)

var (
	ErrNameRequired = errors.New("name required")
	ErrNoFields     = errors.New("no fields")
	ErrNotFound     = errors.New("contact not found")
)

const defaultPageLimit = 200

// ContactService coordina reglas de negocio para contactos. Todas las
// operaciones exigen el id del usuario resuelto por la sesión.
type ContactService struct {
	logger    *zap.Logger
	contacts  repository.ContactRepository
	pageLimit int
}

func NewContactService(logger *zap.Logger, contacts repository.ContactRepository, pageLimit int) *ContactService {
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	return &ContactService{
		logger:    logger,
		contacts:  contacts,
		pageLimit: pageLimit,
	}
}

// ContactInput son los campos aceptados al crear un contacto.
type ContactInput struct {
	Name       string
	Phone      string
	Email      string
	Address    string
	ValueCents int64
	Lat        *float64
	Lng        *float64
	Tag        string
	JobType    string
	Custom1    string
	Custom2    string
	Custom3    string
	Custom4    string
	Custom5    string
}

// ContactPatch es una actualización parcial: solo los campos no nulos
// sobrescriben el valor guardado.
type ContactPatch struct {
	Name       *string
	Phone      *string
	Email      *string
	Address    *string
	ValueCents *int64
	Lat        *float64
	Lng        *float64
	Tag        *string
	JobType    *string
	Custom1    *string
	Custom2    *string
	Custom3    *string
	Custom4    *string
	Custom5    *string
}

func (p ContactPatch) empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil &&
		p.Address == nil && p.ValueCents == nil && p.Lat == nil &&
		p.Lng == nil && p.Tag == nil && p.JobType == nil &&
		p.Custom1 == nil && p.Custom2 == nil && p.Custom3 == nil &&
		p.Custom4 == nil && p.Custom5 == nil
}

func (s *ContactService) Create(ctx context.Context, userID string, input ContactInput) (domain.Contact, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Contact{}, ErrNameRequired
	}

	contact := domain.Contact{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Phone:      input.Phone,
		Email:      input.Email,
		Address:    input.Address,
		ValueCents: input.ValueCents,
		Lat:        input.Lat,
		Lng:        input.Lng,
		Tag:        input.Tag,
		JobType:    input.JobType,
		Custom1:    input.Custom1,
		Custom2:    input.Custom2,
		Custom3:    input.Custom3,
		Custom4:    input.Custom4,
		Custom5:    input.Custom5,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, userID, id string) (domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, userID, query string) ([]domain.Contact, error) {
	return s.contacts.List(ctx, userID, strings.TrimSpace(query), s.pageLimit)
}

// Update aplica un merge parcial: los campos omitidos conservan su valor.
// Siempre refresca updated_at.
func (s *ContactService) Update(ctx context.Context, userID, id string, patch ContactPatch) (domain.Contact, error) {
	if patch.empty() {
		return domain.Contact{}, ErrNoFields
	}

	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Contact{}, ErrNameRequired
		}
		contact.Name = name
	}
	if patch.Phone != nil {
		contact.Phone = *patch.Phone
	}
	if patch.Email != nil {
		contact.Email = *patch.Email
	}
	if patch.Address != nil {
		contact.Address = *patch.Address
	}
	if patch.ValueCents != nil {
		contact.ValueCents = *patch.ValueCents
	}
	if patch.Lat != nil {
		contact.Lat = patch.Lat
	}
	if patch.Lng != nil {
		contact.Lng = patch.Lng
	}
	if patch.Tag != nil {
		contact.Tag = *patch.Tag
	}
	if patch.JobType != nil {
		contact.JobType = *patch.JobType
	}
	if patch.Custom1 != nil {
		contact.Custom1 = *patch.Custom1
	}
	if patch.Custom2 != nil {
		contact.Custom2 = *patch.Custom2
	}
	if patch.Custom3 != nil {
		contact.Custom3 = *patch.Custom3
	}
	if patch.Custom4 != nil {
		contact.Custom4 = *patch.Custom4
	}
	if patch.Custom5 != nil {
		contact.Custom5 = *patch.Custom5
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.contacts.Update(ctx, contact); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	err := s.contacts.Delete(ctx, userID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
