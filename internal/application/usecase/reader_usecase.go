package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/biblioteca-api/internal/application/dto"
	"github.com/jhoicas/biblioteca-api/internal/domain"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
	"github.com/jhoicas/biblioteca-api/internal/domain/repository"
)

// ReaderUseCase casos de uso CRUD para lectores y sus carnés.
type ReaderUseCase struct {
	readerRepo repository.ReaderRepository
	ticketRepo repository.ReaderTicketRepository
}

// NewReaderUseCase construye el caso de uso.
func NewReaderUseCase(readerRepo repository.ReaderRepository, ticketRepo repository.ReaderTicketRepository) *ReaderUseCase {
	return &ReaderUseCase{readerRepo: readerRepo, ticketRepo: ticketRepo}
}

// Create registra un lector.
func (uc *ReaderUseCase) Create(in dto.CreateReaderRequest) (*dto.ReaderResponse, error) {
	if in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	reader := &entity.Reader{
		ID:        uuid.New().String(),
		FullName:  in.FullName,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.readerRepo.Create(reader); err != nil {
		return nil, err
	}
	return toReaderResponse(reader), nil
}

// GetByID obtiene un lector por ID.
func (uc *ReaderUseCase) GetByID(id string) (*dto.ReaderResponse, error) {
	reader, err := uc.readerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, nil
	}
	return toReaderResponse(reader), nil
}

// List lista lectores con paginación.
func (uc *ReaderUseCase) List(limit, offset int) (*dto.ReaderListResponse, error) {
	list, err := uc.readerRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReaderResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReaderResponse(r))
	}
	return &dto.ReaderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un lector por ID.
func (uc *ReaderUseCase) Delete(id string) error {
	return uc.readerRepo.Delete(id)
}

// CreateTicket emite un carné para un lector existente.
func (uc *ReaderUseCase) CreateTicket(readerID string, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	if readerID == "" || in.RegistrationDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	reader, err := uc.readerRepo.GetByID(readerID)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, domain.ErrNotFound
	}
	ticket := &entity.ReaderTicket{
		ID:               uuid.New().String(),
		ReaderID:         readerID,
		RegistrationDate: in.RegistrationDate,
		EndTime:          in.EndTime,
		CreatedAt:        time.Now(),
	}
	if err := uc.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}
	return toTicketResponse(ticket), nil
}

// ListTickets lista los carnés de un lector.
func (uc *ReaderUseCase) ListTickets(readerID string) ([]dto.TicketResponse, error) {
	list, err := uc.ticketRepo.ListByReader(readerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TicketResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTicketResponse(t))
	}
	return items, nil
}

func toReaderResponse(r *entity.Reader) *dto.ReaderResponse {
	if r == nil {
		return nil
	}
	return &dto.ReaderResponse{
		ID:        r.ID,
		FullName:  r.FullName,
		Phone:     r.Phone,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toTicketResponse(t *entity.ReaderTicket) *dto.TicketResponse {
	if t == nil {
		return nil
	}
	return &dto.TicketResponse{
		ID:               t.ID,
		ReaderID:         t.ReaderID,
		RegistrationDate: t.RegistrationDate,
		EndTime:          t.EndTime,
		Active:           t.Active(time.Now()),
		CreatedAt:        t.CreatedAt,
	}
}
