package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"reware/internal/domain"
	"reware/internal/repos"
)

// SaleService handles trade-in ("sell to us") submissions.
type SaleService struct {
	Sales *repos.SaleRepo
}

func NewSaleService(sales *repos.SaleRepo) *SaleService { return &SaleService{Sales: sales} }

func (s *SaleService) Submit(email, device, specs string, price float64) (domain.Sale, error) {
	sale := domain.Sale{
		ID:        "SELL-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Email:     strings.TrimSpace(email),
		Device:    strings.TrimSpace(device),
		Specs:     strings.TrimSpace(specs),
		Price:     price,
		Status:    domain.SaleStatusPending,
	}
	if err := s.Sales.Create(sale); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}
