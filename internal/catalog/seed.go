package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// seedNamespace derives stable ids for the default catalog, so processes
// seeding the same empty database at once write the same five records.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("barbearia-backend/catalog"))

func seedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

type seedService struct {
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
}

var defaultCatalog = []seedService{
	{Name: "Corte de Cabelo", Description: "Corte moderno e personalizado com acabamento profissional", Price: 30, DurationMinutes: 45},
	{Name: "Barba Completa", Description: "Aparar e modelar a barba com técnicas tradicionais", Price: 25, DurationMinutes: 30},
	{Name: "Corte + Barba", Description: "Pacote completo com corte de cabelo e barba", Price: 50, DurationMinutes: 60},
	{Name: "Sobrancelha", Description: "Modelagem e acabamento das sobrancelhas", Price: 15, DurationMinutes: 15},
	{Name: "Hidratação Capilar", Description: "Tratamento hidratante para cabelo e couro cabeludo", Price: 40, DurationMinutes: 50},
}

// SeedIfEmpty inserts the default catalog when no service exists yet and
// returns how many services were inserted. Seeded ids are derived from the
// service names.
func (m *Manager) SeedIfEmpty(ctx context.Context) (int, error) {
	count, err := m.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	items := make([]Service, 0, len(defaultCatalog))
	for _, svc := range defaultCatalog {
		items = append(items, Service{
			ID:              seedID(svc.Name),
			Name:            svc.Name,
			Description:     svc.Description,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	added, err := m.repo.InsertMissing(ctx, items...)
	if err != nil {
		return added, fmt.Errorf("seed services: %w", err)
	}
	return added, nil
}
