package dashboard

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/appointments"
	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/internal/users"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
)

// Summary is the tenant dashboard for one month.
type Summary struct {
	Month              string                          `json:"month"`
	TotalClientes      int                             `json:"totalClientes"`
	TotalProfissionais int                             `json:"totalProfissionais"`
	TotalServicos      int                             `json:"totalServicos"`
	Agendamentos       map[enums.AppointmentStatus]int `json:"agendamentos"`
	PorProfissional    map[string]int                  `json:"porProfissional"`
	TopServicos        []ServiceCount                  `json:"topServicos"`
	Receita            decimal.Decimal                 `json:"receita"`
}

// ServiceCount ranks a service by how often it was booked in the month.
type ServiceCount struct {
	Nome  string `json:"nome"`
	Total int    `json:"total"`
}

// Service computes dashboard figures for one tenant or across every admin
// tenant. Revenue is an estimate: the catalog price of every booking in the
// month regardless of status, computed in exact decimals.
type Service struct {
	clients       *repo.Tenant[models.Client]
	professionals *repo.Tenant[models.Professional]
	offerings     *repo.Tenant[models.ServiceOffering]
	bookings      *repo.Tenant[models.Appointment]
	profiles      *users.Repository
	logg          *logger.Logger
}

func NewService(db *gorm.DB, logg *logger.Logger) *Service {
	return &Service{
		clients:       repo.NewTenant[models.Client](db),
		professionals: repo.NewTenant[models.Professional](db),
		offerings:     repo.NewTenant[models.ServiceOffering](db),
		bookings:      repo.NewTenant[models.Appointment](db),
		profiles:      users.NewRepository(db),
		logg:          logg,
	}
}

// Monthly builds the summary for one tenant for a month given as "2006-01".
func (s *Service) Monthly(ctx context.Context, tenantID uuid.UUID, month string) (*Summary, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	clientes, err := s.clients.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	profissionais, err := s.professionals.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	servicos, err := s.offerings.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	agendamentos, err := s.bookings.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(servicos))
	offeringNames := make(map[uuid.UUID]string, len(servicos))
	for _, offering := range servicos {
		prices[offering.ID] = offering.Preco
		offeringNames[offering.ID] = offering.Nome
	}
	professionalNames := make(map[uuid.UUID]string, len(profissionais))
	for _, p := range profissionais {
		professionalNames[p.ID] = p.Nome
	}

	counts := map[enums.AppointmentStatus]int{
		enums.AppointmentPendente:   0,
		enums.AppointmentConfirmado: 0,
		enums.AppointmentConcluido:  0,
		enums.AppointmentCancelado:  0,
	}
	byProfessional := map[string]int{}
	byOffering := map[string]int{}
	receita := decimal.Zero
	for _, booking := range agendamentos {
		if !strings.HasPrefix(booking.Data, month) {
			continue
		}
		counts[booking.Status]++
		byProfessional[nameOrUndefined(professionalNames, booking.ProfissionalID)]++
		byOffering[nameOrUndefined(offeringNames, booking.ServicoID)]++
		if price, ok := prices[booking.ServicoID]; ok {
			receita = receita.Add(price)
		}
	}

	return &Summary{
		Month:              month,
		TotalClientes:      len(clientes),
		TotalProfissionais: len(profissionais),
		TotalServicos:      len(servicos),
		Agendamentos:       counts,
		PorProfissional:    byProfessional,
		TopServicos:        rankOfferings(byOffering),
		Receita:            receita,
	}, nil
}

// MonthlyAll builds the summary over every admin tenant, fanning out one
// Monthly per tenant. A tenant whose figures fail to load is logged and
// skipped, so one broken partition cannot blank the whole dashboard.
func (s *Service) MonthlyAll(ctx context.Context, month string) (*Summary, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	roots, err := s.profiles.ListTenantRoots(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		partials []*Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, tenantID := range roots {
		tenantID := tenantID
		g.Go(func() error {
			summary, err := s.Monthly(gctx, tenantID, month)
			if err != nil {
				s.logg.Warn(s.logg.WithTenantID(gctx, tenantID.String()), "skipping tenant with unloadable dashboard")
				return nil
			}
			mu.Lock()
			partials = append(partials, summary)
			mu.Unlock()
			return nil
		})
	}
	// goroutines never return errors; Wait only propagates ctx cancellation
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "aggregating dashboards")
	}

	return mergeSummaries(month, partials), nil
}

func mergeSummaries(month string, partials []*Summary) *Summary {
	merged := &Summary{
		Month: month,
		Agendamentos: map[enums.AppointmentStatus]int{
			enums.AppointmentPendente:   0,
			enums.AppointmentConfirmado: 0,
			enums.AppointmentConcluido:  0,
			enums.AppointmentCancelado:  0,
		},
		PorProfissional: map[string]int{},
		TopServicos:     []ServiceCount{},
		Receita:         decimal.Zero,
	}
	byOffering := map[string]int{}
	for _, partial := range partials {
		merged.TotalClientes += partial.TotalClientes
		merged.TotalProfissionais += partial.TotalProfissionais
		merged.TotalServicos += partial.TotalServicos
		for status, n := range partial.Agendamentos {
			merged.Agendamentos[status] += n
		}
		for nome, n := range partial.PorProfissional {
			merged.PorProfissional[nome] += n
		}
		for _, sc := range partial.TopServicos {
			byOffering[sc.Nome] += sc.Total
		}
		merged.Receita = merged.Receita.Add(partial.Receita)
	}
	if len(byOffering) > 0 {
		merged.TopServicos = rankOfferings(byOffering)
	}
	return merged
}

func validateMonth(month string) error {
	if len(month) != 7 || month[4] != '-' {
		return errors.New(errors.CodeValidation, "month must be formatted as YYYY-MM")
	}
	return nil
}

func nameOrUndefined(index map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := index[id]; ok {
		return name
	}
	return appointments.UndefinedMarker
}

// rankOfferings orders services by booking count, most booked first; ties
// break alphabetically so the ranking is stable.
func rankOfferings(byOffering map[string]int) []ServiceCount {
	ranked := make([]ServiceCount, 0, len(byOffering))
	for nome, total := range byOffering {
		ranked = append(ranked, ServiceCount{Nome: nome, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Nome < ranked[j].Nome
	})
	return ranked
}
