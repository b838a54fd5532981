package tally

import (
	"context"
	"time"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services/metrics"
)

type CatalogReader interface {
	ListAll(ctx context.Context) ([]models.MealItem, error)
}

type Roster interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListSnapshots(ctx context.Context) ([]models.PreferenceSnapshot, error)
}

// State is one consistent read of catalog, students and snapshots, tallied.
type State struct {
	Catalog   []models.MealItem
	Students  []models.Student
	Snapshots map[string]models.PreferenceSnapshot
	Results   map[string]Result
}

// Service re-reads every input on each Run; nothing is cached between calls.
type Service struct {
	catalog CatalogReader
	roster  Roster
	metrics *metrics.Metrics
}

func NewService(catalog CatalogReader, roster Roster, m *metrics.Metrics) *Service {
	return &Service{catalog: catalog, roster: roster, metrics: m}
}

func (s *Service) Run(ctx context.Context) (state *State, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordTally(time.Since(start), err) }()

	items, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.roster.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.roster.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	byStudent := SnapshotsByStudent(snapshots)
	return &State{
		Catalog:   items,
		Students:  students,
		Snapshots: byStudent,
		Results:   Tally(items, students, byStudent),
	}, nil
}

// Items 篩選 messType，空字串代表全部
func (s *State) Items(messType string) []models.MealItem {
	if messType == "" {
		return s.Catalog
	}
	var items []models.MealItem
	for _, item := range s.Catalog {
		if item.MessType == messType {
			items = append(items, item)
		}
	}
	return items
}

func (s *State) Views(messType string) []View {
	return Views(s.Items(messType), s.Results)
}

func (s *State) Participation(messType string) Participation {
	return ParticipationRate(s.Students, s.Snapshots, messType)
}
