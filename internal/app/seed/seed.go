// Package seed populates an empty database with a default user and sample planning data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	authentity "planning_backend/internal/feature/auth/domain/entity"
	authusecase "planning_backend/internal/feature/auth/usecase"
	employee "planning_backend/internal/feature/employees/domain/entity"
	plan "planning_backend/internal/feature/planning/domain/entity"
	project "planning_backend/internal/feature/projects/domain/entity"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
)

type Registrar interface {
	Register(ctx context.Context, in authusecase.RegisterInput) (*authentity.User, error)
}

type EmployeeStore interface {
	GetAll(ctx context.Context) ([]employee.Employee, error)
	Add(ctx context.Context, e *employee.Employee) error
}

type ProjectStore interface {
	Add(ctx context.Context, p *project.Project) error
}

type PlanStore interface {
	Add(ctx context.Context, p *plan.ProjectPlanning) error
}

// Seeder mirrors the startup database initializer: one default user plus sample rows.
type Seeder struct {
	Users     Registrar
	Employees EmployeeStore
	Projects  ProjectStore
	Plans     PlanStore
	Log       *logger.Logger

	UserName string
	Password string
}

// Run is idempotent. An existing user or any existing employee skips the respective step.
func (s *Seeder) Run(ctx context.Context) error {
	if s.Log == nil {
		s.Log = logger.Nop()
	}
	if err := s.seedUser(ctx); err != nil {
		return err
	}
	return s.seedPlanning(ctx)
}

func (s *Seeder) seedUser(ctx context.Context) error {
	_, err := s.Users.Register(ctx, authusecase.RegisterInput{
		UserName:  s.UserName,
		Email:     s.UserName + "@planning.local",
		Password:  s.Password,
		FirstName: "Planning",
		LastName:  "Administrator",
		Claims:    []jwtmw.Claim{{Type: "SuperUser", Value: "True"}},
		Roles:     []string{"Admin"},
	})
	switch {
	case errors.Is(err, authusecase.ErrUserAlreadyExists):
		s.Log.Debug(ctx, "seed user already present")
		return nil
	case err != nil:
		return fmt.Errorf("seeding user: %w", err)
	}
	s.Log.Info(s.Log.WithField(ctx, "username", s.UserName), "seed user created")
	return nil
}

func (s *Seeder) seedPlanning(ctx context.Context) error {
	existing, err := s.Employees.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("checking employees: %w", err)
	}
	if len(existing) > 0 {
		s.Log.Debug(ctx, "sample data already present")
		return nil
	}

	employees := []*employee.Employee{
		{Title: "Software Engineer", FirstName: "Ali", LastName: "Khan", Email: "ali.khan@planning.local"},
		{Title: "Project Manager", FirstName: "Maria", LastName: "Lopez", Email: "maria.lopez@planning.local"},
		{Title: "QA Analyst", FirstName: "Kenji", LastName: "Sato", Email: "kenji.sato@planning.local"},
	}
	for _, e := range employees {
		if err := s.Employees.Add(ctx, e); err != nil {
			return fmt.Errorf("seeding employee %s: %w", e.Email, err)
		}
	}

	year := time.Now().UTC().Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	projects := []*project.Project{
		{ProjectName: "Billing Platform", StartDate: start, EndDate: start.AddDate(1, 0, -1)},
		{ProjectName: "Mobile App", StartDate: start.AddDate(0, 3, 0), EndDate: start.AddDate(2, 0, -1)},
	}
	for _, p := range projects {
		if err := s.Projects.Add(ctx, p); err != nil {
			return fmt.Errorf("seeding project %s: %w", p.ProjectName, err)
		}
	}

	q := decimal.RequireFromString
	plans := []*plan.ProjectPlanning{
		{EmployeeID: employees[0].ID, ProjectID: projects[0].ID, Year: year, Q1: q("1.00"), Q2: q("0.50"), Q3: q("0.50"), Q4: q("0.25")},
		{EmployeeID: employees[0].ID, ProjectID: projects[1].ID, Year: year, Q1: q("0"), Q2: q("0.50"), Q3: q("0.50"), Q4: q("0.75")},
		{EmployeeID: employees[1].ID, ProjectID: projects[0].ID, Year: year, Q1: q("0.50"), Q2: q("0.50"), Q3: q("0.50"), Q4: q("0.50")},
		{EmployeeID: employees[2].ID, ProjectID: projects[1].ID, Year: year, Q1: q("0.25"), Q2: q("1.00"), Q3: q("1.00"), Q4: q("1.00")},
	}
	for _, p := range plans {
		if err := s.Plans.Add(ctx, p); err != nil {
			return fmt.Errorf("seeding plan: %w", err)
		}
	}

	s.Log.Info(s.Log.WithFields(ctx, map[string]any{
		"employees": len(employees),
		"projects":  len(projects),
		"plans":     len(plans),
	}), "sample data seeded")
	return nil
}
