package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/templates/models"
)

// importFile содержимое YAML файла импорта
type importFile struct {
	Employees []employeeEntry `yaml:"employees"`
	Templates []templateEntry `yaml:"templates"`
}

type employeeEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	WorkingHours string `yaml:"workingHours"`
	WorkingDays  []int  `yaml:"workingDays"`
	IsActive     *bool  `yaml:"isActive"`
}

type templateEntry struct {
	EmployeeID string               `yaml:"employeeId"`
	WeekStart  string               `yaml:"weekStart"` // "2025-11-17"
	WorkBlocks []models.IntervalDTO `yaml:"workBlocks"`
	Breaks     []models.IntervalDTO `yaml:"breaks"`
}

// parseImportFile читает YAML; неизвестные поля считаются опечаткой
func parseImportFile(r io.Reader) (*importFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f importFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	for i, e := range f.Employees {
		if e.ID == "" {
			return nil, fmt.Errorf("employees[%d]: id is required", i)
		}
		for _, d := range e.WorkingDays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("employees[%d]: workingDays must be in [0, 6], got %d", i, d)
			}
		}
	}
	for i, t := range f.Templates {
		if t.EmployeeID == "" {
			return nil, fmt.Errorf("templates[%d]: employeeId is required", i)
		}
		if _, err := time.Parse(domain.DateFormat, t.WeekStart); err != nil {
			return nil, fmt.Errorf("templates[%d]: weekStart must be YYYY-MM-DD: %w", i, err)
		}
	}

	return &f, nil
}

func (e employeeEntry) toDomain() *domain.Employee {
	days := make([]time.Weekday, len(e.WorkingDays))
	for i, d := range e.WorkingDays {
		days[i] = time.Weekday(d)
	}

	active := true
	if e.IsActive != nil {
		active = *e.IsActive
	}

	return &domain.Employee{
		ID:           e.ID,
		Name:         e.Name,
		WorkingHours: e.WorkingHours,
		WorkingDays:  days,
		IsActive:     active,
	}
}

func (t templateEntry) toRequest(by string) *models.UpsertTemplateRequest {
	// формат уже проверен в parseImportFile
	weekStart, _ := time.Parse(domain.DateFormat, t.WeekStart)

	return &models.UpsertTemplateRequest{
		EmployeeID: t.EmployeeID,
		WeekStart:  weekStart,
		WorkBlocks: t.WorkBlocks,
		Breaks:     t.Breaks,
		UpdatedBy:  by,
	}
}
