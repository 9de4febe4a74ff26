package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ScheduleService/internal/config"
	employeeRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/employee"
	templateRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/template"
	"github.com/m04kA/SMC-ScheduleService/internal/scheduling"
	templatesService "github.com/m04kA/SMC-ScheduleService/internal/service/templates"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

const importTimeout = 2 * time.Minute

func main() {
	var (
		configPath = flag.String("config", "config.toml", "путь к config.toml")
		filePath   = flag.String("file", "", "YAML файл с сотрудниками и шаблонами недель")
		by         = flag.String("by", "import", "автор изменений (updatedBy)")
		dryRun     = flag.Bool("dry-run", false, "только проверить файл, ничего не сохранять")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Println("Usage: import_templates -file templates.yaml [-config config.toml] [-by admin] [-dry-run]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatal("Failed to open %s: %v", *filePath, err)
	}
	data, err := parseImportFile(f)
	_ = f.Close()
	if err != nil {
		log.Fatal("Failed to parse %s: %v", *filePath, err)
	}
	log.Info("Parsed %s: employees=%d, templates=%d", *filePath, len(data.Employees), len(data.Templates))

	if *dryRun {
		for i, t := range data.Templates {
			tpl, err := t.toRequest(*by).ToDomain()
			if err == nil {
				err = scheduling.ValidateTemplate(tpl)
			}
			if err != nil {
				log.Fatal("templates[%d] employee=%s week=%s: %v", i, t.EmployeeID, t.WeekStart, err)
			}
		}
		log.Info("Dry run: file is valid, nothing saved")
		return
	}

	db, err := sqlx.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	wrappedDB := dbmetrics.Wrap(db, nil, cfg.Database.DBName)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	employees := employeeRepo.NewRepository(wrappedDB)
	templatesSvc := templatesService.NewService(employees, templateRepo.NewRepository(wrappedDB), log)

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	// Файл применяется целиком или не применяется вовсе
	err = txMgr.Do(ctx, func(txCtx context.Context) error {
		for _, e := range data.Employees {
			if err := employees.Upsert(txCtx, e.toDomain()); err != nil {
				return fmt.Errorf("employee %s: %w", e.ID, err)
			}
		}
		for i, t := range data.Templates {
			saved, err := templatesSvc.Upsert(txCtx, t.toRequest(*by))
			if err != nil {
				return fmt.Errorf("templates[%d] employee=%s week=%s: %w", i, t.EmployeeID, t.WeekStart, err)
			}
			log.Info("Imported template employee=%s, week=%s", saved.EmployeeID, saved.WeekStart)
		}
		return nil
	})
	if err != nil {
		log.Fatal("Import failed, nothing saved: %v", err)
	}

	log.Info("Import completed: employees=%d, templates=%d", len(data.Employees), len(data.Templates))
}
