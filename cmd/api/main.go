package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/tender-audit/internal/application"
	appai "github.com/bryanwahyu/tender-audit/internal/application/ai"
	appaudit "github.com/bryanwahyu/tender-audit/internal/application/audit"
	appeval "github.com/bryanwahyu/tender-audit/internal/application/evaluation"
	appingest "github.com/bryanwahyu/tender-audit/internal/application/ingest"
	"github.com/bryanwahyu/tender-audit/internal/config"
	domai "github.com/bryanwahyu/tender-audit/internal/domain/ai"
	"github.com/bryanwahyu/tender-audit/internal/domain/analyst"
	domaudit "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/imports"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	openaiclient "github.com/bryanwahyu/tender-audit/internal/infra/ai/openai"
	"github.com/bryanwahyu/tender-audit/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/tender-audit/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/tender-audit/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/tender-audit/internal/infra/db/sqlite"
	"github.com/bryanwahyu/tender-audit/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/tender-audit/internal/infra/storage"
	"github.com/bryanwahyu/tender-audit/internal/scheduler"
)

type repositories struct {
	tenders   procurement.TenderRepository
	contracts procurement.ContractRepository
	market    procurement.MarketPriceRepository
	results   domaudit.Repository
	importLog imports.Repository
	analyses  analyst.Repository
}

// openDatabase pilih driver sesuai config
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repositories, error) {
	var repos repositories

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlitep.Connect(ctx, cfg.Database.Path)
		if err != nil {
			return nil, repos, err
		}
		repos = repositories{
			tenders:   sqlitep.NewTenderRepository(db),
			contracts: sqlitep.NewContractRepository(db),
			market:    sqlitep.NewMarketPriceRepository(db),
			results:   sqlitep.NewAuditResultRepository(db),
			importLog: sqlitep.NewImportErrorRepository(db),
			analyses:  sqlitep.NewAnalystRepository(db),
		}
		return db, repos, nil

	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, repos, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, repos, err
		}
		repos = repositories{
			tenders:   mysqlp.NewTenderRepository(db),
			contracts: mysqlp.NewContractRepository(db),
			market:    mysqlp.NewMarketPriceRepository(db),
			results:   mysqlp.NewAuditResultRepository(db),
			importLog: mysqlp.NewImportErrorRepository(db),
			analyses:  mysqlp.NewAnalystRepository(db),
		}
		return db, repos, nil

	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, repos, err
		}
		if err := postgresp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, repos, err
		}
		repos = repositories{
			tenders:   postgresp.NewTenderRepository(db),
			contracts: postgresp.NewContractRepository(db),
			market:    postgresp.NewMarketPriceRepository(db),
			results:   postgresp.NewAuditResultRepository(db),
			importLog: postgresp.NewImportErrorRepository(db),
			analyses:  postgresp.NewAnalystRepository(db),
		}
		return db, repos, nil

	default:
		return nil, repos, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database
	db, repos, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("database connect error: %v", err)
	}
	defer db.Close()

	// init minio, endpoint kosong berarti arsip mati
	var artifacts domaudit.ArtifactStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	// init AI client, tanpa API key pakai analis lokal
	var aiClient domai.Client
	if cfg.OpenAI.APIKey != "" {
		aiClient = openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		aiClient = prompt.NewLocalAnalyst()
	}

	// init services
	auditSvc := &appaudit.Service{
		Tenders:       repos.tenders,
		Contracts:     repos.contracts,
		Market:        repos.market,
		Results:       repos.results,
		Clock:         application.SystemClock{},
		BrandKeywords: cfg.Audit.BrandKeywords,
	}
	evalSvc := &appeval.Service{
		Tenders: repos.tenders,
		Results: repos.results,
	}
	ingestSvc := &appingest.Service{
		Tenders:   repos.tenders,
		Contracts: repos.contracts,
		Market:    repos.market,
		Results:   repos.results,
		ImportLog: repos.importLog,
		Artifacts: artifacts,
		Clock:     application.SystemClock{},
		Catalog: appingest.Catalog{
			Entities:   cfg.Generator.Entities,
			Categories: cfg.Generator.Categories,
			Sources:    cfg.Generator.Sources,
			Brands:     cfg.Audit.BrandKeywords,
			Items:      cfg.Generator.Items,
			BasePrices: cfg.Generator.BasePrices,
		},
	}
	aiSvc := &appai.Service{
		Client:    aiClient,
		Repo:      repos.analyses,
		Results:   repos.results,
		Artifacts: artifacts,
		Clock:     application.SystemClock{},
	}

	// init scheduler, jadwal kosong berarti nonaktif
	schedCtx, stopSched := context.WithCancel(ctx)
	defer stopSched()
	sched, err := scheduler.New(cfg.Audit.Schedule, func(ctx context.Context) error {
		_, err := auditSvc.RunAll(ctx)
		return err
	})
	if err != nil {
		log.Fatalf("scheduler init error: %v", err)
	}
	if sched != nil {
		go sched.Start(schedCtx)
		log.Printf("audit sweep scheduled: %s", cfg.Audit.Schedule)
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(auditSvc, evalSvc, ingestSvc, aiSvc, db))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")
	stopSched()

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
