package cmd

import (
	"context"
	"fmt"

	"menupick-admin-worker/database"
	"menupick-admin-worker/enums"
	"menupick-admin-worker/router"
	"menupick-admin-worker/services/activity"
	"menupick-admin-worker/services/capacity"
	"menupick-admin-worker/services/catalog"
	"menupick-admin-worker/services/feedback"
	"menupick-admin-worker/services/ingest"
	logLib "menupick-admin-worker/services/log"
	"menupick-admin-worker/services/metrics"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/tally"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/services/trackLog"
	"menupick-admin-worker/structs"
	"menupick-admin-worker/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// backend 是 gorm 與 mongo 兩種 store 共同提供的能力
type backend interface {
	store.Catalog
	store.Roster
	store.FeedbackReader
	store.ActivityRecorder
}

type app struct {
	config   *structs.EnviromentModel
	table    *taxonomy.Table
	store    backend
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   *logrus.Entry
	engine   *ingest.Engine
	catalog  *catalog.Service
	tally    *tally.Service
	feedback *feedback.Service
	closers  []func()
}

func loadConfig(opts *options) (*structs.EnviromentModel, *taxonomy.Table, error) {
	envService := utils.EnvService{ConfigFile: opts.configFile}
	config, err := envService.InitEnv()
	if err != nil {
		return nil, nil, err
	}
	table, err := utils.BuildTaxonomy(config)
	if err != nil {
		return nil, nil, err
	}
	return config, table, nil
}

// newApp 初始化 env、log、store 與所有 service，channel 決定 log 檔名
func newApp(ctx context.Context, opts *options, channel string) (*app, error) {
	config, table, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	fmt.Println("參數初始化成功...")

	trackLog.LogTrackInit(config)
	var logService logLib.LogService
	logger := logService.LoggerInit(config, channel).WithFields(logrus.Fields{"name": channel})

	a := &app{config: config, table: table, logger: logger, registry: prometheus.NewRegistry()}
	if a.metrics, err = metrics.New(a.registry); err != nil {
		return nil, err
	}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	checker := capacity.New(table)
	a.engine = ingest.New(table, checker, a.store, logger, a.metrics)
	a.catalog = catalog.NewService(table, checker, a.store, a.engine, logger)
	a.tally = tally.NewService(a.store, a.store, a.metrics)
	a.feedback = feedback.NewService(a.store)

	if err := activity.Record(ctx, a.store, activity.LogJobInit, initDescription(channel), map[string]string{"backend": config.Store.Backend}); err != nil {
		logger.WithError(err).Error("activity log 寫入失敗")
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.config.Store.Backend {
	case enums.StoreMongo:
		client, err := database.ConnectMongo(ctx, a.config)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		mongoStore := store.NewMongoStore(client, a.config.Mongo.Database, a.config.Store.Root)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			a.close()
			return err
		}
		a.store = mongoStore
	default:
		db, err := database.InitDatabasePool(a.config)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := database.Migrate(db); err != nil {
			a.close()
			return err
		}
		a.store = store.NewGormStore(db, a.config.Store.Root)
	}
	return nil
}

func (a *app) router(connectionName string) router.Dependencies {
	return router.Dependencies{
		Table:          a.table,
		Catalog:        a.catalog,
		Tally:          a.tally,
		Feedback:       a.feedback,
		Registry:       a.registry,
		ConnectionName: connectionName,
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func initDescription(channel string) string {
	return fmt.Sprintf("menupick-admin-worker %s 初始化", channel)
}
